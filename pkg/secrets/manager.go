package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
)

// ProviderType enumerates supported secret backends.
type ProviderType string

const (
	ProviderNone       ProviderType = ""
	ProviderVault      ProviderType = "vault"
	ProviderAWS        ProviderType = "aws"
	ProviderGCP        ProviderType = "gcp"
	ProviderKubernetes ProviderType = "kubernetes"
)

// SecretType classifies a credential for logging.
type SecretType string

const (
	SecretDatabase SecretType = "database_password"
	SecretRedis    SecretType = "redis_password"
	SecretOpenAI   SecretType = "openai_api_key"
	SecretTwilio   SecretType = "twilio_auth_token"
	SecretStorage  SecretType = "storage_secret_key"
	SecretSentry   SecretType = "sentry_dsn"
)

var (
	// ErrProviderNotConfigured is returned when no provider is configured.
	ErrProviderNotConfigured = errors.New("secrets: provider not configured")
	// ErrInvalidReference indicates an invalid or empty reference string.
	ErrInvalidReference = errors.New("secrets: invalid reference")
	// ErrKeyNotFound is returned when a requested key does not exist in the secret payload.
	ErrKeyNotFound = errors.New("secrets: key not found")
)

// Reference locates one value inside a secret.
type Reference struct {
	Name     string
	Path     string
	Mount    string // Vault mount, overrides the configured one
	Key      string
	Version  string
	Provider ProviderType
	Type     SecretType
}

// CacheKey identifies the secret payload, not the key inside it, so several
// credentials stored in one secret cost a single fetch.
func (r Reference) CacheKey() string {
	sb := strings.Builder{}
	if r.Mount != "" {
		sb.WriteString(r.Mount)
		sb.WriteString("|")
	}
	sb.WriteString(r.Path)
	if r.Version != "" {
		sb.WriteString("@")
		sb.WriteString(r.Version)
	}
	return sb.String()
}

// ParseReference converts a raw reference string into a Reference.
// Supported syntax: [provider://][mount::]path[@version][#key]
func ParseReference(name string, secretType SecretType, raw string) (Reference, error) {
	ref := Reference{Name: name, Type: secretType}

	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ref, ErrInvalidReference
	}

	if idx := strings.Index(clean, "://"); idx > 0 {
		ref.Provider = ProviderType(clean[:idx])
		clean = clean[idx+3:]
	}

	if idx := strings.Index(clean, "#"); idx >= 0 {
		ref.Key = strings.TrimSpace(clean[idx+1:])
		clean = strings.TrimSpace(clean[:idx])
	}

	if idx := strings.Index(clean, "@"); idx >= 0 {
		ref.Version = strings.TrimSpace(clean[idx+1:])
		clean = strings.TrimSpace(clean[:idx])
	}

	ref.Path = strings.Trim(clean, "/")
	if idx := strings.Index(ref.Path, "::"); idx >= 0 {
		ref.Mount = strings.TrimSpace(ref.Path[:idx])
		ref.Path = strings.Trim(ref.Path[idx+2:], "/")
	}

	if ref.Path == "" {
		return ref, ErrInvalidReference
	}
	return ref, nil
}

// Secret is a resolved secret payload.
type Secret struct {
	Data      map[string]string
	Version   string
	FetchedAt time.Time
}

// Value returns a single non-empty entry from the payload.
func (s Secret) Value(key string) (string, bool) {
	val, ok := s.Data[key]
	return val, ok && val != ""
}

// Manager resolves secrets from the configured backend.
type Manager interface {
	GetString(ctx context.Context, ref Reference) (string, error)
	Close() error
}

type provider interface {
	Name() ProviderType
	Fetch(ctx context.Context, ref Reference) (Secret, error)
	Close() error
}

type manager struct {
	provider provider
	cacheTTL time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]Secret
}

// NewManager creates a Manager for the configured provider.
func NewManager(ctx context.Context, cfg config.SecretsConfig) (Manager, error) {
	var (
		prov provider
		err  error
	)

	switch ProviderType(cfg.Provider) {
	case ProviderNone:
		return nil, ErrProviderNotConfigured
	case ProviderVault:
		prov, err = newVaultProvider(cfg)
	case ProviderAWS:
		prov, err = newAWSProvider(ctx, cfg)
	case ProviderGCP:
		prov, err = newGCPProvider(ctx, cfg)
	case ProviderKubernetes:
		prov, err = newKubernetesProvider(cfg)
	default:
		err = fmt.Errorf("secrets: unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newManager(prov, cfg.CacheTTL()), nil
}

func newManager(prov provider, ttl time.Duration) *manager {
	return &manager{
		provider: prov,
		cacheTTL: ttl,
		now:      time.Now,
		cache:    make(map[string]Secret),
	}
}

func (m *manager) Close() error {
	return m.provider.Close()
}

// GetString returns the keyed value from the referenced secret.
func (m *manager) GetString(ctx context.Context, ref Reference) (string, error) {
	if ref.Key == "" {
		return "", fmt.Errorf("%w: reference %q names no key", ErrKeyNotFound, ref.Name)
	}

	secret, err := m.get(ctx, ref)
	if err != nil {
		return "", err
	}

	if value, ok := secret.Value(ref.Key); ok {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrKeyNotFound, ref.Key, ref.Path)
}

func (m *manager) get(ctx context.Context, ref Reference) (Secret, error) {
	if ref.Path == "" {
		return Secret{}, ErrInvalidReference
	}
	if ref.Provider != ProviderNone && ref.Provider != m.provider.Name() {
		return Secret{}, fmt.Errorf("secrets: reference %q targets %q but the manager uses %q", ref.Name, ref.Provider, m.provider.Name())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if cached, ok := m.cache[ref.CacheKey()]; ok && now.Sub(cached.FetchedAt) < m.cacheTTL {
		return cached, nil
	}

	secret, err := m.provider.Fetch(ctx, ref)
	if err != nil {
		logger.Warn("Secret fetch failed",
			zap.String("secret_name", ref.Name),
			zap.String("provider", string(m.provider.Name())),
			zap.Error(err))
		return Secret{}, err
	}
	secret.FetchedAt = now
	m.cache[ref.CacheKey()] = secret

	logger.Info("Secret fetched",
		zap.String("secret_name", ref.Name),
		zap.String("secret_type", string(ref.Type)),
		zap.String("provider", string(m.provider.Name())),
		zap.String("version", secret.Version))
	return secret, nil
}

// decodePayload reads a JSON object of strings, or keeps the raw text under "value"
func decodePayload(data []byte) map[string]string {
	var asMap map[string]string
	if err := json.Unmarshal(data, &asMap); err == nil {
		return asMap
	}
	return map[string]string{"value": string(data)}
}
