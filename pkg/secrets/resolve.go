package secrets

import (
	"context"
	"fmt"

	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

type binding struct {
	name   string
	typ    SecretType
	raw    string
	target *string
}

func bindings(cfg *config.Config) []binding {
	refs := cfg.Secrets.Refs
	return []binding{
		{"database password", SecretDatabase, refs.DatabasePassword, &cfg.Database.Password},
		{"redis password", SecretRedis, refs.RedisPassword, &cfg.Redis.Password},
		{"openai api key", SecretOpenAI, refs.OpenAIAPIKey, &cfg.AI.APIKey},
		{"twilio auth token", SecretTwilio, refs.TwilioAuthToken, &cfg.SMS.AuthToken},
		{"storage secret key", SecretStorage, refs.StorageSecretKey, &cfg.Storage.SecretKey},
		{"sentry dsn", SecretSentry, refs.SentryDSN, &cfg.Sentry.DSN},
	}
}

// Apply replaces every credential in cfg that has a secret reference with the
// value fetched through m. Credentials without a reference keep their env value.
func Apply(ctx context.Context, m Manager, cfg *config.Config) error {
	for _, b := range bindings(cfg) {
		if b.raw == "" {
			continue
		}
		ref, err := ParseReference(b.name, b.typ, b.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		value, err := m.GetString(ctx, ref)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		*b.target = value
	}
	return nil
}

// Load resolves cfg's secret references when a provider is configured
func Load(ctx context.Context, cfg *config.Config) error {
	if cfg.Secrets.Provider == "" {
		return nil
	}

	m, err := NewManager(ctx, cfg.Secrets)
	if err != nil {
		return err
	}
	defer m.Close()

	return Apply(ctx, m, cfg)
}
