package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	vault "github.com/hashicorp/vault/api"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

type vaultProvider struct {
	client       *vault.Client
	defaultMount string
}

func newVaultProvider(cfg config.SecretsConfig) (provider, error) {
	if cfg.VaultAddress == "" || cfg.VaultToken == "" {
		return nil, fmt.Errorf("secrets: vault provider requires VAULT_ADDR and VAULT_TOKEN")
	}

	clientCfg := vault.DefaultConfig()
	clientCfg.Address = cfg.VaultAddress

	client, err := vault.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create vault client: %w", err)
	}
	client.SetToken(cfg.VaultToken)
	if cfg.VaultNamespace != "" {
		client.SetNamespace(cfg.VaultNamespace)
	}

	mount := strings.Trim(cfg.VaultMount, "/")
	if mount == "" {
		mount = "secret"
	}
	return &vaultProvider{client: client, defaultMount: mount}, nil
}

func (v *vaultProvider) Name() ProviderType {
	return ProviderVault
}

func (v *vaultProvider) Close() error {
	return nil
}

// Fetch reads a KV v2 secret
func (v *vaultProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	mount := v.defaultMount
	if ref.Mount != "" {
		mount = strings.Trim(ref.Mount, "/")
	}
	path := strings.TrimPrefix(ref.Path, "data/")

	kv := v.client.KVv2(mount)

	var (
		secret *vault.KVSecret
		err    error
	)
	if ref.Version != "" {
		version, convErr := strconv.Atoi(ref.Version)
		if convErr != nil {
			return Secret{}, fmt.Errorf("secrets: invalid vault version %q: %w", ref.Version, convErr)
		}
		secret, err = kv.GetVersion(ctx, path, version)
	} else {
		secret, err = kv.Get(ctx, path)
	}
	if err != nil {
		var respErr *vault.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return Secret{}, fmt.Errorf("secrets: vault path %s/%s not found", mount, path)
		}
		return Secret{}, err
	}

	data := make(map[string]string, len(secret.Data))
	for k, raw := range secret.Data {
		data[k] = fmt.Sprint(raw)
	}

	result := Secret{Data: data}
	if secret.VersionMetadata != nil {
		result.Version = strconv.Itoa(secret.VersionMetadata.Version)
	}
	return result, nil
}
