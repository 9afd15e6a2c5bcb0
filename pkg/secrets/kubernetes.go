package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

// kubernetesProvider reads secrets mounted as files. A directory is one secret
// with a key per file; a single file is a secret whose key is the file name.
type kubernetesProvider struct {
	basePath string
}

func newKubernetesProvider(cfg config.SecretsConfig) (provider, error) {
	info, err := os.Stat(cfg.MountPath)
	if err != nil {
		return nil, fmt.Errorf("secrets: mount path %s not accessible: %w", cfg.MountPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets: mount path %s is not a directory", cfg.MountPath)
	}
	return &kubernetesProvider{basePath: cfg.MountPath}, nil
}

func (k *kubernetesProvider) Name() ProviderType {
	return ProviderKubernetes
}

func (k *kubernetesProvider) Close() error {
	return nil
}

func (k *kubernetesProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	target := filepath.Join(k.basePath, filepath.Clean("/"+ref.Path))
	info, err := os.Stat(target)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: %s not found: %w", target, err)
	}

	if !info.IsDir() {
		content, err := os.ReadFile(target)
		if err != nil {
			return Secret{}, err
		}
		return Secret{Data: map[string]string{filepath.Base(target): strings.TrimSpace(string(content))}}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return Secret{}, err
	}
	data := make(map[string]string, len(entries))
	for _, entry := range entries {
		// Kubernetes projects keys through ..data symlinks; plain files are the keys
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "..") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(target, entry.Name()))
		if err != nil {
			return Secret{}, err
		}
		data[entry.Name()] = strings.TrimSpace(string(content))
	}
	return Secret{Data: data}, nil
}
