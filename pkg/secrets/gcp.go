package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"google.golang.org/api/option"
)

type gcpProvider struct {
	client  *secretmanager.Client
	project string
}

func newGCPProvider(ctx context.Context, cfg config.SecretsConfig) (provider, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("secrets: gcp provider requires GCP_PROJECT_ID")
	}

	var opts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create gcp secret manager client: %w", err)
	}

	return &gcpProvider{client: client, project: cfg.GCPProjectID}, nil
}

func (g *gcpProvider) Name() ProviderType {
	return ProviderGCP
}

func (g *gcpProvider) Close() error {
	return g.client.Close()
}

func (g *gcpProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	name := gcpVersionName(g.project, ref)

	resp, err := g.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: gcp fetch failed for %s: %w", ref.Path, err)
	}

	secret := Secret{Version: resp.GetName()}
	if payload := resp.GetPayload(); payload != nil {
		secret.Data = decodePayload(payload.GetData())
	}
	return secret, nil
}

// gcpVersionName expands a short secret id into its full resource name
func gcpVersionName(project string, ref Reference) string {
	if strings.HasPrefix(ref.Path, "projects/") {
		return ref.Path
	}
	version := ref.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, ref.Path, version)
}
