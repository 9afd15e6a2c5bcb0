package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

// secretValueGetter is the slice of the Secrets Manager API used here
type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type awsProvider struct {
	client secretValueGetter
}

// newAWSProvider uses the default credential chain, the same one receipt storage relies on
func newAWSProvider(ctx context.Context, cfg config.SecretsConfig) (provider, error) {
	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("secrets: aws provider requires SECRETS_AWS_REGION")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to load aws config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})
	return &awsProvider{client: client}, nil
}

func (a *awsProvider) Name() ProviderType {
	return ProviderAWS
}

func (a *awsProvider) Close() error {
	return nil
}

func (a *awsProvider) Fetch(ctx context.Context, ref Reference) (Secret, error) {
	input := &secretsmanager.GetSecretValueInput{SecretId: aws.String(ref.Path)}
	if ref.Version != "" {
		input.VersionId = aws.String(ref.Version)
	}

	result, err := a.client.GetSecretValue(ctx, input)
	if err != nil {
		return Secret{}, fmt.Errorf("secrets: aws fetch failed for %s: %w", ref.Path, err)
	}
	if result.SecretString == nil {
		return Secret{}, fmt.Errorf("secrets: aws secret %s has no string value", ref.Path)
	}

	return Secret{
		Data:    decodePayload([]byte(*result.SecretString)),
		Version: aws.ToString(result.VersionId),
	}, nil
}
