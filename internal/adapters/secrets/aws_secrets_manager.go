package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/giftbridge/settlement-service/internal/adapters/ports"
)

// AWSSecretsManagerConfig contains configuration for the AWS adapter
type AWSSecretsManagerConfig struct {
	Region string

	// Optional AWS profile name (for local development)
	Profile string

	// Optional custom endpoint (for LocalStack testing)
	Endpoint string
}

// awsSecretsManagerAdapter implements SecretManagerAdapter for AWS Secrets Manager
type awsSecretsManagerAdapter struct {
	client *secretsmanager.Client
	logger *zap.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager adapter
func NewAWSSecretsManager(ctx context.Context, cfg *AWSSecretsManagerConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	logger.Info("AWS Secrets Manager adapter initialized",
		zap.String("region", cfg.Region))

	return &awsSecretsManagerAdapter{
		client: secretsmanager.NewFromConfig(awsCfg, clientOpts...),
		logger: logger,
	}, nil
}

// GetSecret retrieves a secret by name
func (a *awsSecretsManagerAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	out, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %q: %w", path, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string value", path)
	}

	version := ""
	if out.VersionId != nil {
		version = *out.VersionId
	}

	return &ports.Secret{Value: *out.SecretString, Version: version}, nil
}
