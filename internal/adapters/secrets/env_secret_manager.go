package secrets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/giftbridge/settlement-service/internal/adapters/ports"
)

// envSecretManager resolves secrets from environment variables.
// Development fallback; use AWS Secrets Manager or Vault in production.
type envSecretManager struct {
	logger *zap.Logger
}

// NewEnvSecretManager creates a secret manager backed by the environment
func NewEnvSecretManager(logger *zap.Logger) ports.SecretManagerAdapter {
	logger.Info("using environment secret manager; not recommended for production")
	return &envSecretManager{logger: logger}
}

// GetSecret reads the named environment variable
func (e *envSecretManager) GetSecret(_ context.Context, path string) (*ports.Secret, error) {
	value, ok := os.LookupEnv(path)
	if !ok {
		return nil, fmt.Errorf("environment variable %q not set", path)
	}
	return &ports.Secret{Value: value, Version: "env"}, nil
}
