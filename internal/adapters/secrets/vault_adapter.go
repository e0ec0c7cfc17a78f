package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/giftbridge/settlement-service/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault adapter
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Token authentication
	Token string

	// KV v2 secrets engine mount path (default: "secret")
	MountPath string
}

// vaultAdapter implements SecretManagerAdapter for HashiCorp Vault (KV v2)
type vaultAdapter struct {
	client *vault.Client
	mount  string
	logger *zap.Logger
}

// NewVaultAdapter creates a new HashiCorp Vault adapter
func NewVaultAdapter(cfg *VaultConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("create Vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}

	logger.Info("Vault adapter initialized",
		zap.String("address", cfg.Address),
		zap.String("mount_path", mount))

	return &vaultAdapter{client: client, mount: mount, logger: logger}, nil
}

// GetSecret retrieves a secret from the KV v2 engine. The secret's "value"
// key holds the payload.
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	kv := a.client.KVv2(a.mount)

	secret, err := kv.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get secret %q: %w", path, err)
	}

	value, ok := secret.Data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("secret %q has no string value key", path)
	}

	return &ports.Secret{
		Value:   value,
		Version: fmt.Sprintf("%d", secret.VersionMetadata.Version),
	}, nil
}
