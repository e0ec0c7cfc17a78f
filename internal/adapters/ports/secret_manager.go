package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value   string
	Version string
}

// SecretManagerAdapter retrieves secrets from a secret management backend.
// Backends: AWS Secrets Manager, HashiCorp Vault, or plain environment
// variables for development. Secrets are read at startup only, so adapters
// fetch on every call rather than keeping a process-wide cache.
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name.
	// Path format depends on the backend:
	//   - AWS: "settlement-service/database"
	//   - Vault: KV path under the configured mount
	//   - Env: environment variable name
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
