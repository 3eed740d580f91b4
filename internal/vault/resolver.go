package vault

import (
	"context"
	"os"
)

// Resolver reads credentials with an environment-variable fallback. The store
// wins over the environment: operators migrate a credential from static env
// configuration into the vault without a restart, and the resolver prefers
// the newer source automatically.
type Resolver struct {
	vault *Vault
}

// NewResolver creates a Resolver over the given vault.
func NewResolver(v *Vault) *Resolver {
	return &Resolver{vault: v}
}

// GetWithFallback tries the store first; on absence or an empty value it falls
// back to the named process environment variable. Returns ("", false) when
// neither source has a value.
func (r *Resolver) GetWithFallback(ctx context.Context, platform, key, envVar string) (string, bool) {
	if val, ok := r.vault.Get(ctx, platform, key); ok && val != "" {
		return val, true
	}
	if envVar != "" {
		if val := os.Getenv(envVar); val != "" {
			return val, true
		}
	}
	return "", false
}
