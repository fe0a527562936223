package config

import "context"

// SecretProvider abstracts reading one secret by name. It is satisfied by
// SSMProvider (AWS Parameter Store, with decryption) and EnvVarProvider
// (local development).
type SecretProvider interface {
	// GetParameter returns the decrypted plaintext value stored under name.
	GetParameter(ctx context.Context, name string) (string, error)
}
