package config

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvVarProvider implements SecretProvider by reading secrets from OS
// environment variables. Parameter paths are mapped to variable names by
// EnvVarName, so "/alerting/ntfy-token" is read from ALERTING_NTFY_TOKEN.
type EnvVarProvider struct {
	lookupEnv func(key string) (string, bool)
}

// NewEnvVarProvider creates a new EnvVarProvider.
func NewEnvVarProvider() *EnvVarProvider {
	return &EnvVarProvider{lookupEnv: os.LookupEnv}
}

// GetParameter looks up the environment variable derived from name.
// The context is unused; environment lookups cannot block.
func (p *EnvVarProvider) GetParameter(_ context.Context, name string) (string, error) {
	key := EnvVarName(name)
	val, ok := p.lookupEnv(key)
	if !ok || val == "" {
		return "", fmt.Errorf("secret %q: environment variable %s is not set", name, key)
	}
	return val, nil
}

// EnvVarName converts a parameter path into an environment variable name:
// the leading slash is dropped, remaining separators become underscores and
// the result is upper-cased.
func EnvVarName(name string) string {
	trimmed := strings.TrimLeft(name, "/")
	replacer := strings.NewReplacer("/", "_", "-", "_", ".", "_")
	return strings.ToUpper(replacer.Replace(trimmed))
}
