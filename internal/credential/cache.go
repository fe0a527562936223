// Package credential caches the ntfy bearer token for the life of the
// Lambda execution environment.
package credential

import (
	"context"
	"sync"

	"alertforwarder/internal/types"
)

// SecretReader reads one secret by name. config.SSMProvider and
// config.EnvVarProvider satisfy it.
type SecretReader interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Cache fetches a single named secret on first use and keeps it until the
// process exits. The value is never invalidated. A failed fetch is not
// cached, so the next call asks the secret store again.
type Cache struct {
	reader SecretReader
	name   string
	logger types.Logger

	mu     sync.Mutex
	value  types.SecretString
	loaded bool
}

// NewCache creates a Cache for the parameter name.
func NewCache(reader SecretReader, name string, logger types.Logger) *Cache {
	return &Cache{
		reader: reader,
		name:   name,
		logger: logger,
	}
}

// Token returns the cached secret, reading it from the store on first call.
func (c *Cache) Token(ctx context.Context) (types.SecretString, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.value, nil
	}

	raw, err := c.reader.GetParameter(ctx, c.name)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalSecretResolution,
			"failed to read ntfy token",
			err,
		).WithDetails(map[string]any{"parameter": c.name})
	}

	c.value = types.SecretString(raw)
	c.loaded = true

	c.logger.Info("ntfy token loaded",
		"parameter", c.name,
		"token_length", c.value.Len(),
	)

	return c.value, nil
}

// Loaded reports whether the secret has been fetched.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}
