package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvResolver resolves secrets from environment variables. Secret names
// are upper-cased and non-alphanumeric characters are replaced with
// underscores, so "hosting/api-token" resolves from HOSTING_API_TOKEN.
type EnvResolver struct {
	prefix string
}

// NewEnvResolver creates an environment-backed resolver. The prefix, if
// non-empty, is prepended to every variable name with an underscore.
func NewEnvResolver(prefix string) *EnvResolver {
	return &EnvResolver{prefix: prefix}
}

// Name returns the provider identifier.
func (r *EnvResolver) Name() string {
	return "env"
}

// Resolve returns the value of the environment variable derived from name.
func (r *EnvResolver) Resolve(ctx context.Context, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("resolve cancelled: %w", ctx.Err())
	default:
	}

	if name == "" {
		return "", WrapError("secret name cannot be empty", ErrInvalidRef)
	}

	key := r.variableName(name)
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", WrapError(fmt.Sprintf("environment variable %s is not set", key), ErrSecretNotFound)
	}
	return value, nil
}

// variableName maps a secret name to an environment variable name.
func (r *EnvResolver) variableName(name string) string {
	mapped := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z':
			return c - 'a' + 'A'
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		default:
			return '_'
		}
	}, name)

	if r.prefix != "" {
		return r.prefix + "_" + mapped
	}
	return mapped
}
