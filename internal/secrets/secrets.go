// Package secrets resolves credentials the pipeline needs at runtime,
// such as the hosting API token. Providers resolve names to string
// values; secret values never appear in logs or error messages.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Standard error types for secret resolution. They can be matched with
// errors.Is() across all providers.
var (
	// ErrSecretNotFound indicates the named secret does not exist in the
	// provider's backing store.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrInvalidRef indicates the secret name is empty or malformed.
	ErrInvalidRef = errors.New("invalid secret reference")

	// ErrProviderError indicates a provider-level failure such as a
	// network or authentication problem.
	ErrProviderError = errors.New("provider error")

	// ErrAccessDenied indicates the operation was denied due to
	// insufficient permissions.
	ErrAccessDenied = errors.New("access denied")
)

// Resolver retrieves secret values by name.
type Resolver interface {
	// Resolve returns the value for the named secret.
	Resolve(ctx context.Context, name string) (string, error)
	// Name returns the provider identifier.
	Name() string
}

// WrapError wraps an error with a formatted message while preserving
// the error chain for errors.Is checks.
func WrapError(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
