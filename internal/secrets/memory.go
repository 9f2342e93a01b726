package secrets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryResolver is an in-memory secret store for testing and
// development. It is safe for concurrent use.
type MemoryResolver struct {
	store map[string]string
	mu    sync.RWMutex
}

// NewMemoryResolver creates an empty in-memory resolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{
		store: make(map[string]string),
	}
}

// Name returns the provider identifier.
func (r *MemoryResolver) Name() string {
	return "memory"
}

// Set stores a secret value under the given name.
func (r *MemoryResolver) Set(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[name] = value
}

// Resolve returns the value stored under name.
func (r *MemoryResolver) Resolve(ctx context.Context, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("resolve cancelled: %w", ctx.Err())
	default:
	}

	if name == "" {
		return "", WrapError("secret name cannot be empty", ErrInvalidRef)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.store[name]
	if !ok {
		return "", WrapError(fmt.Sprintf("no value for %q", name), ErrSecretNotFound)
	}
	return value, nil
}
