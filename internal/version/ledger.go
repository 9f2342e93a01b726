package version

import (
	"context"
	"fmt"
)

// Store is the durable storage port for the version value. The repository
// owns the value; the ledger only reads and writes it through this interface
// so the release flow stays testable without a real repository.
type Store interface {
	// ReadVersion returns the raw stored version value.
	ReadVersion(ctx context.Context) (string, error)

	// WriteVersion replaces the stored version value.
	WriteVersion(ctx context.Context, value string) error
}

// Ledger reads and writes the persisted version through a Store.
// It performs no bump decisions itself; callers combine Current with
// Version.Next and write the result back as part of the same run.
type Ledger struct {
	store Store
}

// NewLedger creates a Ledger backed by the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Current reads and parses the stored version. A value that does not parse
// surfaces ErrMalformedVersion; it is never guessed or defaulted.
func (l *Ledger) Current(ctx context.Context) (Version, error) {
	raw, err := l.store.ReadVersion(ctx)
	if err != nil {
		return Version{}, fmt.Errorf("failed to read stored version: %w", err)
	}

	v, err := Parse(raw)
	if err != nil {
		return Version{}, err
	}

	return v, nil
}

// Write persists the given version in canonical form.
func (l *Ledger) Write(ctx context.Context, v Version) error {
	if err := l.store.WriteVersion(ctx, v.String()); err != nil {
		return fmt.Errorf("failed to write version %s: %w", v, err)
	}
	return nil
}
