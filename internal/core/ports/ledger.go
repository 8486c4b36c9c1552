package ports

import "context"

// Ledger is the external append-only registrar of contract digests.
type Ledger interface {
	// Register records digest for recordID. Registering the same pair twice is
	// a no-op; a different digest for a known recordID is
	// domain.ErrLedgerConflict.
	Register(ctx context.Context, digest, recordID string) error
	// Lookup returns domain.ErrLedgerEntryNotFound for unknown record ids.
	Lookup(ctx context.Context, recordID string) (string, error)
}
