package domain

import "errors"

// Credential failures. All three surface as 401 at the HTTP boundary with the
// same message; they stay distinct for logs and the audit trail.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrAccountLocked      = errors.New("account temporarily locked")
)

var ErrInvalidToken = errors.New("invalid token")
var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidInput = errors.New("invalid input")

var ErrRecordNotFound = errors.New("record not found")
var ErrLedgerEntryNotFound = errors.New("ledger entry not found")
var ErrLedgerConflict = errors.New("ledger entry already registered with a different digest")

// ErrDependencyUnavailable wraps failures of the account store, the contract
// store or the ledger. It is never retried.
var ErrDependencyUnavailable = errors.New("dependency unavailable")
