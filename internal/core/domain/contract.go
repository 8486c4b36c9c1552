package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Contract is one uploaded document attached to a vehicle transaction.
// FileHash is written once at creation and never modified.
type Contract struct {
	ID            string
	TransactionID string
	FileName      string
	MimeType      string
	FileSize      int64
	FileHash      string
	Content       []byte
	UploadDate    time.Time
	UploadedBy    string
}

// LedgerEntry is a digest registered for a contract in the external ledger.
type LedgerEntry struct {
	RecordID     string
	Digest       string
	RegisteredAt time.Time
}

// ComputeDigest returns the lowercase hex SHA-256 of content.
func ComputeDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
