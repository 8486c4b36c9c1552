package ledger

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autostock/dealership-api/internal/core/domain"
)

func TestCompareDigest(t *testing.T) {
	if err := compareDigest("c-1", digestA, digestA); err != nil {
		t.Fatalf("same digest must be accepted, got %v", err)
	}
	if err := compareDigest("c-1", digestA, digestB); !errors.Is(err, domain.ErrLedgerConflict) {
		t.Fatalf("expected ErrLedgerConflict, got %v", err)
	}
}

func TestLookupError(t *testing.T) {
	if err := lookupError(mongo.ErrNoDocuments); !errors.Is(err, domain.ErrLedgerEntryNotFound) {
		t.Fatalf("expected ErrLedgerEntryNotFound, got %v", err)
	}
	if err := lookupError(fmt.Errorf("decode: %w", mongo.ErrNoDocuments)); !errors.Is(err, domain.ErrLedgerEntryNotFound) {
		t.Fatalf("expected wrapped ErrNoDocuments to map to ErrLedgerEntryNotFound, got %v", err)
	}

	down := errors.New("server selection timeout")
	err := lookupError(down)
	if errors.Is(err, domain.ErrLedgerEntryNotFound) || !errors.Is(err, down) {
		t.Fatalf("expected the storage error to pass through, got %v", err)
	}
}

