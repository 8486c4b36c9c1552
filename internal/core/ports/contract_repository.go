package ports

import (
	"context"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// ListContractsFilter carries the query parameters for listing contracts.
type ListContractsFilter struct {
	TransactionID string // optional
	Page          int    // 1-based
	Limit         int
}

// ContractRepository defines persistence operations for contract documents.
type ContractRepository interface {
	// Create inserts the record in a single write and returns it with its ID.
	Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error)
	// FindByID returns domain.ErrRecordNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Contract, error)
	// List returns metadata only (Content is left empty) and the total count.
	List(ctx context.Context, filter ListContractsFilter) ([]*domain.Contract, int64, error)
	Delete(ctx context.Context, id string) error
}
