package ports

import (
	"context"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
