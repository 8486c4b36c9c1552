package ports

import (
	"context"
	"time"

	"github.com/autostock/dealership-api/internal/core/domain"
)

// UploadContractInput carries an uploaded file and its metadata.
type UploadContractInput struct {
	TransactionID string
	FileName      string
	MimeType      string
	Content       []byte
	UploadedBy    string
}

// IntegrityReport is the outcome of a three-way digest comparison.
type IntegrityReport struct {
	ContractID     string
	IsValid        bool
	StoredDigest   string
	ComputedDigest string
	LedgerDigest   string
	// ContentIntact is true when the stored bytes still hash to StoredDigest.
	ContentIntact bool
	// LedgerMatch is true when the ledger holds StoredDigest for the contract.
	LedgerMatch bool
	VerifiedAt  time.Time
}

// ContractFile is the downloadable view of a contract.
type ContractFile struct {
	Content  []byte
	FileName string
	MimeType string
}

// ListContractsInput carries the parameters for the list endpoint.
type ListContractsInput struct {
	TransactionID string
	Page          int
	Limit         int
}

// ListContractsResult is returned by ListContracts.
type ListContractsResult struct {
	Items      []*domain.Contract
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ContractService registers contracts and checks their integrity.
type ContractService interface {
	RegisterDocument(ctx context.Context, input UploadContractInput) (*domain.Contract, error)
	VerifyIntegrity(ctx context.Context, id, actor string) (*IntegrityReport, error)
	FetchFile(ctx context.Context, id string) (*ContractFile, error)
	GetContract(ctx context.Context, id string) (*domain.Contract, error)
	ListContracts(ctx context.Context, input ListContractsInput) (*ListContractsResult, error)
	DeleteContract(ctx context.Context, id, actor string) error
}
