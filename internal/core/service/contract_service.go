package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/autostock/dealership-api/internal/api/metrics"
	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	ledgerTimeout   = 10 * time.Second
	rollbackTimeout = 10 * time.Second
)

// ContractService stores uploaded contracts, registers their digest in the
// ledger and verifies them later.
type ContractService struct {
	repo   ports.ContractRepository
	ledger ports.Ledger
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

func NewContractService(repo ports.ContractRepository, ledger ports.Ledger, audit ports.AuditRecorder, log zerolog.Logger) *ContractService {
	return &ContractService{
		repo:   repo,
		ledger: ledger,
		audit:  audit,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterDocument digests the file, persists the record and registers the
// digest in the ledger. If the ledger rejects the digest the record is
// removed again so callers never see a contract that is missing from the
// ledger.
func (s *ContractService) RegisterDocument(ctx context.Context, in ports.UploadContractInput) (*domain.Contract, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ContractService.RegisterDocument")
	defer span.End()

	if strings.TrimSpace(in.TransactionID) == "" {
		return nil, fmt.Errorf("register document: transaction id is required: %w", domain.ErrInvalidInput)
	}
	if len(in.Content) == 0 {
		return nil, fmt.Errorf("register document: file is empty: %w", domain.ErrInvalidInput)
	}

	digest := domain.ComputeDigest(in.Content)
	record := &domain.Contract{
		TransactionID: in.TransactionID,
		FileName:      in.FileName,
		MimeType:      resolveMimeType(in.MimeType, in.Content),
		FileSize:      int64(len(in.Content)),
		FileHash:      digest,
		Content:       in.Content,
		UploadDate:    s.now(),
		UploadedBy:    in.UploadedBy,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		metrics.ContractRegistrationErrorsTotal.WithLabelValues("store_failed").Inc()
		span.SetStatus(codes.Error, "store failed")
		return nil, fmt.Errorf("register document: store: %w: %v", domain.ErrDependencyUnavailable, err)
	}
	span.SetAttributes(attribute.String("contract.id", created.ID))

	// Once the record is stored, the ledger write and its rollback must finish
	// even if the caller goes away.
	detached := context.WithoutCancel(ctx)
	if err := s.registerInLedger(detached, digest, created.ID); err != nil {
		span.SetStatus(codes.Error, "ledger failed")
		s.rollback(detached, created.ID)
		if errors.Is(err, domain.ErrLedgerConflict) {
			metrics.ContractRegistrationErrorsTotal.WithLabelValues("ledger_conflict").Inc()
			return nil, fmt.Errorf("register document: %w", err)
		}
		metrics.ContractRegistrationErrorsTotal.WithLabelValues("ledger_failed").Inc()
		return nil, fmt.Errorf("register document: ledger: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	metrics.ContractsRegisteredTotal.Inc()
	s.log.Info().
		Str("contract_id", created.ID).
		Str("transaction_id", created.TransactionID).
		Str("digest", digest).
		Int64("size", created.FileSize).
		Msg("contract registered")
	s.audit.Record(domain.AuditEntry{
		Actor:     in.UploadedBy,
		Action:    domain.AuditContractRegistered,
		Entity:    domain.EntityContract,
		EntityID:  created.ID,
		Details:   map[string]string{"digest": digest, "file_name": created.FileName},
		IPAddress: domain.ClientIP(ctx),
		Timestamp: created.UploadDate,
	})

	return created, nil
}

// VerifyIntegrity recomputes the digest of the stored bytes and compares it
// with the digest written at upload time and the one held by the ledger.
func (s *ContractService) VerifyIntegrity(ctx context.Context, id, actor string) (*ports.IntegrityReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ContractService.VerifyIntegrity",
		trace.WithAttributes(attribute.String("contract.id", id)))
	defer span.End()

	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	ledgerDigest, err := s.lookupInLedger(ctx, record.ID)
	switch {
	case errors.Is(err, domain.ErrLedgerEntryNotFound):
		ledgerDigest = ""
	case err != nil:
		span.SetStatus(codes.Error, "ledger lookup failed")
		return nil, fmt.Errorf("verify integrity: ledger: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	computed := domain.ComputeDigest(record.Content)
	report := &ports.IntegrityReport{
		ContractID:     record.ID,
		StoredDigest:   record.FileHash,
		ComputedDigest: computed,
		LedgerDigest:   ledgerDigest,
		ContentIntact:  computed == record.FileHash,
		LedgerMatch:    ledgerDigest != "" && ledgerDigest == record.FileHash,
		VerifiedAt:     s.now(),
	}
	report.IsValid = report.ContentIntact && report.LedgerMatch

	result := integrityResult(report)
	metrics.IntegrityChecksTotal.WithLabelValues(result).Inc()
	span.SetAttributes(attribute.Bool("contract.valid", report.IsValid))

	evt := s.log.Info()
	if !report.IsValid {
		evt = s.log.Warn()
	}
	evt.Str("contract_id", record.ID).
		Str("result", result).
		Str("stored_digest", report.StoredDigest).
		Str("computed_digest", report.ComputedDigest).
		Str("ledger_digest", report.LedgerDigest).
		Msg("contract integrity verified")

	s.audit.Record(domain.AuditEntry{
		Actor:     actor,
		Action:    domain.AuditContractVerified,
		Entity:    domain.EntityContract,
		EntityID:  record.ID,
		Details:   map[string]string{"result": result},
		IPAddress: domain.ClientIP(ctx),
		Timestamp: report.VerifiedAt,
	})

	return report, nil
}

// FetchFile returns the stored bytes with the original name and MIME type.
func (s *ContractService) FetchFile(ctx context.Context, id string) (*ports.ContractFile, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.ContractFile{
		Content:  record.Content,
		FileName: record.FileName,
		MimeType: record.MimeType,
	}, nil
}

// GetContract returns the contract metadata.
func (s *ContractService) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	return s.find(ctx, id)
}

// ListContracts returns a page of contract metadata, optionally filtered by
// transaction.
func (s *ContractService) ListContracts(ctx context.Context, in ports.ListContractsInput) (*ports.ListContractsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ListContractsFilter{
		TransactionID: in.TransactionID,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListContractsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteContract removes the record. The ledger entry is append-only and stays.
func (s *ContractService) DeleteContract(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("delete contract: %w: %v", domain.ErrDependencyUnavailable, err)
	}

	s.log.Info().Str("contract_id", id).Str("actor", actor).Msg("contract deleted")
	s.audit.Record(domain.AuditEntry{
		Actor:     actor,
		Action:    domain.AuditContractDeleted,
		Entity:    domain.EntityContract,
		EntityID:  id,
		IPAddress: domain.ClientIP(ctx),
		Timestamp: s.now(),
	})
	return nil
}

func (s *ContractService) find(ctx context.Context, id string) (*domain.Contract, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find contract: %w: %v", domain.ErrDependencyUnavailable, err)
	}
	return record, nil
}

// rollback removes a record whose digest never reached the ledger.
func (s *ContractService) rollback(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, rollbackTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("contract_id", id).Msg("failed to roll back contract after ledger failure")
	}
}

func (s *ContractService) registerInLedger(ctx context.Context, digest, id string) error {
	ctx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	defer cancel()

	start := time.Now()
	err := s.ledger.Register(ctx, digest, id)
	metrics.LedgerOperationDuration.WithLabelValues("register", opStatus(err)).Observe(time.Since(start).Seconds())
	return err
}

func (s *ContractService) lookupInLedger(ctx context.Context, id string) (string, error) {
	start := time.Now()
	digest, err := s.ledger.Lookup(ctx, id)
	status := opStatus(err)
	if errors.Is(err, domain.ErrLedgerEntryNotFound) {
		status = "ok"
	}
	metrics.LedgerOperationDuration.WithLabelValues("lookup", status).Observe(time.Since(start).Seconds())
	return digest, err
}

// resolveMimeType keeps the client-declared type unless it is missing or
// generic, in which case the content is sniffed.
func resolveMimeType(declared string, content []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(content).String()
}

func integrityResult(r *ports.IntegrityReport) string {
	switch {
	case !r.ContentIntact:
		return "content_mismatch"
	case r.LedgerDigest == "":
		return "ledger_missing"
	case !r.LedgerMatch:
		return "ledger_mismatch"
	default:
		return "valid"
	}
}

func opStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
