package handler

import (
	"time"

	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

type contractLinks struct {
	Self   string `json:"self"`
	File   string `json:"file"`
	Verify string `json:"verify"`
}

type contractResponse struct {
	ID            string        `json:"id"`
	TransactionID string        `json:"transaction_id"`
	FileName      string        `json:"file_name"`
	MimeType      string        `json:"mime_type"`
	FileSize      int64         `json:"file_size"`
	FileHash      string        `json:"file_hash"`
	UploadDate    time.Time     `json:"upload_date"`
	UploadedBy    string        `json:"uploaded_by"`
	Links         contractLinks `json:"_links"`
}

type listContractsResponse struct {
	Items      []contractResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type integrityResponse struct {
	ContractID     string    `json:"contract_id"`
	IsValid        bool      `json:"is_valid"`
	StoredDigest   string    `json:"stored_digest"`
	ComputedDigest string    `json:"computed_digest"`
	LedgerDigest   string    `json:"ledger_digest"`
	ContentIntact  bool      `json:"content_intact"`
	LedgerMatch    bool      `json:"ledger_match"`
	VerifiedAt     time.Time `json:"verified_at"`
}

// --- Service result → HTTP response ---

func toContractResponse(c *domain.Contract) contractResponse {
	self := "/v1/contracts/" + c.ID
	return contractResponse{
		ID:            c.ID,
		TransactionID: c.TransactionID,
		FileName:      c.FileName,
		MimeType:      c.MimeType,
		FileSize:      c.FileSize,
		FileHash:      c.FileHash,
		UploadDate:    c.UploadDate.UTC(),
		UploadedBy:    c.UploadedBy,
		Links: contractLinks{
			Self:   self,
			File:   self + "/file",
			Verify: self + "/verify",
		},
	}
}

func toListResponse(r *ports.ListContractsResult) listContractsResponse {
	items := make([]contractResponse, 0, len(r.Items))
	for _, c := range r.Items {
		items = append(items, toContractResponse(c))
	}
	return listContractsResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

func toIntegrityResponse(r *ports.IntegrityReport) integrityResponse {
	return integrityResponse{
		ContractID:     r.ContractID,
		IsValid:        r.IsValid,
		StoredDigest:   r.StoredDigest,
		ComputedDigest: r.ComputedDigest,
		LedgerDigest:   r.LedgerDigest,
		ContentIntact:  r.ContentIntact,
		LedgerMatch:    r.LedgerMatch,
		VerifiedAt:     r.VerifiedAt.UTC(),
	}
}
