package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autostock/dealership-api/internal/core/ports"
)

// ContractHandler handles HTTP requests for sale contract documents.
type ContractHandler struct {
	service        ports.ContractService
	maxUploadBytes int64
}

func NewContractHandler(service ports.ContractService, maxUploadBytes int64) *ContractHandler {
	return &ContractHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /v1/contracts.
//
// @Summary      Upload a signed contract
// @Tags         contracts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file            formData  file    true  "Contract document"
// @Param        transaction_id  formData  string  true  "Sale transaction the contract belongs to"
// @Success      201             {object}  contractResponse
// @Failure      400             {object}  errorResponse
// @Failure      401             {object}  errorResponse
// @Failure      409             {object}  errorResponse
// @Failure      413             {object}  errorResponse
// @Failure      503             {object}  errorResponse
// @Router       /v1/contracts [post]
func (h *ContractHandler) Upload(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds upload limit")
	}

	transactionID := strings.TrimSpace(c.FormValue("transaction_id"))
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_id is required")
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file").SetInternal(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file").SetInternal(err)
	}

	created, err := h.service.RegisterDocument(req.Context(), ports.UploadContractInput{
		TransactionID: transactionID,
		FileName:      fh.Filename,
		MimeType:      fh.Header.Get(echo.HeaderContentType),
		Content:       content,
		UploadedBy:    claims.AccountID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toContractResponse(created))
}

// List handles GET /v1/contracts.
//
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        transaction_id  query     string  false  "Filter by sale transaction"
// @Param        page            query     int     false  "Page number (1-based)"
// @Param        limit           query     int     false  "Page size (max 100)"
// @Success      200             {object}  listContractsResponse
// @Failure      400             {object}  errorResponse
// @Failure      401             {object}  errorResponse
// @Router       /v1/contracts [get]
func (h *ContractHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.ListContracts(c.Request().Context(), ports.ListContractsInput{
		TransactionID: c.QueryParam("transaction_id"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /v1/contracts/:id.
//
// @Summary      Get contract metadata
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contract ID"
// @Success      200  {object}  contractResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contracts/{id} [get]
func (h *ContractHandler) Get(c echo.Context) error {
	contract, err := h.service.GetContract(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContractResponse(contract))
}

// Download handles GET /v1/contracts/:id/file.
//
// @Summary      Download the stored contract file
// @Tags         contracts
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path      string  true  "Contract ID"
// @Success      200  {file}    binary
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contracts/{id}/file [get]
func (h *ContractHandler) Download(c echo.Context) error {
	file, err := h.service.FetchFile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	name := file.FileName
	if name == "" {
		name = c.Param("id")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	return c.Blob(http.StatusOK, contentType, file.Content)
}

// Verify handles GET /v1/contracts/:id/verify.
//
// @Summary      Verify contract integrity
// @Description  Recomputes the digest of the stored bytes and compares it with the digest saved at upload and the ledger entry.
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contract ID"
// @Success      200  {object}  integrityResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/contracts/{id}/verify [get]
func (h *ContractHandler) Verify(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	report, err := h.service.VerifyIntegrity(c.Request().Context(), c.Param("id"), claims.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIntegrityResponse(report))
}

// Delete handles DELETE /v1/contracts/:id.
//
// @Summary      Delete a contract
// @Tags         contracts
// @Security     BearerAuth
// @Param        id   path  string  true  "Contract ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contracts/{id} [delete]
func (h *ContractHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteContract(c.Request().Context(), c.Param("id"), claims.AccountID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}
