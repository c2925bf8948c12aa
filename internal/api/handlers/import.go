package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/importer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactImporter is the import pipeline surface the handler depends on
type ContactImporter interface {
	ImportFile(ctx context.Context, filename string, r io.Reader, ownerID uuid.UUID) (importer.ImportSummary, error)
	ImportRecords(ctx context.Context, rows []importer.ImportRow, ownerID uuid.UUID) importer.ImportSummary
}

// ImportHandler handles bulk contact import HTTP requests
type ImportHandler struct {
	importService ContactImporter
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService ContactImporter) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportRecord is one client-parsed contact row
type ImportRecord struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

// ImportRecordsRequest is the pre-parsed import payload: the client already
// did its own CSV/XLSX parsing and submits plain rows.
type ImportRecordsRequest struct {
	Contacts []ImportRecord `json:"contacts"`
}

// ImportSummaryResponse is the per-batch result returned to the caller
type ImportSummaryResponse struct {
	Inserted int                      `json:"inserted"`
	Updated  int                      `json:"updated"`
	Failed   int                      `json:"failed"`
	Failures []importer.ImportFailure `json:"failures"`
	Sample   []importer.ImportRow     `json:"sample"`
}

func summaryToResponse(summary importer.ImportSummary) ImportSummaryResponse {
	return ImportSummaryResponse{
		Inserted: summary.Inserted,
		Updated:  summary.Updated,
		Failed:   summary.Failed,
		Failures: summary.Failures,
		Sample:   summary.Sample,
	}
}

// ImportByFile imports contacts from an uploaded CSV or spreadsheet file.
// The format is sniffed from the filename extension. A file that cannot be
// parsed fails the whole request with 400 before any contact is written.
func (h *ImportHandler) ImportByFile(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		api.SendValidationError(c, "Missing file", "A multipart field named 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		api.SendValidationError(c, "Invalid file", err.Error())
		return
	}
	defer f.Close()

	summary, err := h.importService.ImportFile(c.Request.Context(), fileHeader.Filename, f, ownerID)
	if err != nil {
		api.SendValidationError(c, "Failed to parse file", err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, summaryToResponse(summary), nil)
}

// ImportByRecords imports a client-parsed list of contacts. An empty or
// missing list is rejected with 400 before any store call.
func (h *ImportHandler) ImportByRecords(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	var req ImportRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if len(req.Contacts) == 0 {
		api.SendValidationError(c, "Empty contact list", "'contacts' must be a non-empty array")
		return
	}

	// Same gate as the file pipeline's field mapper: rows missing either
	// value never reach reconciliation.
	rows := make([]importer.ImportRow, 0, len(req.Contacts))
	for _, record := range req.Contacts {
		nome := strings.TrimSpace(record.Nome)
		telefone := strings.TrimSpace(record.Telefone)
		if nome == "" || telefone == "" {
			continue
		}
		rows = append(rows, importer.ImportRow{Nome: nome, TelefoneRaw: telefone})
	}

	summary := h.importService.ImportRecords(c.Request.Context(), rows, ownerID)
	api.SendSuccess(c, http.StatusOK, summaryToResponse(summary), nil)
}
