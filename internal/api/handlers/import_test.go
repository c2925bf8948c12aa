package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/importer"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubImporter records calls and replays canned summaries
type stubImporter struct {
	fileSummary   importer.ImportSummary
	fileErr       error
	recordSummary importer.ImportSummary
	gotFilename   string
	gotRows       []importer.ImportRow
	gotOwner      uuid.UUID
	calls         int
}

func (s *stubImporter) ImportFile(_ context.Context, filename string, r io.Reader, ownerID uuid.UUID) (importer.ImportSummary, error) {
	s.calls++
	s.gotFilename = filename
	s.gotOwner = ownerID
	_, _ = io.ReadAll(r)
	return s.fileSummary, s.fileErr
}

func (s *stubImporter) ImportRecords(_ context.Context, rows []importer.ImportRow, ownerID uuid.UUID) importer.ImportSummary {
	s.calls++
	s.gotRows = rows
	s.gotOwner = ownerID
	return s.recordSummary
}

// stubSessions validates a single known token
type stubSessions struct {
	token  string
	userID uuid.UUID
}

func (s *stubSessions) GetByToken(_ context.Context, token string) (*repository.Session, error) {
	if token != s.token {
		return nil, db.ErrNotFound
	}
	return &repository.Session{
		Token:     token,
		UserID:    s.userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func setupImportRouter(t *testing.T, imp *stubImporter) (*gin.Engine, *stubSessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := &stubSessions{token: "valid-token", userID: uuid.New()}
	handler := NewImportHandler(imp)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(auth.SessionMiddleware(sessions))
	v1.POST("/contacts/import", handler.ImportByRecords)
	v1.POST("/contacts/import/file", handler.ImportByFile)
	return router, sessions
}

func multipartFile(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestImportByRecords_RequiresAuthentication(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	body := `{"contacts":[{"nome":"Ana","telefone":"111"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, imp.calls, "no import work before authentication")
}

func TestImportByRecords_RejectsInvalidToken(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	body := `{"contacts":[{"nome":"Ana","telefone":"111"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, imp.calls)
}

func TestImportByRecords_RejectsEmptyArray(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	for _, body := range []string{`{"contacts":[]}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Equal(t, 0, imp.calls)
}

func TestImportByRecords_RejectsNonArrayPayload(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(`{"contacts":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, imp.calls)
}

func TestImportByRecords_FiltersIncompleteRows(t *testing.T) {
	imp := &stubImporter{
		recordSummary: importer.ImportSummary{Inserted: 2, Failures: []importer.ImportFailure{}},
	}
	router, sessions := setupImportRouter(t, imp)

	body := `{"contacts":[
		{"nome":"Ana","telefone":"111"},
		{"nome":"","telefone":"222"},
		{"nome":"Caio","telefone":"  "},
		{"nome":"  Davi ","telefone":" 444 "}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessions.userID, imp.gotOwner)
	assert.Equal(t, []importer.ImportRow{
		{Nome: "Ana", TelefoneRaw: "111"},
		{Nome: "Davi", TelefoneRaw: "444"},
	}, imp.gotRows)
}

func TestImportByRecords_ReturnsSummary(t *testing.T) {
	imp := &stubImporter{
		recordSummary: importer.ImportSummary{
			Inserted: 1,
			Updated:  2,
			Failed:   1,
			Failures: []importer.ImportFailure{{Telefone: "999", Error: "boom"}},
			Sample:   []importer.ImportRow{{Nome: "Ana", TelefoneRaw: "111"}},
		},
	}
	router, _ := setupImportRouter(t, imp)

	body := `{"contacts":[{"nome":"Ana","telefone":"111"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                  `json:"success"`
		Data    ImportSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.Data.Inserted)
	assert.Equal(t, 2, envelope.Data.Updated)
	assert.Equal(t, 1, envelope.Data.Failed)
	require.Len(t, envelope.Data.Failures, 1)
	assert.Equal(t, "999", envelope.Data.Failures[0].Telefone)
	require.Len(t, envelope.Data.Sample, 1)
	assert.Equal(t, "111", envelope.Data.Sample[0].TelefoneRaw)
}

func TestImportByFile_RequiresAuthentication(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	buf, contentType := multipartFile(t, "file", "contacts.csv", "nome,telefone\nAna,111\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import/file", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, imp.calls)
}

func TestImportByFile_RequiresFileField(t *testing.T) {
	imp := &stubImporter{}
	router, _ := setupImportRouter(t, imp)

	buf, contentType := multipartFile(t, "wrong_field", "contacts.csv", "nome,telefone\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import/file", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, imp.calls)
}

func TestImportByFile_ParseErrorIs400(t *testing.T) {
	imp := &stubImporter{fileErr: importer.ErrEmptyFile}
	router, _ := setupImportRouter(t, imp)

	buf, contentType := multipartFile(t, "file", "contacts.csv", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import/file", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportByFile_ReturnsSummary(t *testing.T) {
	imp := &stubImporter{
		fileSummary: importer.ImportSummary{
			Inserted: 3,
			Failures: []importer.ImportFailure{},
			Sample:   []importer.ImportRow{{Nome: "Ana", TelefoneRaw: "111"}},
		},
	}
	router, sessions := setupImportRouter(t, imp)

	buf, contentType := multipartFile(t, "file", "contacts.csv", "nome,telefone\nAna,111\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import/file", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "contacts.csv", imp.gotFilename)
	assert.Equal(t, sessions.userID, imp.gotOwner)

	var envelope struct {
		Success bool                  `json:"success"`
		Data    ImportSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 3, envelope.Data.Inserted)
}

func TestImportByFile_SessionCookieIsAccepted(t *testing.T) {
	imp := &stubImporter{recordSummary: importer.ImportSummary{Inserted: 1}}
	router, _ := setupImportRouter(t, imp)

	body := `{"contacts":[{"nome":"Ana","telefone":"111"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
