package service

import (
	"context"
	"fmt"
	"io"

	"github.com/ronnysenna/envio-massa-sub000/internal/importer"
	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/google/uuid"
)

// ImportService orchestrates bulk contact imports: it drives the tabular
// parser, field mapper and reconciliation engine in sequence and returns
// the per-batch summary.
type ImportService struct {
	engine *importer.Engine
}

// NewImportService wires the reconciliation engine to the contact
// repository under the configured conflict policy.
func NewImportService(contacts *repository.ContactRepository, policy importer.ConflictPolicy) *ImportService {
	return &ImportService{
		engine: importer.NewEngine(contactStoreAdapter{repo: contacts}, policy),
	}
}

// ImportFile parses an uploaded CSV or spreadsheet file and reconciles the
// resulting rows. A parse failure fails the whole call before any
// persistence happens; row-level persistence failures are accounted in the
// summary instead.
func (s *ImportService) ImportFile(ctx context.Context, filename string, r io.Reader, ownerID uuid.UUID) (importer.ImportSummary, error) {
	rawRows, err := importer.ParseFile(filename, r)
	if err != nil {
		return importer.ImportSummary{}, fmt.Errorf("failed to parse %q: %w", filename, err)
	}

	rows := importer.MapRows(rawRows)
	logger.Info().
		Str("filename", filename).
		Int("parsed", len(rawRows)).
		Int("mapped", len(rows)).
		Msg("importing contacts from file")

	return s.engine.Reconcile(ctx, rows, ownerID), nil
}

// ImportRecords reconciles a client-parsed list of contacts
func (s *ImportService) ImportRecords(ctx context.Context, rows []importer.ImportRow, ownerID uuid.UUID) importer.ImportSummary {
	return s.engine.Reconcile(ctx, rows, ownerID)
}

// contactStoreAdapter narrows ContactRepository to the engine's store
// interface, translating between the repository and engine contact views.
type contactStoreAdapter struct {
	repo *repository.ContactRepository
}

func (a contactStoreAdapter) FindByPhone(ctx context.Context, telefone string) (*importer.Contact, error) {
	contact, err := a.repo.FindByPhone(ctx, telefone)
	if err != nil {
		return nil, err
	}
	return toEngineContact(contact), nil
}

func (a contactStoreAdapter) Create(ctx context.Context, nome, telefone string, ownerID uuid.UUID) (*importer.Contact, error) {
	contact, err := a.repo.Create(ctx, nome, telefone, ownerID)
	if err != nil {
		return nil, err
	}
	return toEngineContact(contact), nil
}

func (a contactStoreAdapter) Update(ctx context.Context, id uuid.UUID, nome string, ownerID uuid.UUID) (*importer.Contact, error) {
	contact, err := a.repo.Update(ctx, id, nome, ownerID)
	if err != nil {
		return nil, err
	}
	return toEngineContact(contact), nil
}

func toEngineContact(contact *repository.Contact) *importer.Contact {
	return &importer.Contact{
		ID:       contact.ID,
		Nome:     contact.Nome,
		Telefone: contact.Telefone,
		OwnerID:  contact.OwnerID,
	}
}
