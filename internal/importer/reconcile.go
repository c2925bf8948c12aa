package importer

import (
	"context"
	"errors"

	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/logger"

	"github.com/google/uuid"
)

// Contact is the store-level view of a contact as seen by the
// reconciliation engine.
type Contact struct {
	ID       uuid.UUID
	Nome     string
	Telefone string
	OwnerID  uuid.UUID
}

// ContactStore is the persistence surface the engine depends on. FindByPhone
// is a global lookup, independent of owner, and returns db.ErrNotFound when
// no contact carries the key.
type ContactStore interface {
	FindByPhone(ctx context.Context, telefone string) (*Contact, error)
	Create(ctx context.Context, nome, telefone string, ownerID uuid.UUID) (*Contact, error)
	Update(ctx context.Context, id uuid.UUID, nome string, ownerID uuid.UUID) (*Contact, error)
}

// ConflictPolicy controls what happens when an imported phone key already
// belongs to a contact owned by another user.
type ConflictPolicy string

const (
	// PolicyReassign updates the contact and transfers it to the importing
	// user. This is the historical behavior.
	PolicyReassign ConflictPolicy = "reassign"
	// PolicyReject counts the row as failed instead of transferring
	// ownership.
	PolicyReject ConflictPolicy = "reject"
)

// ImportFailure records one row that could not be persisted.
type ImportFailure struct {
	Telefone string `json:"telefone"`
	Error    string `json:"error"`
}

// ImportSummary is the per-batch result returned to the caller. Sample
// echoes the first rows of the original pre-normalization input for
// user-facing confirmation.
type ImportSummary struct {
	Inserted int             `json:"inserted"`
	Updated  int             `json:"updated"`
	Failed   int             `json:"failed"`
	Failures []ImportFailure `json:"failures"`
	Sample   []ImportRow     `json:"sample"`
}

// SampleSize is how many input rows are echoed back in the summary.
const SampleSize = 5

// Engine merges batches of candidate contacts into the store.
type Engine struct {
	store  ContactStore
	policy ConflictPolicy
}

// NewEngine creates a reconciliation engine. An unrecognized policy falls
// back to PolicyReassign.
func NewEngine(store ContactStore, policy ConflictPolicy) *Engine {
	if policy != PolicyReject {
		policy = PolicyReassign
	}
	return &Engine{store: store, policy: policy}
}

// Reconcile applies the batch sequentially in input order, one lookup and
// one write per row. Rows whose phone normalizes to the empty string are
// skipped silently. A row-level store error is counted and recorded but
// never aborts the batch. Two rows carrying the same phone key resolve
// last-write-wins because each row performs an independent
// lookup-then-write.
func (e *Engine) Reconcile(ctx context.Context, rows []ImportRow, ownerID uuid.UUID) ImportSummary {
	summary := ImportSummary{
		Failures: []ImportFailure{},
		Sample:   sampleRows(rows),
	}

	for _, row := range rows {
		telefone := NormalizePhone(row.TelefoneRaw)
		if telefone == "" {
			logger.Debug().
				Str("nome", row.Nome).
				Msg("skipping import row with no digits in phone")
			continue
		}

		existing, err := e.store.FindByPhone(ctx, telefone)
		switch {
		case err == nil:
			if e.policy == PolicyReject && existing.OwnerID != ownerID {
				summary.Failed++
				summary.Failures = append(summary.Failures, ImportFailure{
					Telefone: telefone,
					Error:    "telefone already registered to another user",
				})
				continue
			}
			if _, err := e.store.Update(ctx, existing.ID, row.Nome, ownerID); err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, ImportFailure{
					Telefone: telefone,
					Error:    err.Error(),
				})
				continue
			}
			summary.Updated++

		case errors.Is(err, db.ErrNotFound):
			if _, err := e.store.Create(ctx, row.Nome, telefone, ownerID); err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, ImportFailure{
					Telefone: telefone,
					Error:    err.Error(),
				})
				continue
			}
			summary.Inserted++

		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, ImportFailure{
				Telefone: telefone,
				Error:    err.Error(),
			})
		}
	}

	return summary
}

func sampleRows(rows []ImportRow) []ImportRow {
	n := len(rows)
	if n > SampleSize {
		n = SampleSize
	}
	sample := make([]ImportRow, n)
	copy(sample, rows[:n])
	return sample
}
