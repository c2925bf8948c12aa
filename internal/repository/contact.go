package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Contact represents one addressable recipient. Telefone is the digits-only
// canonical phone key and is globally unique across all contacts regardless
// of owner.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Telefone  string    `json:"telefone"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListContactsParams represents parameters for listing a user's contacts
type ListContactsParams struct {
	OwnerID uuid.UUID
	Search  string
	Limit   int32
	Offset  int32
}

type ContactRepository struct {
	database *db.Database
}

func NewContactRepository(database *db.Database) *ContactRepository {
	return &ContactRepository{database: database}
}

const contactColumns = `id, nome, telefone, owner_id, created_at, updated_at`

func scanContact(row pgx.Row) (*Contact, error) {
	var (
		contact Contact
		id      pgtype.UUID
		owner   pgtype.UUID
	)
	err := row.Scan(&id, &contact.Nome, &contact.Telefone, &owner, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	contact.ID = pgToUUID(id)
	contact.OwnerID = pgToUUID(owner)
	return &contact, nil
}

// FindByPhone retrieves a contact by its canonical phone key. The lookup is
// global: it ignores ownership on purpose, because the phone key uniquely
// identifies a contact across all users.
func (r *ContactRepository) FindByPhone(ctx context.Context, telefone string) (*Contact, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE telefone = $1`,
		telefone,
	)
	return scanContact(row)
}

// GetByID retrieves a contact owned by the given user
func (r *ContactRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Contact, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID),
	)
	return scanContact(row)
}

// Create inserts a new contact. The telefone column carries a unique index;
// a duplicate key surfaces as a unique violation from Postgres.
func (r *ContactRepository) Create(ctx context.Context, nome, telefone string, ownerID uuid.UUID) (*Contact, error) {
	row := r.database.Pool.QueryRow(ctx,
		`INSERT INTO contacts (nome, telefone, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+contactColumns,
		nome, telefone, uuidToPg(ownerID),
	)
	contact, err := scanContact(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, db.ErrConflict
		}
		return nil, err
	}
	return contact, nil
}

// Update rewrites a contact's name and reassigns its owner. Used by the
// reconciliation engine, which may transfer a contact between users.
func (r *ContactRepository) Update(ctx context.Context, id uuid.UUID, nome string, ownerID uuid.UUID) (*Contact, error) {
	row := r.database.Pool.QueryRow(ctx,
		`UPDATE contacts
		 SET nome = $2, owner_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+contactColumns,
		uuidToPg(id), nome, uuidToPg(ownerID),
	)
	return scanContact(row)
}

// UpdateDetails updates name and phone of a contact owned by the given user
func (r *ContactRepository) UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, nome, telefone string) (*Contact, error) {
	row := r.database.Pool.QueryRow(ctx,
		`UPDATE contacts
		 SET nome = $3, telefone = $4, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+contactColumns,
		uuidToPg(id), uuidToPg(ownerID), nome, telefone,
	)
	contact, err := scanContact(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, db.ErrConflict
		}
		return nil, err
	}
	return contact, nil
}

// ListByOwner retrieves a paginated list of a user's contacts, optionally
// filtered by a name/phone search term
func (r *ContactRepository) ListByOwner(ctx context.Context, params ListContactsParams) ([]Contact, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT `+contactColumns+`
		 FROM contacts
		 WHERE owner_id = $1
		   AND ($2 = '' OR nome ILIKE '%' || $2 || '%' OR telefone LIKE '%' || $2 || '%')
		 ORDER BY nome, id
		 LIMIT $3 OFFSET $4`,
		uuidToPg(params.OwnerID), params.Search, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// CountByOwner returns the number of contacts matching ListByOwner filters
func (r *ContactRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, search string) (int64, error) {
	var total int64
	err := r.database.Pool.QueryRow(ctx,
		`SELECT count(*)
		 FROM contacts
		 WHERE owner_id = $1
		   AND ($2 = '' OR nome ILIKE '%' || $2 || '%' OR telefone LIKE '%' || $2 || '%')`,
		uuidToPg(ownerID), search,
	).Scan(&total)
	return total, err
}

// ListByIDs retrieves the subset of the given contacts owned by the user
func (r *ContactRepository) ListByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]Contact, error) {
	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = uuidToPg(id)
	}

	rows, err := r.database.Pool.Query(ctx,
		`SELECT `+contactColumns+`
		 FROM contacts
		 WHERE owner_id = $1 AND id = ANY($2)
		 ORDER BY nome, id`,
		uuidToPg(ownerID), pgIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// Delete removes a contact owned by the given user
func (r *ContactRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.database.Pool.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
