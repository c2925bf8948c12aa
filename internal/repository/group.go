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

// Group is a named set of contacts used as a campaign recipient selection
type Group struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Members   int64     `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GroupRepository struct {
	database *db.Database
}

func NewGroupRepository(database *db.Database) *GroupRepository {
	return &GroupRepository{database: database}
}

const groupSelect = `
	SELECT g.id, g.nome, g.owner_id, g.created_at, g.updated_at,
	       (SELECT count(*) FROM group_contacts gc WHERE gc.group_id = g.id) AS members
	FROM groups g`

func scanGroup(row pgx.Row) (*Group, error) {
	var (
		group Group
		id    pgtype.UUID
		owner pgtype.UUID
	)
	err := row.Scan(&id, &group.Nome, &owner, &group.CreatedAt, &group.UpdatedAt, &group.Members)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	group.ID = pgToUUID(id)
	group.OwnerID = pgToUUID(owner)
	return &group, nil
}

// Create inserts a new group for the user
func (r *GroupRepository) Create(ctx context.Context, nome string, ownerID uuid.UUID) (*Group, error) {
	var id pgtype.UUID
	err := r.database.Pool.QueryRow(ctx,
		`INSERT INTO groups (nome, owner_id) VALUES ($1, $2) RETURNING id`,
		nome, uuidToPg(ownerID),
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, pgToUUID(id), ownerID)
}

// GetByID retrieves a group owned by the given user
func (r *GroupRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Group, error) {
	row := r.database.Pool.QueryRow(ctx,
		groupSelect+` WHERE g.id = $1 AND g.owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID),
	)
	return scanGroup(row)
}

// ListByOwner retrieves all groups owned by the user
func (r *GroupRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Group, error) {
	rows, err := r.database.Pool.Query(ctx,
		groupSelect+` WHERE g.owner_id = $1 ORDER BY g.nome, g.id`,
		uuidToPg(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, rows.Err()
}

// Rename updates the group name
func (r *GroupRepository) Rename(ctx context.Context, id, ownerID uuid.UUID, nome string) (*Group, error) {
	tag, err := r.database.Pool.Exec(ctx,
		`UPDATE groups SET nome = $3, updated_at = now() WHERE id = $1 AND owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID), nome,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, db.ErrNotFound
	}
	return r.GetByID(ctx, id, ownerID)
}

// Delete removes a group owned by the user; membership rows cascade
func (r *GroupRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.database.Pool.Exec(ctx,
		`DELETE FROM groups WHERE id = $1 AND owner_id = $2`,
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

// AddContact links a contact to a group. Adding an existing member is a
// no-op rather than an error.
func (r *GroupRepository) AddContact(ctx context.Context, groupID, contactID uuid.UUID) error {
	_, err := r.database.Pool.Exec(ctx,
		`INSERT INTO group_contacts (group_id, contact_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		uuidToPg(groupID), uuidToPg(contactID),
	)
	return err
}

// RemoveContact unlinks a contact from a group
func (r *GroupRepository) RemoveContact(ctx context.Context, groupID, contactID uuid.UUID) error {
	tag, err := r.database.Pool.Exec(ctx,
		`DELETE FROM group_contacts WHERE group_id = $1 AND contact_id = $2`,
		uuidToPg(groupID), uuidToPg(contactID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ListMembers retrieves the contacts belonging to a group
func (r *GroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]Contact, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT c.id, c.nome, c.telefone, c.owner_id, c.created_at, c.updated_at
		 FROM contacts c
		 JOIN group_contacts gc ON gc.contact_id = c.id
		 WHERE gc.group_id = $1
		 ORDER BY c.nome, c.id`,
		uuidToPg(groupID),
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
