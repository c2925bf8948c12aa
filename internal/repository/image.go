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

// Image is the metadata row for one uploaded campaign image. The bytes live
// in file storage under StoredName.
type Image struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

type ImageRepository struct {
	database *db.Database
}

func NewImageRepository(database *db.Database) *ImageRepository {
	return &ImageRepository{database: database}
}

const imageColumns = `id, owner_id, original_name, stored_name, mime_type, size_bytes, created_at`

func scanImage(row pgx.Row) (*Image, error) {
	var (
		image Image
		id    pgtype.UUID
		owner pgtype.UUID
	)
	err := row.Scan(&id, &owner, &image.OriginalName, &image.StoredName, &image.MimeType, &image.SizeBytes, &image.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	image.ID = pgToUUID(id)
	image.OwnerID = pgToUUID(owner)
	return &image, nil
}

// Create inserts an image metadata row
func (r *ImageRepository) Create(ctx context.Context, ownerID uuid.UUID, originalName, storedName, mimeType string, sizeBytes int64) (*Image, error) {
	row := r.database.Pool.QueryRow(ctx,
		`INSERT INTO images (owner_id, original_name, stored_name, mime_type, size_bytes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+imageColumns,
		uuidToPg(ownerID), originalName, storedName, mimeType, sizeBytes,
	)
	return scanImage(row)
}

// GetByID retrieves an image owned by the given user
func (r *ImageRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Image, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = $1 AND owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID),
	)
	return scanImage(row)
}

// ListByOwner retrieves all images owned by the user, newest first
func (r *ImageRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Image, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT `+imageColumns+` FROM images WHERE owner_id = $1 ORDER BY created_at DESC, id`,
		uuidToPg(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}
	return images, rows.Err()
}

// Delete removes an image metadata row owned by the user
func (r *ImageRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.database.Pool.Exec(ctx,
		`DELETE FROM images WHERE id = $1 AND owner_id = $2`,
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
