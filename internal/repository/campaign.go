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

// Campaign statuses
const (
	CampaignStatusPending  = "pending"
	CampaignStatusFinished = "finished"
)

// Recipient delivery statuses
const (
	RecipientStatusSent   = "sent"
	RecipientStatusFailed = "failed"
)

// Campaign is one bulk-send run: a message, an optional image, and the
// aggregate delivery counts.
type Campaign struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Message   string     `json:"message"`
	ImageID   *uuid.UUID `json:"image_id,omitempty"`
	Status    string     `json:"status"`
	Sent      int32      `json:"sent"`
	Failed    int32      `json:"failed"`
	CreatedAt time.Time  `json:"created_at"`
}

// CampaignRecipient is the per-contact delivery result of a campaign. The
// contact's name and phone are snapshotted at dispatch time.
type CampaignRecipient struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	ContactID  uuid.UUID `json:"contact_id"`
	Nome       string    `json:"nome"`
	Telefone   string    `json:"telefone"`
	Status     string    `json:"status"`
	Error      *string   `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

type CampaignRepository struct {
	database *db.Database
}

func NewCampaignRepository(database *db.Database) *CampaignRepository {
	return &CampaignRepository{database: database}
}

const campaignColumns = `id, owner_id, message, image_id, status, sent, failed, created_at`

func scanCampaign(row pgx.Row) (*Campaign, error) {
	var (
		campaign Campaign
		id       pgtype.UUID
		owner    pgtype.UUID
		imageID  pgtype.UUID
	)
	err := row.Scan(&id, &owner, &campaign.Message, &imageID, &campaign.Status, &campaign.Sent, &campaign.Failed, &campaign.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	campaign.ID = pgToUUID(id)
	campaign.OwnerID = pgToUUID(owner)
	campaign.ImageID = pgToUUIDPtr(imageID)
	return &campaign, nil
}

// Create inserts a pending campaign row before dispatch starts
func (r *CampaignRepository) Create(ctx context.Context, ownerID uuid.UUID, message string, imageID *uuid.UUID) (*Campaign, error) {
	row := r.database.Pool.QueryRow(ctx,
		`INSERT INTO campaigns (owner_id, message, image_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+campaignColumns,
		uuidToPg(ownerID), message, uuidPtrToPg(imageID), CampaignStatusPending,
	)
	return scanCampaign(row)
}

// Finish records the final delivery counts once dispatch completed
func (r *CampaignRepository) Finish(ctx context.Context, id uuid.UUID, sent, failed int32) (*Campaign, error) {
	row := r.database.Pool.QueryRow(ctx,
		`UPDATE campaigns
		 SET status = $2, sent = $3, failed = $4
		 WHERE id = $1
		 RETURNING `+campaignColumns,
		uuidToPg(id), CampaignStatusFinished, sent, failed,
	)
	return scanCampaign(row)
}

// GetByID retrieves a campaign owned by the given user
func (r *CampaignRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Campaign, error) {
	row := r.database.Pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 AND owner_id = $2`,
		uuidToPg(id), uuidToPg(ownerID),
	)
	return scanCampaign(row)
}

// ListByOwner retrieves the user's campaigns, newest first
func (r *CampaignRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Campaign, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE owner_id = $1 ORDER BY created_at DESC, id`,
		uuidToPg(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, rows.Err()
}

// AddRecipient records one per-contact delivery result
func (r *CampaignRepository) AddRecipient(ctx context.Context, rec CampaignRecipient) error {
	_, err := r.database.Pool.Exec(ctx,
		`INSERT INTO campaign_recipients (campaign_id, contact_id, nome, telefone, status, error)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuidToPg(rec.CampaignID), uuidToPg(rec.ContactID), rec.Nome, rec.Telefone, rec.Status, stringPtrToPg(rec.Error),
	)
	return err
}

// ListRecipients retrieves the delivery results of a campaign
func (r *CampaignRepository) ListRecipients(ctx context.Context, campaignID uuid.UUID) ([]CampaignRecipient, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT campaign_id, contact_id, nome, telefone, status, error, sent_at
		 FROM campaign_recipients
		 WHERE campaign_id = $1
		 ORDER BY sent_at, contact_id`,
		uuidToPg(campaignID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []CampaignRecipient
	for rows.Next() {
		var (
			rec        CampaignRecipient
			campaign   pgtype.UUID
			contact    pgtype.UUID
			errMessage pgtype.Text
		)
		if err := rows.Scan(&campaign, &contact, &rec.Nome, &rec.Telefone, &rec.Status, &errMessage, &rec.SentAt); err != nil {
			return nil, err
		}
		rec.CampaignID = pgToUUID(campaign)
		rec.ContactID = pgToUUID(contact)
		rec.Error = pgToStringPtr(errMessage)
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}
