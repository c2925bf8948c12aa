package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"
	"github.com/ronnysenna/envio-massa-sub000/internal/webhook"

	"github.com/google/uuid"
)

// ErrNoRecipients means the recipient selection resolved to zero contacts
var ErrNoRecipients = errors.New("campaign has no recipients")

// DispatchRequest describes one campaign send: the message, an optional
// image, and the recipient selection by explicit contacts and/or groups.
type DispatchRequest struct {
	Message    string
	ImageID    *uuid.UUID
	ContactIDs []uuid.UUID
	GroupIDs   []uuid.UUID
}

// DispatchResult is the outcome of a campaign send
type DispatchResult struct {
	Campaign   *repository.Campaign
	Recipients []repository.CampaignRecipient
}

// CampaignService resolves recipient selections and drives sequential
// delivery through the outbound webhook, with per-recipient failure
// accounting: one failed delivery never aborts the rest of the batch.
type CampaignService struct {
	campaigns  *repository.CampaignRepository
	contacts   *repository.ContactRepository
	groups     *repository.GroupRepository
	images     *repository.ImageRepository
	sender     webhook.Sender
	publicPath string
}

func NewCampaignService(
	campaigns *repository.CampaignRepository,
	contacts *repository.ContactRepository,
	groups *repository.GroupRepository,
	images *repository.ImageRepository,
	sender webhook.Sender,
	publicPath string,
) *CampaignService {
	return &CampaignService{
		campaigns:  campaigns,
		contacts:   contacts,
		groups:     groups,
		images:     images,
		sender:     sender,
		publicPath: publicPath,
	}
}

// Dispatch persists the campaign, sends the message to every resolved
// recipient in order, and records per-recipient results plus aggregate
// counts.
func (s *CampaignService) Dispatch(ctx context.Context, ownerID uuid.UUID, req DispatchRequest) (*DispatchResult, error) {
	recipients, err := s.resolveRecipients(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	var imageURL string
	if req.ImageID != nil {
		image, err := s.images.GetByID(ctx, *req.ImageID, ownerID)
		if err != nil {
			return nil, err
		}
		imageURL = strings.TrimSuffix(s.publicPath, "/") + "/" + image.StoredName
	}

	campaign, err := s.campaigns.Create(ctx, ownerID, req.Message, req.ImageID)
	if err != nil {
		return nil, err
	}

	var sent, failed int32
	results := make([]repository.CampaignRecipient, 0, len(recipients))

	for _, contact := range recipients {
		rec := repository.CampaignRecipient{
			CampaignID: campaign.ID,
			ContactID:  contact.ID,
			Nome:       contact.Nome,
			Telefone:   contact.Telefone,
			Status:     repository.RecipientStatusSent,
		}

		err := s.sender.Send(ctx, webhook.Message{
			Nome:     contact.Nome,
			Telefone: contact.Telefone,
			Mensagem: req.Message,
			ImageURL: imageURL,
		})
		if err != nil {
			failed++
			message := err.Error()
			rec.Status = repository.RecipientStatusFailed
			rec.Error = &message
			logger.Warn().
				Err(err).
				Str("campaign_id", campaign.ID.String()).
				Str("telefone", contact.Telefone).
				Msg("delivery failed")
		} else {
			sent++
		}

		if err := s.campaigns.AddRecipient(ctx, rec); err != nil {
			logger.Error().
				Err(err).
				Str("campaign_id", campaign.ID.String()).
				Msg("failed to record delivery result")
		}
		results = append(results, rec)
	}

	finished, err := s.campaigns.Finish(ctx, campaign.ID, sent, failed)
	if err != nil {
		return nil, err
	}

	return &DispatchResult{Campaign: finished, Recipients: results}, nil
}

// Get retrieves one campaign with its delivery results
func (s *CampaignService) Get(ctx context.Context, id, ownerID uuid.UUID) (*DispatchResult, error) {
	campaign, err := s.campaigns.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	recipients, err := s.campaigns.ListRecipients(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	return &DispatchResult{Campaign: campaign, Recipients: recipients}, nil
}

// List retrieves the user's campaigns, newest first
func (s *CampaignService) List(ctx context.Context, ownerID uuid.UUID) ([]repository.Campaign, error) {
	return s.campaigns.ListByOwner(ctx, ownerID)
}

// resolveRecipients merges explicit contacts with group members, deduped by
// phone key in selection order.
func (s *CampaignService) resolveRecipients(ctx context.Context, ownerID uuid.UUID, req DispatchRequest) ([]repository.Contact, error) {
	var recipients []repository.Contact
	seen := make(map[string]struct{})

	appendContact := func(contact repository.Contact) {
		if _, ok := seen[contact.Telefone]; ok {
			return
		}
		seen[contact.Telefone] = struct{}{}
		recipients = append(recipients, contact)
	}

	if len(req.ContactIDs) > 0 {
		contacts, err := s.contacts.ListByIDs(ctx, ownerID, req.ContactIDs)
		if err != nil {
			return nil, err
		}
		for _, contact := range contacts {
			appendContact(contact)
		}
	}

	for _, groupID := range req.GroupIDs {
		// Ownership check before reading members
		if _, err := s.groups.GetByID(ctx, groupID, ownerID); err != nil {
			return nil, err
		}
		members, err := s.groups.ListMembers(ctx, groupID)
		if err != nil {
			return nil, err
		}
		for _, contact := range members {
			appendContact(contact)
		}
	}

	return recipients, nil
}
