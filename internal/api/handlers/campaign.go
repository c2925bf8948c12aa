package handlers

import (
	"errors"
	"net/http"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"
	"github.com/ronnysenna/envio-massa-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CampaignHandler handles campaign dispatch and history requests
type CampaignHandler struct {
	campaignService *service.CampaignService
	validator       *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		validator:       validator.New(),
	}
}

// DispatchRequest selects recipients by contacts and/or groups and carries
// the message to deliver
type DispatchRequest struct {
	Message    string   `json:"message" validate:"required,min=1,max=4096"`
	ImageID    *string  `json:"image_id" validate:"omitempty,uuid"`
	ContactIDs []string `json:"contact_ids" validate:"dive,uuid"`
	GroupIDs   []string `json:"group_ids" validate:"dive,uuid"`
}

// CampaignResponse pairs a campaign with its per-recipient results
type CampaignResponse struct {
	Campaign   *repository.Campaign           `json:"campaign"`
	Recipients []repository.CampaignRecipient `json:"recipients"`
}

// Dispatch creates a campaign and delivers it synchronously. Per-recipient
// delivery failures are recorded, not fatal.
func (h *CampaignHandler) Dispatch(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}
	if len(req.ContactIDs) == 0 && len(req.GroupIDs) == 0 {
		api.SendValidationError(c, "No recipients selected", "Provide contact_ids and/or group_ids")
		return
	}

	dispatch := service.DispatchRequest{Message: req.Message}
	if req.ImageID != nil {
		imageID, err := uuid.Parse(*req.ImageID)
		if err != nil {
			api.SendValidationError(c, "Invalid image ID", "image_id must be a valid UUID")
			return
		}
		dispatch.ImageID = &imageID
	}
	for _, raw := range req.ContactIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.SendValidationError(c, "Invalid contact ID", "contact_ids must contain valid UUIDs")
			return
		}
		dispatch.ContactIDs = append(dispatch.ContactIDs, id)
	}
	for _, raw := range req.GroupIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.SendValidationError(c, "Invalid group ID", "group_ids must contain valid UUIDs")
			return
		}
		dispatch.GroupIDs = append(dispatch.GroupIDs, id)
	}

	result, err := h.campaignService.Dispatch(c.Request.Context(), ownerID, dispatch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRecipients):
			api.SendValidationError(c, "No recipients", "The selection resolved to zero contacts")
		case errors.Is(err, db.ErrNotFound):
			api.SendNotFound(c, "Recipient selection")
		default:
			api.SendInternalError(c, "Failed to dispatch campaign")
		}
		return
	}

	api.SendSuccess(c, http.StatusCreated, CampaignResponse{
		Campaign:   result.Campaign,
		Recipients: result.Recipients,
	}, nil)
}

// List retrieves the user's campaigns, newest first
func (h *CampaignHandler) List(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	campaigns, err := h.campaignService.List(c.Request.Context(), ownerID)
	if err != nil {
		api.SendInternalError(c, "Failed to list campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []repository.Campaign{}
	}

	api.SendSuccess(c, http.StatusOK, campaigns, nil)
}

// Get retrieves one campaign with its delivery results
func (h *CampaignHandler) Get(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid campaign ID", "ID must be a valid UUID")
		return
	}

	result, err := h.campaignService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Campaign")
			return
		}
		api.SendInternalError(c, "Failed to get campaign")
		return
	}

	api.SendSuccess(c, http.StatusOK, CampaignResponse{
		Campaign:   result.Campaign,
		Recipients: result.Recipients,
	}, nil)
}
