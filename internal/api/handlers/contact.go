package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"
	"github.com/ronnysenna/envio-massa-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactHandler handles contact CRUD requests
type ContactHandler struct {
	contactService *service.ContactService
	validator      *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validator:      validator.New(),
	}
}

// ContactRequest is the create/update payload
type ContactRequest struct {
	Nome     string `json:"nome" validate:"required,min=1,max=255"`
	Telefone string `json:"telefone" validate:"required,min=1,max=32"`
}

// Create adds a contact. A phone that already identifies a contact merges
// into the existing record instead of failing.
func (h *ContactHandler) Create(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), ownerID, req.Nome, req.Telefone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			api.SendValidationError(c, "Invalid telefone", err.Error())
		case errors.Is(err, service.ErrPhoneOwnedByOther):
			api.SendConflict(c, err.Error())
		default:
			api.SendInternalError(c, "Failed to create contact")
		}
		return
	}

	api.SendSuccess(c, http.StatusCreated, contact, nil)
}

// Get retrieves one contact
func (h *ContactHandler) Get(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid contact ID", "ID must be a valid UUID")
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to get contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, contact, nil)
}

// List retrieves a page of the user's contacts with optional search
func (h *ContactHandler) List(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	params := repository.ListContactsParams{
		OwnerID: ownerID,
		Search:  c.Query("search"),
		Limit:   int32(limit),
		Offset:  int32((page - 1) * limit),
	}

	contacts, total, err := h.contactService.List(c.Request.Context(), params)
	if err != nil {
		api.SendInternalError(c, "Failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []repository.Contact{}
	}

	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}

	api.SendSuccess(c, http.StatusOK, contacts, &api.Meta{
		Pagination: &api.PaginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// Update edits a contact's name and phone
func (h *ContactHandler) Update(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid contact ID", "ID must be a valid UUID")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), id, ownerID, req.Nome, req.Telefone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			api.SendValidationError(c, "Invalid telefone", err.Error())
		case errors.Is(err, db.ErrNotFound):
			api.SendNotFound(c, "Contact")
		case errors.Is(err, db.ErrConflict):
			api.SendConflict(c, "Telefone already belongs to another contact")
		default:
			api.SendInternalError(c, "Failed to update contact")
		}
		return
	}

	api.SendSuccess(c, http.StatusOK, contact, nil)
}

// Delete removes a contact
func (h *ContactHandler) Delete(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid contact ID", "ID must be a valid UUID")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to delete contact")
		return
	}

	c.Status(http.StatusNoContent)
}
