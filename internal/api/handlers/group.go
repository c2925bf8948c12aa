package handlers

import (
	"errors"
	"net/http"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GroupHandler handles group CRUD and membership requests
type GroupHandler struct {
	groups    *repository.GroupRepository
	contacts  *repository.ContactRepository
	validator *validator.Validate
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups *repository.GroupRepository, contacts *repository.ContactRepository) *GroupHandler {
	return &GroupHandler{
		groups:    groups,
		contacts:  contacts,
		validator: validator.New(),
	}
}

// GroupRequest is the create/rename payload
type GroupRequest struct {
	Nome string `json:"nome" validate:"required,min=1,max=255"`
}

// GroupMemberRequest identifies a contact to link into a group
type GroupMemberRequest struct {
	ContactID string `json:"contact_id" validate:"required,uuid"`
}

// Create adds a group
func (h *GroupHandler) Create(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	group, err := h.groups.Create(c.Request.Context(), req.Nome, ownerID)
	if err != nil {
		api.SendInternalError(c, "Failed to create group")
		return
	}

	api.SendSuccess(c, http.StatusCreated, group, nil)
}

// List retrieves the user's groups
func (h *GroupHandler) List(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	groups, err := h.groups.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		api.SendInternalError(c, "Failed to list groups")
		return
	}
	if groups == nil {
		groups = []repository.Group{}
	}

	api.SendSuccess(c, http.StatusOK, groups, nil)
}

// Get retrieves one group
func (h *GroupHandler) Get(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}

	group, err := h.groups.GetByID(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to get group")
		return
	}

	api.SendSuccess(c, http.StatusOK, group, nil)
}

// Rename updates the group name
func (h *GroupHandler) Rename(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	group, err := h.groups.Rename(c.Request.Context(), id, ownerID, req.Nome)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to rename group")
		return
	}

	api.SendSuccess(c, http.StatusOK, group, nil)
}

// Delete removes a group and its membership links
func (h *GroupHandler) Delete(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}

	if err := h.groups.Delete(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to delete group")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMember links one of the user's contacts into the group
func (h *GroupHandler) AddMember(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}

	var req GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		api.SendValidationError(c, "Invalid contact ID", "contact_id must be a valid UUID")
		return
	}

	// Both sides must belong to the caller
	if _, err := h.groups.GetByID(c.Request.Context(), groupID, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to add member")
		return
	}
	if _, err := h.contacts.GetByID(c.Request.Context(), contactID, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to add member")
		return
	}

	if err := h.groups.AddContact(c.Request.Context(), groupID, contactID); err != nil {
		api.SendInternalError(c, "Failed to add member")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember unlinks a contact from the group
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		api.SendValidationError(c, "Invalid contact ID", "ID must be a valid UUID")
		return
	}

	if _, err := h.groups.GetByID(c.Request.Context(), groupID, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to remove member")
		return
	}

	if err := h.groups.RemoveContact(c.Request.Context(), groupID, contactID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Membership")
			return
		}
		api.SendInternalError(c, "Failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers retrieves the contacts in a group
func (h *GroupHandler) ListMembers(c *gin.Context) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		api.SendUnauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendValidationError(c, "Invalid group ID", "ID must be a valid UUID")
		return
	}

	if _, err := h.groups.GetByID(c.Request.Context(), groupID, ownerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Group")
			return
		}
		api.SendInternalError(c, "Failed to list members")
		return
	}

	members, err := h.groups.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		api.SendInternalError(c, "Failed to list members")
		return
	}
	if members == nil {
		members = []repository.Contact{}
	}

	api.SendSuccess(c, http.StatusOK, members, nil)
}
