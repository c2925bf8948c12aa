package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	sessionTTL time.Duration
	validator  *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *repository.UserRepository, sessions *repository.SessionRepository, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		validator:  validator.New(),
	}
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Nome     string `json:"nome" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the credential payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries the issued token and its expiry
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.SendInternalError(c, "Failed to create account")
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Nome, req.Email, hash)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			api.SendConflict(c, "Email already registered")
			return
		}
		api.SendInternalError(c, "Failed to create account")
		return
	}

	api.SendSuccess(c, http.StatusCreated, UserInfo{
		ID:    user.ID.String(),
		Nome:  user.Nome,
		Email: user.Email,
	}, nil)
}

// Login verifies credentials and issues a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendUnauthorized(c, "Invalid email or password")
			return
		}
		api.SendInternalError(c, "Failed to log in")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		api.SendUnauthorized(c, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		api.SendInternalError(c, "Failed to issue session")
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), token, user.ID, time.Now().Add(h.sessionTTL))
	if err != nil {
		api.SendInternalError(c, "Failed to issue session")
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	api.SendSuccess(c, http.StatusOK, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: UserInfo{
			ID:    user.ID.String(),
			Nome:  user.Nome,
			Email: user.Email,
		},
	}, nil)
}

// Logout invalidates the presented session token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		api.SendUnauthorized(c, "No session to log out")
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
		api.SendInternalError(c, "Failed to log out")
		return
	}

	c.Status(http.StatusNoContent)
}
