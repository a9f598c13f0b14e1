// Package handler exposes the identity service over HTTP. It shapes wire
// responses and maps domain errors to status codes; all business rules live
// in the service.
package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"identity-plane/internal/identity/domain"
	"identity-plane/internal/identity/service"
	"identity-plane/internal/server/middleware"
)

// Handler serves the identity endpoints.
type Handler struct {
	svc *service.Service
}

// New returns a Handler backed by svc.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterValidators installs the custom `username` binding rule on Gin's
// validator engine. Call once at startup before serving.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return service.ValidUsernameFormat(fl.Field().String())
		})
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Username    string `json:"username" binding:"required,username"`
	FirstName   string `json:"first_name" binding:"omitempty,max=100"`
	LastName    string `json:"last_name" binding:"omitempty,max=100"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type validateUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"omitempty,max=100"`
	LastName    string `json:"last_name" binding:"omitempty,max=100"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

type identityResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type authResponse struct {
	Identity  identityResponse `json:"identity"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Register handles POST /v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	res, err := h.svc.Register(c.Request.Context(), service.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{
		Identity:  toIdentityResponse(res.Identity),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// Login handles POST /v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Shape failures get the same generic answer as bad credentials so
		// the response reveals nothing about accounts.
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{
		Identity:  toIdentityResponse(res.Identity),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// ValidateUsername handles POST /v1/auth/username/validate.
func (h *Handler) ValidateUsername(c *gin.Context) {
	var req validateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	check := h.svc.ValidateUsername(c.Request.Context(), req.Username)
	body := gin.H{"available": check.Available}
	if !check.Available {
		body["reason"] = check.Reason
		body["suggestions"] = check.Suggestions
	}
	c.JSON(http.StatusOK, body)
}

// GetMe handles GET /v1/users/me.
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := middleware.GetIdentityID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	ident, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentityResponse(ident))
}

// UpdateMe handles PATCH /v1/users/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	id, ok := middleware.GetIdentityID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ident, err := h.svc.UpdateProfile(c.Request.Context(), id, req.FirstName, req.LastName, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIdentityResponse(ident))
}

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:          i.ID,
		Email:       i.Email,
		Username:    i.Username,
		FirstName:   i.FirstName,
		LastName:    i.LastName,
		DisplayName: i.DisplayName,
		CreatedAt:   i.CreatedAt,
		LastLoginAt: i.LastLoginAt,
	}
}

// writeError maps domain errors to status codes. Anything unrecognized is a
// collaborator failure and is answered with an opaque 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReservedUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("identity: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
