package handlers

import (
	"errors"
	"net/http"
	"strings"

	"food-ordering-api/dberr"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userSummary(u *models.User) gin.H {
	return gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

// respondWithToken signs a token for user and also sets it as the cookie the
// guarded views read.
func (h *Handler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, err := h.Auth.GenerateToken(user)
	if err != nil {
		h.Log.WithError(err).Error("failed to sign token")
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.Auth.TTL.Seconds()), "/", "", false, true)
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"token":   token,
		"user":    userSummary(user),
	})
}

// Register creates a new user account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if !req.Role.Valid() {
		fail(c, http.StatusBadRequest, "Invalid role. Must be: customer, restaurant, or admin")
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.Store.Users.GetByEmail(ctx, email); err == nil {
		fail(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, dberr.ErrNotFound) {
		h.storeError(c, "user.get_by_email", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
	}
	if err := h.Store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, dberr.ErrConflict) {
			h.logStoreError(c, "user.create", err)
			fail(c, http.StatusConflict, "Email already registered")
			return
		}
		h.storeError(c, "user.create", err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, "Account created successfully", user)
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.Store.Users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			h.storeError(c, "user.get_by_email", err)
			return
		}
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Store.Users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.storeError(c, "user.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
