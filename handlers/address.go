package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// ── Addresses ───────────────────────────────────────────────────────────────

type AddressRequest struct {
	Type      models.AddressType `json:"type" binding:"omitempty,oneof=Home Work Other"`
	Street    string             `json:"street" binding:"required"`
	City      string             `json:"city" binding:"required"`
	State     string             `json:"state" binding:"required"`
	ZipCode   string             `json:"zip_code" binding:"required"`
	Country   string             `json:"country" binding:"required"`
	IsDefault bool               `json:"is_default"`
}

func (r AddressRequest) apply(a *models.Address) {
	a.Type = r.Type
	a.Street = r.Street
	a.City = r.City
	a.State = r.State
	a.ZipCode = r.ZipCode
	a.Country = r.Country
	a.IsDefault = r.IsDefault
}

// ownAddress loads an address of the caller. Addresses of other users are
// reported as missing.
func (h *Handler) ownAddress(c *gin.Context) (*models.Address, bool) {
	a, err := h.Store.Addresses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "address.get", err)
		return nil, false
	}
	if a.UserID != middleware.GetUserID(c) {
		fail(c, http.StatusNotFound, "Address not found")
		return nil, false
	}
	return a, true
}

func (h *Handler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a := &models.Address{UserID: middleware.GetUserID(c)}
	req.apply(a)
	if err := h.Store.Addresses.Create(c.Request.Context(), a); err != nil {
		h.storeError(c, "address.create", err)
		return
	}
	ok(c, http.StatusCreated, "Address saved", a)
}

// ListAddresses returns the caller's addresses, default first.
func (h *Handler) ListAddresses(c *gin.Context) {
	list, err := h.Store.Addresses.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.storeError(c, "address.list", err)
		return
	}
	if list == nil {
		list = []models.Address{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "data": list})
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, found := h.ownAddress(c)
	if !found {
		return
	}
	req.apply(a)
	if err := h.Store.Addresses.Update(c.Request.Context(), a); err != nil {
		h.storeError(c, "address.update", err)
		return
	}
	ok(c, http.StatusOK, "Address updated", a)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	a, found := h.ownAddress(c)
	if !found {
		return
	}
	if err := h.Store.Addresses.Delete(c.Request.Context(), a.ID); err != nil {
		h.storeError(c, "address.delete", err)
		return
	}
	ok(c, http.StatusOK, "Address deleted", nil)
}

// SetDefaultAddress makes one address the caller's default.
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	if err := h.Store.Addresses.SetDefault(ctx, userID, c.Param("id")); err != nil {
		h.storeError(c, "address.set_default", err)
		return
	}
	a, err := h.Store.Addresses.Get(ctx, c.Param("id"))
	if err != nil {
		h.storeError(c, "address.get", err)
		return
	}
	ok(c, http.StatusOK, "Default address set", a)
}
