package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"food-ordering-api/dberr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
)

// ── Menu items ──────────────────────────────────────────────────────────────

// AddFood creates a menu item from a multipart form. The upload middleware
// has already stored the image; a request without one is rejected before
// anything is persisted. Persistence failures are logged and answered with a
// generic message.
func (h *Handler) AddFood(c *gin.Context) {
	image, uploaded := storage.FileName(c)
	if !uploaded {
		fail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	item, err := menuItemFromForm(c, image)
	if err == nil {
		err = h.Store.MenuItems.Create(c.Request.Context(), item)
	}
	if err != nil {
		h.logStoreError(c, "menu_item.create", err)
		fail(c, http.StatusOK, "error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Food added"})
}

func menuItemFromForm(c *gin.Context, image string) (*models.MenuItem, error) {
	item := models.NewMenuItem()
	item.Name = strings.TrimSpace(c.PostForm("name"))
	item.Description = c.PostForm("description")
	item.Category = c.PostForm("category")
	item.RestaurantID = c.PostForm("restaurant_id")
	item.Image = image

	raw := strings.TrimSpace(c.PostForm("price"))
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q: %w", dberr.ErrValidation, raw, err)
	}
	item.Price = price

	if v := c.PostForm("is_veg"); v != "" {
		if item.IsVeg, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%w: is_veg %q: %w", dberr.ErrValidation, v, err)
		}
	}
	return item, nil
}

// ListFood returns the menu, optionally filtered by category, restaurant,
// veg and availability.
func (h *Handler) ListFood(c *gin.Context) {
	f := repository.MenuFilter{
		RestaurantID:  c.Query("restaurant_id"),
		Category:      c.Query("category"),
		VegOnly:       c.Query("is_veg") == "true",
		AvailableOnly: c.Query("available") == "true",
	}
	items, err := h.Store.MenuItems.List(c.Request.Context(), f)
	if err != nil {
		h.storeError(c, "menu_item.list", err)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

func (h *Handler) GetFood(c *gin.Context) {
	item, err := h.Store.MenuItems.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "menu_item.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

type UpdateFoodRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	IsVeg       *bool    `json:"is_veg"`
	IsAvailable *bool    `json:"is_available"`
}

func (r UpdateFoodRequest) apply(item *models.MenuItem) {
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.IsVeg != nil {
		item.IsVeg = *r.IsVeg
	}
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
}

// UpdateFood changes the fields present in the request body.
func (h *Handler) UpdateFood(c *gin.Context) {
	var req UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.Store.MenuItems.Get(ctx, c.Param("id"))
	if err != nil {
		h.storeError(c, "menu_item.get", err)
		return
	}
	req.apply(item)
	if err := h.Store.MenuItems.Update(ctx, item); err != nil {
		h.storeError(c, "menu_item.update", err)
		return
	}
	ok(c, http.StatusOK, "Food updated", item)
}

type RemoveFoodRequest struct {
	ID string `json:"id" binding:"required"`
}

// RemoveFood deletes a menu item and its image. Cart lines and wishlist
// entries pointing at it are left alone.
func (h *Handler) RemoveFood(c *gin.Context) {
	var req RemoveFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.Store.MenuItems.Get(ctx, req.ID)
	if err != nil {
		h.storeError(c, "menu_item.get", err)
		return
	}
	if err := h.Store.MenuItems.Delete(ctx, item.ID); err != nil {
		h.storeError(c, "menu_item.delete", err)
		return
	}
	if h.Files != nil {
		if err := h.Files.Remove(item.Image); err != nil {
			h.Log.WithError(err).WithField("image", item.Image).Warn("failed to remove image of deleted item")
		}
	}
	ok(c, http.StatusOK, "Food removed", nil)
}

// itemOrNil resolves a menu item reference, mapping a dangling one to nil.
func (h *Handler) itemOrNil(c *gin.Context, id string) (*models.MenuItem, error) {
	item, err := h.Store.MenuItems.Get(c.Request.Context(), id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, nil
	}
	return item, err
}
