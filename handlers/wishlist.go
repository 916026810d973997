package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// ── Wishlist ────────────────────────────────────────────────────────────────

type WishlistRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type WishlistEntry struct {
	models.WishlistItem
	MenuItem *models.MenuItem `json:"menu_item"`
}

// AddToWishlist saves a menu item for the caller. Saving it twice is a no-op.
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w := &models.WishlistItem{UserID: middleware.GetUserID(c), ItemID: req.ItemID}
	if err := h.Store.Wishlist.Add(c.Request.Context(), w); err != nil {
		h.storeError(c, "wishlist.add", err)
		return
	}
	ok(c, http.StatusOK, "Added to wishlist", w)
}

// ListWishlist returns the caller's saved items with the menu item resolved,
// or null when it has been deleted since.
func (h *Handler) ListWishlist(c *gin.Context) {
	saved, err := h.Store.Wishlist.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.storeError(c, "wishlist.list", err)
		return
	}
	entries := make([]WishlistEntry, 0, len(saved))
	for _, w := range saved {
		item, err := h.itemOrNil(c, w.ItemID)
		if err != nil {
			h.storeError(c, "menu_item.get", err)
			return
		}
		entries = append(entries, WishlistEntry{WishlistItem: w, MenuItem: item})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(entries), "data": entries})
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	if err := h.Store.Wishlist.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("itemId")); err != nil {
		h.storeError(c, "wishlist.remove", err)
		return
	}
	ok(c, http.StatusOK, "Removed from wishlist", nil)
}
