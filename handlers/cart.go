package handlers

import (
	"context"
	"errors"
	"net/http"

	"food-ordering-api/dberr"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/repository"

	"github.com/gin-gonic/gin"
)

// ── Cart ────────────────────────────────────────────────────────────────────

type CartLineView struct {
	MenuItemID string           `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	MenuItem   *models.MenuItem `json:"menu_item"`
}

type CartView struct {
	ID       string         `json:"id,omitempty"`
	Items    []CartLineView `json:"items"`
	Subtotal float64        `json:"subtotal"`
}

// cartView resolves each line to its menu item. Lines whose item no longer
// exists keep a nil item and do not count towards the subtotal.
func (h *Handler) cartView(c *gin.Context, cart *models.Cart) (CartView, error) {
	view := CartView{ID: cart.ID, Items: make([]CartLineView, 0, len(cart.Items))}
	for _, line := range cart.Items {
		item, err := h.itemOrNil(c, line.MenuItemID)
		if err != nil {
			return CartView{}, err
		}
		if item != nil {
			view.Subtotal += item.Price * float64(line.Quantity)
		}
		view.Items = append(view.Items, CartLineView{MenuItemID: line.MenuItemID, Quantity: line.Quantity, MenuItem: item})
	}
	return view, nil
}

// pruneDangling drops lines whose menu item was deleted so the cart can be
// saved again.
func (h *Handler) pruneDangling(c *gin.Context, cart *models.Cart) error {
	kept := cart.Items[:0]
	for _, line := range cart.Items {
		item, err := h.itemOrNil(c, line.MenuItemID)
		if err != nil {
			return err
		}
		if item != nil {
			kept = append(kept, line)
		}
	}
	cart.Items = kept
	return nil
}

// cartSaveAttempts bounds how often a cart change is re-applied after another
// request saved the same cart first.
const cartSaveAttempts = 10

// updateCart loads the cart, applies change and saves it. When the save loses
// to a concurrent one the cart is read again and change re-applied. change
// reports false when the requested line is not in the cart.
func (h *Handler) updateCart(c *gin.Context, load func(context.Context) (*models.Cart, error), change func(*models.Cart) bool, message string) {
	ctx := c.Request.Context()
	var err error
	for attempt := 0; attempt < cartSaveAttempts; attempt++ {
		var cart *models.Cart
		if cart, err = load(ctx); err != nil {
			h.storeError(c, "cart.get", err)
			return
		}
		if !change(cart) {
			fail(c, http.StatusNotFound, "Item not in cart")
			return
		}
		if err = h.pruneDangling(c, cart); err != nil {
			h.storeError(c, "menu_item.get", err)
			return
		}
		err = h.Store.Carts.Save(ctx, cart)
		if errors.Is(err, dberr.ErrConflict) {
			continue
		}
		if err != nil {
			h.storeError(c, "cart.save", err)
			return
		}

		view, err := h.cartView(c, cart)
		if err != nil {
			h.storeError(c, "menu_item.get", err)
			return
		}
		ok(c, http.StatusOK, message, view)
		return
	}
	h.storeError(c, "cart.save", err)
}

func (h *Handler) userCart(c *gin.Context) func(context.Context) (*models.Cart, error) {
	userID := middleware.GetUserID(c)
	return func(ctx context.Context) (*models.Cart, error) {
		return h.Store.Carts.GetByUser(ctx, userID)
	}
}

// GetCart returns the caller's cart, empty when none was created yet.
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.Store.Carts.GetByUser(c.Request.Context(), middleware.GetUserID(c))
	if errors.Is(err, dberr.ErrNotFound) {
		cart, err = &models.Cart{Items: []models.CartLine{}}, nil
	}
	if err != nil {
		h.storeError(c, "cart.get", err)
		return
	}
	view, err := h.cartView(c, cart)
	if err != nil {
		h.storeError(c, "menu_item.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

type AddToCartRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

// AddToCart puts an available menu item in the caller's cart, creating the
// cart on first use.
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.Store.MenuItems.Get(ctx, req.ItemID)
	if err != nil {
		h.storeError(c, "menu_item.get", err)
		return
	}
	if !item.IsAvailable {
		fail(c, http.StatusUnprocessableEntity, "Item is not available")
		return
	}

	userID := middleware.GetUserID(c)
	load := func(ctx context.Context) (*models.Cart, error) {
		return repository.CartForUser(ctx, h.Store.Carts, userID)
	}
	h.updateCart(c, load, func(cart *models.Cart) bool {
		cart.Add(item.ID, max(req.Quantity, 1))
		return true
	}, "Added to cart")
}

type CartItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// RemoveFromCart lowers the quantity of one line by one.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.updateCart(c, h.userCart(c), func(cart *models.Cart) bool {
		return cart.Decrement(req.ItemID)
	}, "Removed from cart")
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// SetCartQuantity overwrites the quantity of a line; zero drops it.
func (h *Handler) SetCartQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	itemID := c.Param("itemId")
	h.updateCart(c, h.userCart(c), func(cart *models.Cart) bool {
		return cart.SetQuantity(itemID, *req.Quantity)
	}, "Cart updated")
}

func (h *Handler) ClearCart(c *gin.Context) {
	_, err := h.Store.Carts.GetByUser(c.Request.Context(), middleware.GetUserID(c))
	if errors.Is(err, dberr.ErrNotFound) {
		ok(c, http.StatusOK, "Cart cleared", CartView{Items: []CartLineView{}})
		return
	}
	if err != nil {
		h.storeError(c, "cart.get", err)
		return
	}
	h.updateCart(c, h.userCart(c), func(cart *models.Cart) bool {
		cart.Clear()
		return true
	}, "Cart cleared")
}
