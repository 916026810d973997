package handlers

import (
	"errors"
	"net/http"

	"food-ordering-api/dberr"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// ── Restaurants ─────────────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Cuisine     string `json:"cuisine"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

// CreateRestaurant lets a restaurant-role user create their restaurant
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	ownerID := middleware.GetUserID(c)
	if _, err := h.Store.Restaurants.GetByOwner(ctx, ownerID); err == nil {
		fail(c, http.StatusConflict, "You already have a restaurant")
		return
	} else if !errors.Is(err, dberr.ErrNotFound) {
		h.storeError(c, "restaurant.get_by_owner", err)
		return
	}

	restaurant := &models.Restaurant{
		OwnerID:     ownerID,
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Address:     req.Address,
		Description: req.Description,
		IsOpen:      true,
	}
	if err := h.Store.Restaurants.Create(ctx, restaurant); err != nil {
		// a concurrent create for the same owner loses on the unique index
		if errors.Is(err, dberr.ErrConflict) {
			fail(c, http.StatusConflict, "You already have a restaurant")
			return
		}
		h.storeError(c, "restaurant.create", err)
		return
	}
	ok(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetMyRestaurant fetches the restaurant owned by the logged-in user
func (h *Handler) GetMyRestaurant(c *gin.Context) {
	restaurant, err := h.Store.Restaurants.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.storeError(c, "restaurant.get_by_owner", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant})
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Cuisine     *string `json:"cuisine"`
	Address     *string `json:"address" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	IsOpen      *bool   `json:"is_open"`
}

func (req UpdateRestaurantRequest) apply(r *models.Restaurant) {
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Cuisine != nil {
		r.Cuisine = *req.Cuisine
	}
	if req.Address != nil {
		r.Address = *req.Address
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.IsOpen != nil {
		r.IsOpen = *req.IsOpen
	}
}

// UpdateRestaurant changes the caller's own restaurant. Omitted fields keep
// their value, so is_open alone opens or closes it.
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	restaurant, err := h.Store.Restaurants.GetByOwner(ctx, middleware.GetUserID(c))
	if err != nil {
		h.storeError(c, "restaurant.get_by_owner", err)
		return
	}
	req.apply(restaurant)
	if err := h.Store.Restaurants.Update(ctx, restaurant); err != nil {
		h.storeError(c, "restaurant.update", err)
		return
	}
	ok(c, http.StatusOK, "Restaurant updated", restaurant)
}

// GetRestaurant returns one restaurant by id (public)
func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.Store.Restaurants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "restaurant.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant})
}

// ListRestaurants returns all restaurants (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.Store.Restaurants.List(c.Request.Context())
	if err != nil {
		h.storeError(c, "restaurant.list", err)
		return
	}
	if c.Query("open") == "true" {
		open := restaurants[:0]
		for _, r := range restaurants {
			if r.IsOpen {
				open = append(open, r)
			}
		}
		restaurants = open
	}
	if restaurants == nil {
		restaurants = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(restaurants), "data": restaurants})
}
