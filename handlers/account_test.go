package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) addressRouter(userID string) *gin.Engine {
	r := gin.New()
	g := r.Group("/api", as(userID, models.RoleCustomer))
	g.POST("/address", e.h.CreateAddress)
	g.GET("/address", e.h.ListAddresses)
	g.PUT("/address/:id", e.h.UpdateAddress)
	g.DELETE("/address/:id", e.h.DeleteAddress)
	g.PUT("/address/:id/default", e.h.SetDefaultAddress)
	return r
}

func addressBody(street string, isDefault bool) map[string]any {
	return map[string]any{
		"street": street, "city": "Springfield", "state": "IL",
		"zip_code": "62701", "country": "US", "is_default": isDefault,
	}
}

func TestAddressLifecycle(t *testing.T) {
	e := newTestEnv(t)
	u := e.seedUser(t, "addr@example.com")
	r := e.addressRouter(u.ID)

	w := doJSON(r, http.MethodPost, "/api/address", addressBody("1 Main St", true))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var home models.Address
	decodeData(t, w, &home)
	assert.Equal(t, models.AddressHome, home.Type)
	assert.Equal(t, u.ID, home.UserID)

	body := addressBody("2 Office Rd", false)
	body["type"] = "Work"
	w = doJSON(r, http.MethodPost, "/api/address", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var work models.Address
	decodeData(t, w, &work)

	w = doJSON(r, http.MethodPut, "/api/address/"+work.ID+"/default", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/address", nil)
	var list []models.Address
	decodeData(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, work.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	w = doJSON(r, http.MethodPut, "/api/address/"+home.ID, addressBody("3 New St", false))
	require.Equal(t, http.StatusOK, w.Code)
	got, err := e.store.Addresses.Get(t.Context(), home.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 New St", got.Street)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/api/address/"+home.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/address/"+home.ID, nil).Code)
}

func TestAddressValidationAndOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner := e.seedUser(t, "owner@example.com")
	other := e.seedUser(t, "other@example.com")

	body := addressBody("1 Main St", false)
	delete(body, "city")
	w := doJSON(e.addressRouter(owner.ID), http.MethodPost, "/api/address", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = addressBody("1 Main St", false)
	body["type"] = "Castle"
	w = doJSON(e.addressRouter(owner.ID), http.MethodPost, "/api/address", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(e.addressRouter(owner.ID), http.MethodPost, "/api/address", addressBody("1 Main St", false))
	require.Equal(t, http.StatusCreated, w.Code)
	var a models.Address
	decodeData(t, w, &a)

	intruder := e.addressRouter(other.ID)
	assert.Equal(t, http.StatusNotFound, doJSON(intruder, http.MethodPut, "/api/address/"+a.ID, addressBody("x", false)).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(intruder, http.MethodDelete, "/api/address/"+a.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(intruder, http.MethodPut, "/api/address/"+a.ID+"/default", nil).Code)

	w = doJSON(e.addressRouter("ghost"), http.MethodPost, "/api/address", addressBody("1 Main St", false))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (e *testEnv) wishlistRouter(userID string) *gin.Engine {
	r := gin.New()
	g := r.Group("/api", as(userID, models.RoleCustomer))
	g.POST("/wishlist", e.h.AddToWishlist)
	g.GET("/wishlist", e.h.ListWishlist)
	g.DELETE("/wishlist/:itemId", e.h.RemoveFromWishlist)
	return r
}

func TestWishlist(t *testing.T) {
	e := newTestEnv(t)
	u := e.seedUser(t, "wish@example.com")
	item := e.seedItem(t, "pho", 9)
	r := e.wishlistRouter(u.ID)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/wishlist", map[string]string{"item_id": item.ID}).Code)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/wishlist", map[string]string{"item_id": item.ID}).Code)
	assert.EqualValues(t, 1, e.count(t, &models.WishlistItem{}))

	w := doJSON(r, http.MethodPost, "/api/wishlist", map[string]string{"item_id": "ghost"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.NoError(t, e.store.MenuItems.Delete(t.Context(), item.ID))
	w = doJSON(r, http.MethodGet, "/api/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		ItemID   string           `json:"item_id"`
		MenuItem *models.MenuItem `json:"menu_item"`
	}
	decodeData(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, item.ID, entries[0].ItemID)
	assert.Nil(t, entries[0].MenuItem)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/api/wishlist/"+item.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/wishlist/"+item.ID, nil).Code)
}

func (e *testEnv) accountRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/user/register", e.h.Register)
	r.POST("/api/user/login", e.h.Login)
	r.GET("/api/user/profile", e.h.Auth.AuthRequired(), e.h.GetProfile)
	return r
}

func TestRegisterLoginProfile(t *testing.T) {
	e := newTestEnv(t)
	r := e.accountRouter()

	w := doJSON(r, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Ana", "email": "Ana@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Result().Cookies())

	w = doJSON(r, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Bo", "email": "bo@example.com", "password": "secret1", "role": "driver",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/user/login", map[string]string{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/user/login", map[string]string{"email": "ana@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
		User  struct {
			Role models.UserRole `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, models.RoleCustomer, login.User.Role)

	req := doJSONWithToken(r, http.MethodGet, "/api/user/profile", login.Token)
	require.Equal(t, http.StatusOK, req.Code)
	assert.Contains(t, req.Body.String(), "ana@example.com")
	assert.NotContains(t, req.Body.String(), "password")
}

func (e *testEnv) restaurantRouter(userID string) *gin.Engine {
	r := gin.New()
	r.POST("/api/restaurant", as(userID, models.RoleRestaurant), e.h.CreateRestaurant)
	r.GET("/api/restaurant", as(userID, models.RoleRestaurant), e.h.GetMyRestaurant)
	r.GET("/api/restaurants", e.h.ListRestaurants)
	return r
}

func TestRestaurants(t *testing.T) {
	e := newTestEnv(t)
	owner := e.seedUser(t, "chef@example.com")
	r := e.restaurantRouter(owner.ID)

	body := map[string]string{"name": "Tomato", "address": "5 Vine St"}
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/restaurant", body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/api/restaurant", body).Code)

	w := doJSON(r, http.MethodGet, "/api/restaurant", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine models.Restaurant
	decodeData(t, w, &mine)
	assert.Equal(t, owner.ID, mine.OwnerID)

	w = doJSON(r, http.MethodGet, "/api/restaurants?open=true", nil)
	assert.Equal(t, 1, decode(t, w).Count)
}

func TestViewServesIndex(t *testing.T) {
	e := newTestEnv(t)
	r := gin.New()
	r.GET("/", e.h.View)

	w := doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div id="root">`)

	require.NoError(t, os.WriteFile(filepath.Join(e.h.WebDir, "index.html"), []byte("<p>app</p>"), 0o644))
	w = doJSON(r, http.MethodGet, "/", nil)
	assert.Equal(t, "<p>app</p>", w.Body.String())
}
