package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"food-ordering-api/dberr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
	"food-ordering-api/repository/mocks"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func (e *testEnv) foodRouter() *gin.Engine {
	r := gin.New()
	r.POST("/api/food/add", storage.SingleFile(e.uploads, "image", 1<<20, e.h.Log), e.h.AddFood)
	r.GET("/api/food/list", e.h.ListFood)
	r.GET("/api/food/:id", e.h.GetFood)
	r.PUT("/api/food/:id", e.h.UpdateFood)
	r.POST("/api/food/remove", e.h.RemoveFood)
	return r
}

func validFood() map[string]string {
	return map[string]string{
		"name":        "Greek Salad",
		"description": "Feta and olives",
		"price":       "12",
		"category":    "Salad",
	}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAddFoodWithoutFile(t *testing.T) {
	e := newTestEnv(t)
	w := httptest.NewRecorder()
	e.foodRouter().ServeHTTP(w, foodForm(t, validFood(), ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"No file uploaded"}`, w.Body.String())
	assert.Zero(t, e.count(t, &models.MenuItem{}))
}

func TestAddFood(t *testing.T) {
	e := newTestEnv(t)
	w := httptest.NewRecorder()
	e.foodRouter().ServeHTTP(w, foodForm(t, validFood(), "salad.jpg"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Food added"}`, w.Body.String())

	var items []models.MenuItem
	require.NoError(t, e.db.Find(&items).Error)
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, "Greek Salad", got.Name)
	assert.Equal(t, "Feta and olives", got.Description)
	assert.Equal(t, 12.0, got.Price)
	assert.Equal(t, "Salad", got.Category)
	assert.False(t, got.IsVeg)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, []string{got.Image}, storedFiles(t, e.uploads.Dir))
}

func TestAddFoodPersistenceFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"negative price", func(f map[string]string) { f["price"] = "-3" }},
		{"missing name", func(f map[string]string) { delete(f, "name") }},
		{"unparseable price", func(f map[string]string) { f["price"] = "cheap" }},
		{"infinite price", func(f map[string]string) { f["price"] = "Inf" }},
		{"NaN price", func(f map[string]string) { f["price"] = "NaN" }},
		{"unknown restaurant", func(f map[string]string) { f["restaurant_id"] = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			fields := validFood()
			tt.mutate(fields)

			w := httptest.NewRecorder()
			e.foodRouter().ServeHTTP(w, foodForm(t, fields, "salad.jpg"))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"error"}`, w.Body.String())
			assert.Zero(t, e.count(t, &models.MenuItem{}))

			entry := e.hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, "menu_item.create", entry.Data["op"])
			assert.Error(t, entry.Data[logrus.ErrorKey].(error))

			assert.Len(t, storedFiles(t, e.uploads.Dir), 1, "uploaded file is kept")
		})
	}
}

func TestNonFinitePriceKeepsMenuReadable(t *testing.T) {
	e := newTestEnv(t)
	r := e.foodRouter()
	e.seedItem(t, "soup", 4)

	fields := validFood()
	fields["price"] = "infinity"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, foodForm(t, fields, "salad.jpg"))
	require.JSONEq(t, `{"success":false,"message":"error"}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/food/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(t, w).Count)
}

func TestAddFoodStoreDown(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	items := mocks.NewMockMenuItems(ctrl)
	items.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: connection refused", dberr.ErrUnavailable))
	e.h.Store = &repository.Store{MenuItems: items}

	w := httptest.NewRecorder()
	e.foodRouter().ServeHTTP(w, foodForm(t, validFood(), "salad.jpg"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")

	entry := e.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, dberr.KindUnavailable, entry.Data["kind"])
	assert.True(t, errors.Is(entry.Data[logrus.ErrorKey].(error), dberr.ErrUnavailable))
}

func TestAddFoodTwiceCreatesTwoItems(t *testing.T) {
	e := newTestEnv(t)
	r := e.foodRouter()
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, foodForm(t, validFood(), "salad.jpg"))
		require.JSONEq(t, `{"success":true,"message":"Food added"}`, w.Body.String())
	}

	var items []models.MenuItem
	require.NoError(t, e.db.Find(&items).Error)
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.NotEqual(t, items[0].Image, items[1].Image)
}

func TestListAndGetFood(t *testing.T) {
	e := newTestEnv(t)
	soup := e.seedItem(t, "soup", 4)
	e.seedItem(t, "stew", 6)
	r := e.foodRouter()

	w := doJSON(r, http.MethodGet, "/api/food/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode(t, w).Count)

	w = doJSON(r, http.MethodGet, "/api/food/list?category=Dessert", nil)
	assert.Equal(t, 0, decode(t, w).Count)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))

	w = doJSON(r, http.MethodGet, "/api/food/"+soup.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.MenuItem
	decodeData(t, w, &got)
	assert.Equal(t, "soup", got.Name)

	w = doJSON(r, http.MethodGet, "/api/food/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Not found"}`, w.Body.String())
}

func TestUpdateFood(t *testing.T) {
	e := newTestEnv(t)
	item := e.seedItem(t, "soup", 4)
	r := e.foodRouter()

	w := doJSON(r, http.MethodPut, "/api/food/"+item.ID, map[string]any{"price": 5.5, "is_available": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := e.store.MenuItems.Get(t.Context(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.5, got.Price)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, "soup", got.Name)

	w = doJSON(r, http.MethodPut, "/api/food/"+item.ID, map[string]any{"price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveFoodDeletesImage(t *testing.T) {
	e := newTestEnv(t)
	r := e.foodRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, foodForm(t, validFood(), "salad.jpg"))
	require.JSONEq(t, `{"success":true,"message":"Food added"}`, w.Body.String())

	var item models.MenuItem
	require.NoError(t, e.db.First(&item).Error)

	w = doJSON(r, http.MethodPost, "/api/food/remove", map[string]string{"id": item.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, e.count(t, &models.MenuItem{}))
	assert.Empty(t, storedFiles(t, e.uploads.Dir))

	w = doJSON(r, http.MethodPost, "/api/food/remove", map[string]string{"id": item.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFoodStoreDown(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	items := mocks.NewMockMenuItems(ctrl)
	items.EXPECT().List(gomock.Any(), repository.MenuFilter{Category: "Salad"}).
		Return(nil, fmt.Errorf("%w: server selection timeout", dberr.ErrUnavailable))
	e.h.Store = &repository.Store{MenuItems: items}

	w := doJSON(e.foodRouter(), http.MethodGet, "/api/food/list?category=Salad", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Service unavailable"}`, w.Body.String())
}
