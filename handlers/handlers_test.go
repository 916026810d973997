package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/repository"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	h       *Handler
	store   *repository.Store
	db      *gorm.DB
	hook    *test.Hook
	uploads *storage.Disk
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbLog, _ := test.NewNullLogger()
	db, err := config.OpenGorm(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), dbLog)
	require.NoError(t, err)
	store := repository.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	uploads, err := storage.NewDisk(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	h := New(store, middleware.NewAuth("test-secret", time.Hour), uploads, log, t.TempDir())
	return &testEnv{h: h, store: store, db: db, hook: hook, uploads: uploads}
}

// as stands in for the auth middleware and sets the caller identity.
func as(userID string, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", string(role))
		c.Next()
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, PasswordHash: "hash"}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedItem(t *testing.T, name string, price float64) *models.MenuItem {
	t.Helper()
	item := models.NewMenuItem()
	item.Name, item.Price, item.Image, item.Category = name, price, name+".png", "Main"
	require.NoError(t, e.store.MenuItems.Create(context.Background(), item))
	return item
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// foodForm builds a multipart add-food request. An empty fileName leaves the
// image out.
func foodForm(t *testing.T, fields map[string]string, fileName string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/food/add", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(decode(t, w).Data, dst))
}

func doJSONWithToken(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
