package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser(role models.UserRole) *models.User {
	return &models.User{ID: "u-1", Email: "a@example.com", Role: role}
}

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	token, err := a.GenerateToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	claims, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = NewAuth("other", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	a := &Auth{Secret: []byte("secret"), TTL: -time.Minute}
	token, err := a.GenerateToken(testUser(models.RoleCustomer))
	require.NoError(t, err)
	_, err = a.ParseToken(token)
	assert.Error(t, err)
}

func TestAuthRequiredAndRoles(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	r := gin.New()
	r.GET("/me", a.AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	r.GET("/admin", a.AuthRequired(), RoleRequired(models.RoleAdmin, models.RoleRestaurant), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	customer, err := a.GenerateToken(testUser(models.RoleCustomer))
	require.NoError(t, err)
	admin, err := a.GenerateToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "garbage").Code)

	w := do("/me", customer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())

	w = do("/admin", customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin, restaurant")
	assert.Equal(t, http.StatusNoContent, do("/admin", admin).Code)
}

func TestAuthState(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	token, err := a.GenerateToken(testUser(models.RoleCustomer))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	assert.False(t, a.AuthState(req).IsAuthenticated)

	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	assert.True(t, a.AuthState(req).IsAuthenticated)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.True(t, a.AuthState(req).IsAuthenticated)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "nope"})
	assert.False(t, a.AuthState(req).IsAuthenticated)
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }

	visit := func(ip string, after time.Duration) {
		clock = start.Add(after)
		rl.limiter(ip)
	}
	visit("10.0.0.1", 0)
	visit("10.0.0.2", 5*time.Minute)
	visit("10.0.0.3", 11*time.Minute)
	assert.NotContains(t, rl.visitors, "10.0.0.1", "idle past the limit")
	assert.Contains(t, rl.visitors, "10.0.0.2")

	visit("10.0.0.4", 12*time.Minute)
	assert.Len(t, rl.visitors, 3, "no sweep until another idle period passed")

	visit("10.0.0.5", 30*time.Minute)
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.5")
}

func TestRateLimiterDisabled(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(0, 0).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("*"))
	r.GET("/api/food/list", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/food/list", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
