package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/guard"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie browsers send the JWT in when loading views.
const TokenCookie = "token"

type Claims struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and checks JWTs signed with Secret.
type Auth struct {
	Secret []byte
	TTL    time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{Secret: []byte(secret), TTL: ttl}
}

// GenerateToken creates a signed JWT for a given user
func (a *Auth) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// ParseToken validates a token string and returns its claims.
func (a *Auth) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// AuthState resolves the guard state from the bearer header, falling back to
// the token cookie.
func (a *Auth) AuthState(r *http.Request) guard.AuthState {
	tokenStr := bearer(r)
	if tokenStr == "" {
		if ck, err := r.Cookie(TokenCookie); err == nil {
			tokenStr = ck.Value
		}
	}
	if tokenStr == "" {
		return guard.AuthState{}
	}
	_, err := a.ParseToken(tokenStr)
	return guard.AuthState{IsAuthenticated: err == nil}
}

// AuthRequired validates the JWT and injects claims into context
func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c.Request)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required (Bearer <token>)"})
			return
		}
		claims, err := a.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := GetRole(c)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("role"))
}
