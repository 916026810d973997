// Package guard gates views on the caller's authentication state. The state
// is resolved once per request by Provide and read by Protected; nothing is
// kept between requests.
package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultLoginPath is where unauthenticated callers are sent.
const DefaultLoginPath = "/login"

const stateKey = "authState"

// AuthState is what the guard knows about the caller.
type AuthState struct {
	IsAuthenticated bool
}

// Resolver derives the AuthState of a request.
type Resolver interface {
	Resolve(r *http.Request) AuthState
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) AuthState

func (f ResolverFunc) Resolve(r *http.Request) AuthState { return f(r) }

// Provide resolves the AuthState for each request and stores it on the context.
func Provide(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(stateKey, resolver.Resolve(c.Request))
		c.Next()
	}
}

// FromContext returns the state stored by Provide. A request that went
// through no provider is unauthenticated.
func FromContext(c *gin.Context) AuthState {
	if v, ok := c.Get(stateKey); ok {
		if s, ok := v.(AuthState); ok {
			return s
		}
	}
	return AuthState{}
}

// Allow is the guard decision.
func Allow(s AuthState) bool {
	return s.IsAuthenticated
}

// Protected lets authenticated requests through to the view and redirects
// everyone else to loginPath without running it.
func Protected(loginPath string) gin.HandlerFunc {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return func(c *gin.Context) {
		if Allow(FromContext(c)) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}
