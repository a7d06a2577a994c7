package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/di"
	"github.com/kbukum/tinydi/errors"
)

const scopeKey = "di.scope"

// Scope creates a di.Scope per request from container. The scope is stored
// in the gin context and in the request's context.Context, and its
// resolutions are traced under the request context.
func Scope(container *di.Container) gin.HandlerFunc {
	if container == nil {
		panic("middleware: Scope called with nil container")
	}
	return func(c *gin.Context) {
		scope := container.CreateScopeContext(c.Request.Context())
		c.Set(scopeKey, scope)
		c.Request = c.Request.WithContext(di.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}

// ScopeFrom returns the request scope installed by Scope.
func ScopeFrom(c *gin.Context) (*di.Scope, bool) {
	if v, ok := c.Get(scopeKey); ok {
		if s, ok := v.(*di.Scope); ok {
			return s, true
		}
	}
	return di.ScopeFromContext(c.Request.Context())
}

// Resolve resolves T from the request scope. Without the Scope middleware
// it returns a NOT_REGISTERED error naming the missing scope.
func Resolve[T any](c *gin.Context) (T, error) {
	scope, ok := ScopeFrom(c)
	if !ok {
		var zero T
		return zero, errors.NotRegistered("*di.Scope").
			WithDetail("hint", "install middleware.Scope before resolving from a request")
	}
	return di.Resolve[T](scope)
}
