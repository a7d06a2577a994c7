package di

import "context"

// scopeContextKey is the context key for storing a Scope in context.Context.
type scopeContextKey struct{}

// WithScope returns a copy of ctx carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// ScopeFromContext returns the Scope stored in ctx, if any.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeContextKey{}).(*Scope)
	return s, ok && s != nil
}
