package di

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tinydi/errors"
	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/observability"
)

// Scope is a resolution context that caches PerScope values. A Scope belongs
// to one logical resolution flow and must not be used from several
// goroutines at once. It has no teardown: drop the reference when done.
type Scope struct {
	id        string
	ctx       context.Context
	container *Container
	cache     map[*registration]any

	// depth counts nested Resolve calls made by factories. Only the
	// outermost call takes the chain mutex; nested calls run under it.
	depth int
}

func newScope(ctx context.Context, c *Container) *Scope {
	s := &Scope{
		id:        uuid.NewString(),
		ctx:       ctx,
		container: c,
		cache:     make(map[*registration]any),
	}
	c.log.Debug("scope created", logger.Fields(
		logger.FieldScopeID, s.id,
		logger.FieldContainerID, c.id,
	))
	return s
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() string { return s.id }

// Context returns the context the scope was created with.
func (s *Scope) Context() context.Context { return s.ctx }

// Resolve returns the value registered for key on the scope's container or
// the nearest ancestor that registers it.
func (s *Scope) Resolve(key reflect.Type) (any, error) {
	if s.depth == 0 {
		s.container.mu.Lock()
		defer s.container.mu.Unlock()
	}
	s.depth++
	defer func() { s.depth-- }()

	name := keyName(key)
	start := time.Now()

	parent := s.ctx
	ctx, span := s.container.tracer.Start(parent, observability.SpanResolve, trace.WithAttributes(
		attribute.String(observability.AttrServiceKey, name),
		attribute.String(observability.AttrScopeID, s.id),
	))
	s.ctx = ctx
	defer func() {
		s.ctx = parent
		span.End()
	}()

	v, err := s.resolve(key, span)
	if err != nil {
		code := string(errors.CodeOf(err))
		if code == "" {
			code = "FACTORY_ERROR"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrErrorCode, code))
		s.container.metrics.RecordError(ctx, name, code)
		s.container.metrics.RecordResolution(ctx, name, "error", time.Since(start))
		return nil, err
	}
	s.container.metrics.RecordResolution(ctx, name, "ok", time.Since(start))
	return v, nil
}

func (s *Scope) resolve(key reflect.Type, span trace.Span) (any, error) {
	if key == nil {
		return nil, errors.NotRegistered(keyName(key))
	}
	reg := s.container.lookup(key)
	if reg == nil {
		s.container.log.Warn("service not registered", logger.Fields(
			logger.FieldServiceKey, keyName(key),
			logger.FieldContainerID, s.container.id,
			logger.FieldScopeID, s.id,
		))
		return nil, errors.NotRegistered(keyName(key))
	}
	span.SetAttributes(attribute.String(observability.AttrLifetime, reg.lifetime.String()))
	return reg.resolve(s)
}

// construct invokes the registration's factory with this scope as resolver.
func (s *Scope) construct(r *registration) (any, error) {
	v, err := r.factory(s)
	if err != nil {
		return nil, err
	}
	s.container.metrics.RecordConstruction(s.ctx, r.key.String(), r.lifetime.String())
	s.container.log.Debug("service constructed", logger.Fields(
		logger.FieldServiceKey, r.key.String(),
		logger.FieldLifetime, r.lifetime.String(),
		logger.FieldScopeID, s.id,
	))
	return v, nil
}

func (s *Scope) cached(r *registration) (any, bool) {
	v, ok := s.cache[r]
	return v, ok
}

func (s *Scope) set(r *registration, v any) {
	s.cache[r] = v
}

func keyName(key reflect.Type) string {
	if key == nil {
		return "<nil>"
	}
	return key.String()
}
