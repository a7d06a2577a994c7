package di

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tinydi/errors"
	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/observability"
)

// Resolver resolves a value for a service key. It is the only capability a
// factory receives: factories may resolve dependencies but cannot register
// services or create scopes.
type Resolver interface {
	Resolve(key reflect.Type) (any, error)
}

// Factory builds a value, resolving its dependencies through r.
type Factory func(r Resolver) (any, error)

// Container owns a set of registrations and optionally defers to a parent.
type Container struct {
	id            string
	parent        *Container
	registrations map[reflect.Type]*registration

	// mu is shared by every container in the chain.
	mu *sync.Mutex

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ResolutionMetrics
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Key         reflect.Type
	Lifetime    Lifetime
	Source      string // constructor name or "factory"
	Constructed bool   // singleton value already built
}

// New creates an empty root container.
func New(opts ...Option) *Container {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get("di")
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if o.meter == nil {
		o.meter = observability.Meter(observability.InstrumentationName)
	}

	metrics, err := observability.NewResolutionMetrics(o.meter)
	if err != nil {
		o.logger.Warn("resolution metrics disabled", logger.MergeWithError(nil, err))
		metrics, _ = observability.NewResolutionMetrics(noop.NewMeterProvider().Meter(""))
	}

	c := &Container{
		id:            uuid.NewString(),
		registrations: make(map[reflect.Type]*registration),
		mu:            &sync.Mutex{},
		log:           o.logger,
		tracer:        o.tracer,
		metrics:       metrics,
	}
	c.log.Debug("container created", logger.Fields(logger.FieldContainerID, c.id))
	return c
}

// ID returns the container's unique identifier.
func (c *Container) ID() string { return c.id }

// Parent returns the container this one was customized from, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Customize creates an empty child container. Registrations on the child
// shadow the parent's without modifying it; anything the child does not
// register is looked up in its ancestors.
func (c *Container) Customize() *Container {
	child := &Container{
		id:            uuid.NewString(),
		parent:        c,
		registrations: make(map[reflect.Type]*registration),
		mu:            c.mu,
		log:           c.log,
		tracer:        c.tracer,
		metrics:       c.metrics,
	}
	c.log.Debug("container customized", logger.Fields(
		logger.FieldContainerID, child.id,
		logger.FieldParentID, c.id,
	))
	return child
}

// CreateScope creates a scope whose PerScope values are shared across all
// resolutions made through it.
func (c *Container) CreateScope() *Scope {
	return c.CreateScopeContext(context.Background())
}

// CreateScopeContext creates a scope bound to ctx. Resolution spans are
// started as children of the span in ctx.
func (c *Container) CreateScopeContext(ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}
	return newScope(ctx, c)
}

// Resolve resolves key through a new scope that is discarded afterwards, so
// PerScope values are never shared between two calls.
func (c *Container) Resolve(key reflect.Type) (any, error) {
	return c.CreateScope().Resolve(key)
}

// Register binds key to an implementation built by a single constructor
// function. Each constructor parameter is resolved from the scope in use and
// passed positionally. Exactly one constructor must be given; use
// RegisterFactory for anything else. The receiver is returned so calls can
// be chained, also when an error is reported.
func (c *Container) Register(key reflect.Type, lifetime Lifetime, constructors ...any) (*Container, error) {
	return c.registerConstructor(key, key, lifetime, constructors)
}

// RegisterFactory binds key to factory. A later registration for the same
// key on the same container replaces this one. Panics on a nil key or factory.
func (c *Container) RegisterFactory(key reflect.Type, factory Factory, lifetime Lifetime) *Container {
	if key == nil {
		panic("di: RegisterFactory called with nil key")
	}
	if factory == nil {
		panic("di: RegisterFactory called with nil factory for " + key.String())
	}
	c.add(&registration{
		key:      key,
		factory:  factory,
		lifetime: lifetime,
		source:   "factory",
	})
	return c
}

func (c *Container) registerConstructor(key, impl reflect.Type, lifetime Lifetime, constructors []any) (*Container, error) {
	if key == nil {
		panic("di: Register called with nil key")
	}
	if len(constructors) != 1 {
		return c, errors.AmbiguousConstructor(impl.String(), len(constructors))
	}

	ctor, err := parseConstructor(constructors[0], impl)
	if err != nil {
		return c, err
	}

	c.add(&registration{
		key:      key,
		factory:  ctor.invoke,
		lifetime: lifetime,
		source:   ctor.name,
	})
	return c, nil
}

func (c *Container) add(reg *registration) {
	c.mu.Lock()
	_, replaced := c.registrations[reg.key]
	c.registrations[reg.key] = reg
	c.mu.Unlock()

	c.log.Debug("service registered", logger.Fields(
		logger.FieldContainerID, c.id,
		logger.FieldServiceKey, reg.key.String(),
		logger.FieldLifetime, reg.lifetime.String(),
		logger.FieldConstructor, reg.source,
		"replaced", replaced,
	))
}

// lookup walks from c up through its ancestors. The caller holds c.mu.
func (c *Container) lookup(key reflect.Type) *registration {
	for cur := c; cur != nil; cur = cur.parent {
		if reg, ok := cur.registrations[key]; ok {
			return reg
		}
	}
	return nil
}

// Registrations returns the registrations defined on this container itself,
// ordered by key. Inherited registrations are not included.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]RegistrationInfo, 0, len(c.registrations))
	for _, reg := range c.registrations {
		result = append(result, RegistrationInfo{
			Key:         reg.key,
			Lifetime:    reg.lifetime,
			Source:      reg.source,
			Constructed: reg.built,
		})
	}
	slices.SortFunc(result, func(a, b RegistrationInfo) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	return result
}
