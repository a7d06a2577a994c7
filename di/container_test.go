package di

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/tinydi/errors"
	"github.com/kbukum/tinydi/logger"
)

func newTestContainer() *Container {
	return New(WithLogger(logger.Nop()))
}

func TestNew(t *testing.T) {
	c := newTestContainer()
	require.NotNil(t, c)
	assert.NotEmpty(t, c.ID())
	assert.Nil(t, c.Parent())
	assert.Empty(t, c.Registrations())
}

func TestRegisterFactoryAndResolve(t *testing.T) {
	c := newTestContainer()
	RegisterFactory(c, func(Resolver) (string, error) { return "hello", nil }, Transient)

	got, err := Resolve[string](c)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestRegisterFactory_Chaining(t *testing.T) {
	c := newTestContainer()
	got := c.
		RegisterFactory(Key[string](), func(Resolver) (any, error) { return "a", nil }, Transient).
		RegisterFactory(Key[int](), func(Resolver) (any, error) { return 1, nil }, Singleton)

	assert.Same(t, c, got)
	assert.Len(t, c.Registrations(), 2)
}

func TestRegisterFactory_NilArgumentsPanic(t *testing.T) {
	c := newTestContainer()
	assert.Panics(t, func() { c.RegisterFactory(nil, func(Resolver) (any, error) { return nil, nil }, Transient) })
	assert.Panics(t, func() { c.RegisterFactory(Key[string](), nil, Transient) })
}

func TestResolve_NotRegistered(t *testing.T) {
	c := newTestContainer()

	_, err := Resolve[Service](c)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNotRegistered))
	assert.True(t, errors.IsResolution(err))
	assert.Contains(t, err.Error(), "di.Service")

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "di.Service", appErr.Details["key"])
}

func TestResolve_NotRegisteredAfterWalkingAncestors(t *testing.T) {
	root := newTestContainer()
	RegisterFactory(root, func(Resolver) (string, error) { return "root", nil }, Transient)
	child := root.Customize().Customize()

	_, err := child.CreateScope().Resolve(Key[Service]())
	assert.True(t, stderrors.Is(err, ErrNotRegistered))
}

func TestResolve_DependencyNotRegistered(t *testing.T) {
	c := newTestContainer()
	Must(RegisterTransient[Controller, *ControllerImpl](c, NewControllerImpl))

	_, err := Resolve[Controller](c)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNotRegistered))
	assert.Contains(t, err.Error(), "di.Service", "error should name the missing dependency")
}

func TestRegister_LastWriteWins(t *testing.T) {
	c := newTestContainer()
	RegisterFactory(c, func(Resolver) (string, error) { return "first", nil }, Transient)
	RegisterFactory(c, func(Resolver) (string, error) { return "second", nil }, Transient)

	got, err := Resolve[string](c)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Len(t, c.Registrations(), 1)
}

func TestCustomize_OverrideWithoutMutation(t *testing.T) {
	parent := newTestContainer()
	RegisterFactory(parent, func(Resolver) (string, error) { return "A", nil }, Singleton)

	child := parent.Customize()
	RegisterFactory(child, func(Resolver) (string, error) { return "B", nil }, Singleton)

	fromChild, err := Resolve[string](child)
	require.NoError(t, err)
	assert.Equal(t, "B", fromChild)

	fromParent, err := Resolve[string](parent)
	require.NoError(t, err)
	assert.Equal(t, "A", fromParent)

	assert.Len(t, parent.Registrations(), 1)
	assert.Same(t, parent, child.Parent())
	assert.NotEqual(t, parent.ID(), child.ID())
}

func TestCustomize_AncestorFallback(t *testing.T) {
	root := newTestContainer()
	Must(RegisterPerScope[Service, *ServiceImpl](root, NewServiceImpl))

	grandchild := root.Customize().Customize()
	scope := grandchild.CreateScope()

	svc, err := Resolve[Service](scope)
	require.NoError(t, err)
	assert.IsType(t, &ServiceImpl{}, svc)
	assert.Empty(t, grandchild.Registrations())
}

func TestCustomize_ChildDependencyOverrideAffectsChildOnly(t *testing.T) {
	root := newTestContainer()
	RegisterFactory(root, func(Resolver) (Repository, error) { return &memoryRepository{prefix: "prod"}, nil }, Transient)
	RegisterFactory(root, func(r Resolver) (string, error) {
		repo, err := Resolve[Repository](r)
		if err != nil {
			return "", err
		}
		return repo.Find(1), nil
	}, Transient)

	test := root.Customize()
	RegisterFactory(test, func(Resolver) (Repository, error) { return &memoryRepository{prefix: "fake"}, nil }, Transient)

	assert.Equal(t, "fake", MustResolve[string](test), "child override must be visible to inherited registrations")
	assert.Equal(t, "prod", MustResolve[string](root))
}

func TestRegistrations(t *testing.T) {
	c := newTestContainer()
	Must(RegisterSingleton[Service, *ServiceImpl](c, NewServiceImpl))
	RegisterPerScopeFactory(c, func(Resolver) (Repository, error) { return &memoryRepository{}, nil })

	infos := c.Registrations()
	require.Len(t, infos, 2)
	assert.Equal(t, Key[Repository](), infos[0].Key)
	assert.Equal(t, PerScope, infos[0].Lifetime)
	assert.Equal(t, "factory", infos[0].Source)
	assert.Equal(t, Key[Service](), infos[1].Key)
	assert.Contains(t, infos[1].Source, "NewServiceImpl")
	assert.False(t, infos[1].Constructed)

	_, err := Resolve[Service](c)
	require.NoError(t, err)
	assert.True(t, c.Registrations()[1].Constructed)
}

func TestResolve_UnknownLifetime(t *testing.T) {
	c := newTestContainer()
	RegisterFactory(c, func(Resolver) (string, error) { return "x", nil }, Lifetime(42))

	_, err := Resolve[string](c)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrUnknownLifetime))
	assert.True(t, errors.IsInternal(err))
}

func TestResolve_FactoryErrorPropagatesUnchanged(t *testing.T) {
	boom := stderrors.New("boom")
	c := newTestContainer()
	RegisterFactory(c, func(Resolver) (Service, error) { return nil, boom }, Singleton)
	Must(RegisterTransient[Controller, *ControllerImpl](c, NewControllerImpl))

	_, err := Resolve[Controller](c)
	assert.Same(t, boom, err)
}

func TestResolve_FailedSingletonIsRetried(t *testing.T) {
	c := newTestContainer()
	fail := true
	RegisterFactory(c, func(Resolver) (string, error) {
		if fail {
			return "", stderrors.New("not yet")
		}
		return "ready", nil
	}, Singleton)

	_, err := Resolve[string](c)
	require.Error(t, err)

	fail = false
	got, err := Resolve[string](c)
	require.NoError(t, err)
	assert.Equal(t, "ready", got)
}

func TestResolve_NilSingletonIsCached(t *testing.T) {
	c := newTestContainer()
	calls := 0
	RegisterFactory(c, func(Resolver) (Service, error) {
		calls++
		return nil, nil
	}, Singleton)

	for i := 0; i < 3; i++ {
		svc, err := Resolve[Service](c)
		require.NoError(t, err)
		assert.Nil(t, svc)
	}
	assert.Equal(t, 1, calls)
}

func TestFactoryReceivesScope(t *testing.T) {
	c := newTestContainer()
	var seen Resolver
	RegisterFactory(c, func(r Resolver) (string, error) {
		seen = r
		return "x", nil
	}, Transient)

	scope := c.CreateScope()
	_, err := Resolve[string](scope)
	require.NoError(t, err)
	assert.Same(t, scope, seen)
}
