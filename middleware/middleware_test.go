package middleware_test

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/tinydi/di"
	"github.com/kbukum/tinydi/errors"
	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type counter struct{ n int64 }

type holder struct{ c *counter }

var built atomic.Int64

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	c := di.New(di.WithLogger(logger.Nop()))
	di.RegisterPerScopeFactory[*counter](c, func(di.Resolver) (*counter, error) {
		return &counter{n: built.Add(1)}, nil
	})
	di.RegisterTransientFactory[*holder](c, func(r di.Resolver) (*holder, error) {
		cnt, err := di.Resolve[*counter](r)
		if err != nil {
			return nil, err
		}
		return &holder{c: cnt}, nil
	})
	return c
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestID_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		assert.NotEmpty(t, c.Request.Header.Get(middleware.HeaderRequestID))
		c.String(http.StatusOK, middleware.RequestIDFrom(c))
	})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	id := rr.Header().Get(middleware.HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rr.Body.String())
}

func TestRequestID_PreservesExisting(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	rr := serve(r, req)
	assert.Equal(t, "req-123", rr.Header().Get(middleware.HeaderRequestID))
}

func TestScope_PerRequestSharing(t *testing.T) {
	c := newContainer(t)
	r := gin.New()
	r.Use(middleware.Scope(c))
	r.GET("/", func(ctx *gin.Context) {
		a, err := middleware.Resolve[*holder](ctx)
		require.NoError(t, err)
		b, err := middleware.Resolve[*holder](ctx)
		require.NoError(t, err)
		assert.NotSame(t, a, b, "transient holders are distinct")
		assert.Same(t, a.c, b.c, "per-scope counter is shared within a request")

		fromCtx, ok := di.ScopeFromContext(ctx.Request.Context())
		require.True(t, ok)
		fromGin, ok := middleware.ScopeFrom(ctx)
		require.True(t, ok)
		assert.Same(t, fromGin, fromCtx)

		ctx.JSON(http.StatusOK, gin.H{"n": a.c.n})
	})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotEqual(t, first.Body.String(), second.Body.String(), "each request gets its own scope")
}

func TestResolve_WithoutScopeMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", func(ctx *gin.Context) {
		_, ok := middleware.ScopeFrom(ctx)
		assert.False(t, ok)

		_, err := middleware.Resolve[*holder](ctx)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, di.ErrNotRegistered))
		assert.True(t, errors.IsResolution(err))
		middleware.RespondWithError(ctx, err)
	})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "NOT_REGISTERED", body.Error.Code)
	assert.Contains(t, body.Error.Details, "hint")
}

func TestScope_NilContainerPanics(t *testing.T) {
	assert.Panics(t, func() { middleware.Scope(nil) })
}

func TestRespondWithError_PlainError(t *testing.T) {
	r := gin.New()
	r.GET("/", func(ctx *gin.Context) {
		middleware.RespondWithError(ctx, stderrors.New("boom"))
	})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"boom"}}`, rr.Body.String())
}

func TestRecovery_Panic(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", &buf)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(log))
	r.GET("/", func(ctx *gin.Context) {
		di.MustResolve[*holder](di.New(di.WithLogger(logger.Nop())))
	})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal server error"}}`, rr.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "NOT_REGISTERED")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Scope(newContainer(t)), middleware.RequestLogger(log))
	r.GET("/missing", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/missing", http.NoBody))
	require.Equal(t, http.StatusNotFound, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "request completed", entry["message"])
	assert.EqualValues(t, 404, entry["status"])
	assert.NotEmpty(t, entry[logger.FieldRequestID])
	assert.NotEmpty(t, entry[logger.FieldScopeID])
}
