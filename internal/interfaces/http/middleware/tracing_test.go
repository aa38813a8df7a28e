package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanCarriesRequestAndActor(t *testing.T) {
	recorder := setupTestTracer(t)
	verifier := newTestVerifier()
	userID := uuid.New()
	token, err := verifier.SignAccessToken(userID, identity.RoleCustomer, time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.Use(
		Tracing("storefront-test", true),
		RequestID(),
		JWTAuthMiddleware(JWTMiddlewareConfig{Verifier: verifier}),
		TracingAttributeInjector(),
	)
	router.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/orders/:id")

	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-123", v.AsString())
	v, ok = spanAttr(spans[0], "actor_id")
	require.True(t, ok)
	assert.Equal(t, userID.String(), v.AsString())
}

func TestTracing_Disabled(t *testing.T) {
	recorder := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing("storefront-test", false), TracingAttributeInjector())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, recorder.Ended())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		errorCode  string
		wantStatus codes.Code
	}{
		{"server error marks span", http.StatusInternalServerError, "INTERNAL_ERROR", codes.Error},
		{"client error keeps span ok", http.StatusConflict, "INSUFFICIENT_STOCK", codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing("storefront-test", true), SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) {
				c.Set(ErrorCodeKey, tt.errorCode)
				c.Status(tt.status)
			})
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
			v, ok := spanAttr(spans[0], "error.code")
			require.True(t, ok)
			assert.Equal(t, tt.errorCode, v.AsString())
		})
	}
}
