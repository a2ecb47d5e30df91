package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOtelginRecordsServerSpansPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	engine := gin.New()
	engine.ContextWithFallback = true
	engine.Use(otelgin.Middleware("aitoolhub-test"))
	engine.Use(RequestId())
	engine.Use(Logger())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// Two separate HTTP requests carrying the same distributed trace id.
	// traceparent format: version-traceid-spanid-flags
	const traceparent = "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01"

	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("traceparent", traceparent)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Same trace id propagated in, but a fresh server span per request.
	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, spans[0].SpanContext().TraceID(), spans[1].SpanContext().TraceID())
	require.NotEqual(t, spans[0].SpanContext().SpanID(), spans[1].SpanContext().SpanID())
}
