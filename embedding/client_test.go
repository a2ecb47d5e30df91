package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/aitoolhub/common/logger"
)

func TestMain(m *testing.M) {
	logger.SetupLogger()
	os.Exit(m.Run())
}

func testCtx() context.Context {
	return gmw.SetLogger(context.Background(), logger.Logger)
}

// newTestClient points a client at the given server and records every sleep
// instead of waiting.
func newTestClient(serverURL string, sleeps *[]time.Duration) *Client {
	return &Client{
		apiKey:     "test-key-0123456789",
		baseURL:    serverURL,
		model:      "gemini-embedding-001",
		dimensions: 768,
		httpClient: http.DefaultClient,
		sleep: func(ctx context.Context, d time.Duration) error {
			if sleeps != nil {
				*sleeps = append(*sleeps, d)
			}
			return nil
		},
		batchItemDelay:    200 * time.Millisecond,
		batchFailureDelay: 60 * time.Second,
	}
}

func embeddingHandler(dims int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := make([]float64, dims)
		for i := range values {
			values[i] = 0.01 * float64(i%7)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": values},
		})
	}
}

func TestEmbedSuccess(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		embeddingHandler(768)(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	vector, err := client.Embed(testCtx(), "an image generation tool")
	require.NoError(t, err)
	require.Len(t, vector, 768)

	// The wire request carries the semantic-similarity task mode and the
	// fixed output dimensionality.
	require.Equal(t, "SEMANTIC_SIMILARITY", gotBody["taskType"])
	require.EqualValues(t, 768, gotBody["outputDimensionality"])
	require.Equal(t, "models/gemini-embedding-001", gotBody["model"])
}

func TestEmbedRejectsBlankInput(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := client.Embed(testCtx(), input)
		require.ErrorIs(t, err, ErrEmptyInput)
	}
	require.Zero(t, requests, "blank input must fail before any request")
}

func TestEmbedRequiresAPIKey(t *testing.T) {
	client := newTestClient("http://unused", nil)
	client.apiKey = ""
	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestEmbedDimensionalityValidation(t *testing.T) {
	for _, dims := range []int{767, 769} {
		server := httptest.NewServer(embeddingHandler(dims))
		var sleeps []time.Duration
		client := newTestClient(server.URL, &sleeps)

		_, err := client.Embed(testCtx(), "text")
		require.ErrorIs(t, err, ErrDimensionality)
		require.Empty(t, sleeps, "dimensionality failures must not be retried")
		server.Close()
	}

	server := httptest.NewServer(embeddingHandler(768))
	defer server.Close()
	client := newTestClient(server.URL, nil)
	vector, err := client.Embed(testCtx(), "text")
	require.NoError(t, err)
	require.Len(t, vector, 768)
}

func TestEmbedRateLimitBackoff(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrRateLimited)

	// Initial attempt plus exactly three retries, backed off 15s/30s/60s.
	require.Equal(t, 4, attempts)
	require.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second}, sleeps)
}

func TestEmbedPlainTextRateLimitClassifiedByStatus(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		// A proxy in front of the provider answers with text, not JSON.
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("Too Many Requests"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrRateLimited)

	require.Equal(t, 4, attempts)
	require.Equal(t, []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second}, sleeps)
}

func TestEmbedPlainTextAuthErrorClassifiedByStatus(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrAuth)

	require.Equal(t, 1, attempts)
	require.Empty(t, sleeps)
}

func TestEmbedResourceExhaustedBodyTreatedAsRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 8, "message": "resource exhausted", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)
	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrRateLimited)
	require.Len(t, sleeps, 3)
}

func TestEmbedAuthErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"},
		})
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)
	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrAuth)
	require.Equal(t, 1, attempts)
	require.Empty(t, sleeps)
}

func TestEmbedNetworkErrorRetried(t *testing.T) {
	// A closed server refuses connections, which classifies as a network
	// failure.
	server := httptest.NewServer(embeddingHandler(768))
	server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)
	_, err := client.Embed(testCtx(), "text")
	require.ErrorIs(t, err, ErrNetwork)
	require.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sleeps)
}

func TestEmbedBatchSkipsBlankAndContinuesOnFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		var body embedContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Content.Parts[0].Text == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
			return
		}
		embeddingHandler(768)(w, r)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	results, err := client.EmbedBatch(testCtx(), []string{"first", "  ", "broken", "last"})
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.Len(t, results[0], 768)
	require.Empty(t, results[1], "blank text yields a placeholder without a request")
	require.Empty(t, results[2], "failed item yields a placeholder")
	require.Len(t, results[3], 768)

	// Three real requests; the blank entry consumed no slot. Two inter-item
	// delays: one before "broken", one before "last".
	require.Equal(t, 3, attempts)
	require.Equal(t, []time.Duration{200 * time.Millisecond, 200 * time.Millisecond}, sleeps)
}

func TestEmbedBatchRateLimitCooldown(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"slow down","status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		embeddingHandler(768)(w, r)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	results, err := client.EmbedBatch(testCtx(), []string{"one", "two"})
	require.NoError(t, err)
	require.Empty(t, results[0], "rate-limited item becomes a placeholder, not a retry loop")
	require.Len(t, results[1], 768)

	// Cooldown after the rate-limited item, then the inter-item delay.
	require.Equal(t, []time.Duration{60 * time.Second, 200 * time.Millisecond}, sleeps)
}

func TestEmbedBatchRequiresAPIKey(t *testing.T) {
	client := newTestClient("http://unused", nil)
	client.apiKey = ""
	_, err := client.EmbedBatch(testCtx(), []string{"one"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
