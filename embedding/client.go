// Package embedding calls the Gemini embedding API and enforces the fixed
// output dimensionality every persisted vector must carry.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"

	"github.com/aitoolhub/aitoolhub/common/client"
	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/common/helper"
	"github.com/aitoolhub/aitoolhub/common/metrics"
)

// Failure taxonomy. The client is the only layer that raises to its caller;
// orchestrators convert these into fallback paths.
var (
	ErrEmptyInput     = errors.New("embedding input is empty")
	ErrMissingAPIKey  = errors.New("GEMINI_API_KEY is not configured")
	ErrRateLimited    = errors.New("embedding provider rate limit exceeded")
	ErrNetwork        = errors.New("embedding provider unreachable")
	ErrAuth           = errors.New("embedding provider rejected the API key; check GEMINI_API_KEY")
	ErrDimensionality = errors.New("embedding has unexpected dimensionality")
)

// Retry policy constants. Rate-limit retries back off exponentially from the
// base delay; network retries use a fixed delay.
const (
	maxRateLimitRetries = 3
	maxNetworkRetries   = 2

	rateLimitBaseDelay = 15 * time.Second
	networkRetryDelay  = 5 * time.Second
)

// taskTypeSemanticSimilarity is the Gemini task mode used for all search
// embeddings so query and document vectors stay comparable.
const taskTypeSemanticSimilarity = "SEMANTIC_SIMILARITY"

// embedContentRequest is the request body of models/*:embedContent.
type embedContentRequest struct {
	Model                string      `json:"model"`
	Content              chatContent `json:"content"`
	TaskType             string      `json:"taskType"`
	OutputDimensionality int         `json:"outputDimensionality"`
}

type chatContent struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedContentResponse struct {
	Embedding *contentEmbedding `json:"embedding,omitempty"`
	Error     *apiError         `json:"error,omitempty"`
}

type contentEmbedding struct {
	Values []float64 `json:"values"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Client talks to the embedding provider. Zero value is not usable; build
// one with NewClient.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error

	// batchItemDelay spaces sequential batch requests; batchFailureDelay is
	// the cooldown after a rate-limited item.
	batchItemDelay    time.Duration
	batchFailureDelay time.Duration
}

// NewClient builds a Client from configuration.
func NewClient() *Client {
	httpClient := client.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:            config.GeminiAPIKey,
		baseURL:           strings.TrimRight(config.EmbeddingBaseURL, "/"),
		model:             config.EmbeddingModel,
		dimensions:        config.EmbeddingDimensions,
		httpClient:        httpClient,
		sleep:             sleepContext,
		batchItemDelay:    config.EmbeddingBatchItemDelay,
		batchFailureDelay: config.EmbeddingBatchFailureDelay,
	}
}

// ModelVersion returns the provider model identifier stamped onto every
// persisted embedding.
func (c *Client) ModelVersion() string {
	return c.model
}

// Dimensions returns the enforced output dimensionality.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Embed generates an embedding for a single text. Blank input, a missing
// credential and authentication failures are surfaced immediately;
// rate-limit and network failures are retried per policy before being
// surfaced.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	lg := gmw.GetLogger(ctx)
	if strings.TrimSpace(text) == "" {
		return nil, errors.WithStack(ErrEmptyInput)
	}
	if c.apiKey == "" {
		return nil, errors.WithStack(ErrMissingAPIKey)
	}

	rateLimitRetries := 0
	networkRetries := 0
	for {
		vector, err := c.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}

		switch {
		case errors.Is(err, ErrRateLimited):
			if rateLimitRetries >= maxRateLimitRetries {
				metrics.EmbeddingRequests.WithLabelValues("rate_limited").Inc()
				return nil, err
			}
			delay := rateLimitBaseDelay << rateLimitRetries
			rateLimitRetries++
			metrics.EmbeddingRetries.WithLabelValues("rate_limit").Inc()
			lg.Warn("embedding rate limited, backing off",
				zap.Duration("delay", delay),
				zap.Int("attempt", rateLimitRetries),
				zap.Int("max_attempts", maxRateLimitRetries))
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				return nil, errors.Wrap(sleepErr, "backoff interrupted")
			}
		case errors.Is(err, ErrNetwork):
			if networkRetries >= maxNetworkRetries {
				metrics.EmbeddingRequests.WithLabelValues("network_error").Inc()
				return nil, err
			}
			networkRetries++
			metrics.EmbeddingRetries.WithLabelValues("network").Inc()
			lg.Warn("embedding request failed on network error, retrying",
				zap.Duration("delay", networkRetryDelay),
				zap.Int("attempt", networkRetries),
				zap.Int("max_attempts", maxNetworkRetries))
			if sleepErr := c.sleep(ctx, networkRetryDelay); sleepErr != nil {
				return nil, errors.Wrap(sleepErr, "retry wait interrupted")
			}
		case errors.Is(err, ErrAuth):
			metrics.EmbeddingRequests.WithLabelValues("auth_error").Inc()
			return nil, err
		default:
			metrics.EmbeddingRequests.WithLabelValues("error").Inc()
			lg.Error("embedding request failed",
				zap.String("model", c.model),
				zap.String("api_key", helper.MaskAPIKey(c.apiKey)),
				zap.Error(err))
			return nil, errors.Wrap(err, "generate embedding")
		}
	}
}

// EmbedBatch generates embeddings for texts strictly sequentially to respect
// the provider's shared rate limit. Blank texts and per-item failures yield a
// zero-length placeholder at that index; the batch never aborts early on an
// item. A rate-limited item triggers the longer cooldown before the batch
// continues.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	lg := gmw.GetLogger(ctx)
	if c.apiKey == "" {
		return nil, errors.WithStack(ErrMissingAPIKey)
	}

	results := make([][]float64, len(texts))
	requested := false
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			// No request slot consumed, no delay inserted.
			results[i] = []float64{}
			continue
		}

		if requested {
			if err := c.sleep(ctx, c.batchItemDelay); err != nil {
				return results, errors.Wrap(err, "batch delay interrupted")
			}
		}
		requested = true

		vector, err := c.embedOnce(ctx, text)
		if err != nil {
			lg.Warn("batch embedding item failed, continuing",
				zap.Int("index", i),
				zap.Error(err))
			results[i] = []float64{}
			if errors.Is(err, ErrRateLimited) {
				if sleepErr := c.sleep(ctx, c.batchFailureDelay); sleepErr != nil {
					return results, errors.Wrap(sleepErr, "rate limit cooldown interrupted")
				}
			}
			continue
		}
		results[i] = vector
	}
	return results, nil
}

// embedOnce performs a single provider request and classifies any failure.
func (c *Client) embedOnce(ctx context.Context, text string) ([]float64, error) {
	payload := embedContentRequest{
		Model:                fmt.Sprintf("models/%s", c.model),
		Content:              chatContent{Parts: []part{{Text: text}}},
		TaskType:             taskTypeSemanticSimilarity,
		OutputDimensionality: c.dimensions,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal embedding request")
	}

	url := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(err, "embedding request aborted")
		}
		return nil, errors.Wrapf(ErrNetwork, "%v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrNetwork, "read embedding response: %v", err)
	}

	// Status-code classes come first: a proxy or load balancer may replace
	// the provider's JSON error body with plain text or nothing at all.
	if kind := classifyFailure(resp.StatusCode, nil); kind != nil {
		return nil, errors.Wrapf(kind, "status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var decoded embedContentResponse
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return nil, errors.Wrapf(err, "unmarshal embedding response (status %d)", resp.StatusCode)
	}

	if kind := classifyFailure(resp.StatusCode, decoded.Error); kind != nil {
		if decoded.Error != nil {
			return nil, errors.Wrapf(kind, "%s", decoded.Error.Message)
		}
		return nil, errors.Wrapf(kind, "status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("embedding request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	if decoded.Embedding == nil || len(decoded.Embedding.Values) != c.dimensions {
		got := 0
		if decoded.Embedding != nil {
			got = len(decoded.Embedding.Values)
		}
		return nil, errors.Wrapf(ErrDimensionality, "want %d components, got %d", c.dimensions, got)
	}

	metrics.EmbeddingRequests.WithLabelValues("ok").Inc()
	return decoded.Embedding.Values, nil
}

// classifyFailure maps provider status codes and error payloads onto the
// failure taxonomy. Only 429/RESOURCE_EXHAUSTED and 401/credential errors
// receive special handling; everything else is a generic failure.
func classifyFailure(statusCode int, apiErr *apiError) error {
	if statusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if statusCode == http.StatusUnauthorized {
		return ErrAuth
	}
	if apiErr == nil {
		return nil
	}
	if apiErr.Status == "RESOURCE_EXHAUSTED" {
		return ErrRateLimited
	}
	message := strings.ToLower(apiErr.Message)
	if strings.Contains(message, "api key") || strings.Contains(message, "unauthenticated") {
		return ErrAuth
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
