package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SearchRequests counts search API calls by search type.
var SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aitoolhub",
	Name:      "search_requests_total",
	Help:      "Search requests partitioned by search type.",
}, []string{"type"})

// SearchCacheEvents counts cache interactions: hit, miss, store, sweep.
var SearchCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aitoolhub",
	Name:      "search_cache_events_total",
	Help:      "Search cache events partitioned by event kind.",
}, []string{"event"})

// EmbeddingRequests counts calls to the embedding provider by outcome.
var EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aitoolhub",
	Name:      "embedding_requests_total",
	Help:      "Embedding provider requests partitioned by outcome.",
}, []string{"outcome"})

// EmbeddingRetries counts retry attempts against the embedding provider.
var EmbeddingRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aitoolhub",
	Name:      "embedding_retries_total",
	Help:      "Embedding provider retries partitioned by cause.",
}, []string{"cause"})
