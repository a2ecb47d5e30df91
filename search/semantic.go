package search

import (
	"context"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"

	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/common/metrics"
	"github.com/aitoolhub/aitoolhub/model"
)

// DefaultLimit is used when callers pass a non-positive result limit.
const DefaultLimit = 20

// Service ties the cache, the embedding client and the tool store together.
// Its search methods are total: they always return a result list and never
// propagate collaborator failures to the caller.
type Service struct {
	store      Store
	embedder   Embedder
	cacheTTL   time.Duration
	dimensions int
}

// NewService builds a search service. A nil store falls back to the model
// package.
func NewService(store Store, embedder Embedder) *Service {
	if store == nil {
		store = DefaultStore
	}
	return &Service{
		store:      store,
		embedder:   embedder,
		cacheTTL:   config.SearchCacheTTL,
		dimensions: config.EmbeddingDimensions,
	}
}

// Semantic runs an embedding-based search. A valid cache hit reuses the
// cached query embedding but always re-runs vector search against the
// current filter set, so filter changes never replay a stale id list. Any
// failure on the semantic path degrades to keyword search, and a keyword
// failure degrades to an empty list.
func (s *Service) Semantic(ctx context.Context, query string, filters model.ToolFilters, limit int) Outcome {
	lg := gmw.GetLogger(ctx)
	normalized := Normalize(query)
	if normalized == "" {
		return emptyOutcome()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryHash := CacheKey(normalized, filters)
	entry, err := s.store.GetSearchCache(queryHash)
	if err != nil {
		lg.Warn("search cache lookup failed", zap.String("query_hash", queryHash), zap.Error(err))
		entry = nil
	}

	if entry != nil && len(entry.Embedding) == s.dimensions {
		metrics.SearchCacheEvents.WithLabelValues("hit").Inc()
		// Best effort: an increment lost to a concurrent sweep is telemetry
		// noise, not a search failure.
		if err := s.store.RecordSearchCacheHit(entry.Id); err != nil {
			lg.Warn("record cache hit failed", zap.Int("entry_id", entry.Id), zap.Error(err))
		}
		scored, err := s.store.VectorSearchTools(entry.Embedding, limit, filters)
		if err != nil {
			lg.Warn("vector search with cached embedding failed, falling back to keyword",
				zap.String("query_hash", queryHash), zap.Error(err))
			return s.keywordFallback(ctx, normalized, filters, limit)
		}
		return Outcome{Results: scoredToResults(scored), Path: PathCacheHit}
	}
	metrics.SearchCacheEvents.WithLabelValues("miss").Inc()

	vector, err := s.embedder.Embed(ctx, normalized)
	if err != nil {
		lg.Warn("query embedding failed, falling back to keyword search",
			zap.String("query", normalized), zap.Error(err))
		return s.keywordFallback(ctx, normalized, filters, limit)
	}
	if len(vector) != s.dimensions {
		lg.Warn("query embedding has wrong dimensionality, falling back to keyword search",
			zap.Int("want", s.dimensions), zap.Int("got", len(vector)))
		return s.keywordFallback(ctx, normalized, filters, limit)
	}

	scored, err := s.store.VectorSearchTools(vector, limit, filters)
	if err != nil {
		lg.Warn("vector search failed, falling back to keyword search",
			zap.String("query", normalized), zap.Error(err))
		return s.keywordFallback(ctx, normalized, filters, limit)
	}

	results := scoredToResults(scored)
	resultIds := make([]int, 0, len(results))
	for _, result := range results {
		resultIds = append(resultIds, result.Tool.Id)
	}
	// Storage failure must not fail the search response.
	if _, err := s.store.PutSearchCache(normalized, queryHash, resultIds, vector, time.Now().Add(s.cacheTTL)); err != nil {
		lg.Warn("search cache store failed", zap.String("query_hash", queryHash), zap.Error(err))
	} else {
		metrics.SearchCacheEvents.WithLabelValues("store").Inc()
	}

	return Outcome{Results: results, Path: PathFresh}
}

// Keyword runs a plain keyword search, tagging results accordingly. Like the
// other orchestrator entry points it never errors.
func (s *Service) Keyword(ctx context.Context, query string, filters model.ToolFilters, limit int) Outcome {
	normalized := Normalize(query)
	if normalized == "" {
		return emptyOutcome()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.keywordSearch(ctx, normalized, filters, limit, PathKeyword)
}

// keywordFallback is the degradation target of the semantic path; a direct
// keyword request reports PathKeyword instead so logs and metrics keep the
// two apart.
func (s *Service) keywordFallback(ctx context.Context, normalized string, filters model.ToolFilters, limit int) Outcome {
	return s.keywordSearch(ctx, normalized, filters, limit, PathKeywordFallback)
}

func (s *Service) keywordSearch(ctx context.Context, normalized string, filters model.ToolFilters, limit int, path Path) Outcome {
	lg := gmw.GetLogger(ctx)
	tools, err := s.store.SearchTools(normalized, filters, limit)
	if err != nil {
		lg.Warn("keyword search failed, returning empty results",
			zap.String("query", normalized), zap.Error(err))
		return emptyOutcome()
	}
	results := make([]Result, 0, len(tools))
	for _, tool := range tools {
		if tool == nil {
			continue
		}
		results = append(results, Result{Tool: tool, SearchType: TypeKeyword})
	}
	return Outcome{Results: results, Path: path}
}

func scoredToResults(scored []model.ScoredTool) []Result {
	results := make([]Result, 0, len(scored))
	for _, item := range scored {
		if item.Tool == nil {
			continue
		}
		results = append(results, Result{Tool: item.Tool, Score: item.Score, SearchType: TypeSemantic})
	}
	return results
}
