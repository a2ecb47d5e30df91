package search

import (
	"context"
	"time"

	"github.com/aitoolhub/aitoolhub/model"
)

// Store is the persistence surface the orchestrators depend on: vector and
// keyword retrieval plus the search result cache.
type Store interface {
	VectorSearchTools(vector []float64, limit int, filters model.ToolFilters) ([]model.ScoredTool, error)
	SearchTools(term string, filters model.ToolFilters, limit int) ([]*model.Tool, error)
	GetSearchCache(queryHash string) (*model.SearchCache, error)
	PutSearchCache(query string, queryHash string, resultIds []int, embedding []float64, expiresAt time.Time) (int, error)
	RecordSearchCacheHit(id int) error
}

// Embedder generates query embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// modelStore adapts the package-level model functions to Store.
type modelStore struct{}

func (modelStore) VectorSearchTools(vector []float64, limit int, filters model.ToolFilters) ([]model.ScoredTool, error) {
	return model.VectorSearchTools(vector, limit, filters)
}

func (modelStore) SearchTools(term string, filters model.ToolFilters, limit int) ([]*model.Tool, error) {
	return model.SearchTools(term, filters, limit)
}

func (modelStore) GetSearchCache(queryHash string) (*model.SearchCache, error) {
	return model.GetSearchCache(queryHash)
}

func (modelStore) PutSearchCache(query string, queryHash string, resultIds []int, embedding []float64, expiresAt time.Time) (int, error) {
	return model.PutSearchCache(query, queryHash, resultIds, embedding, expiresAt)
}

func (modelStore) RecordSearchCacheHit(id int) error {
	return model.RecordSearchCacheHit(id)
}

// DefaultStore is backed by the model package.
var DefaultStore Store = modelStore{}
