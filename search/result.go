package search

import "github.com/aitoolhub/aitoolhub/model"

// Search result provenance tags.
const (
	TypeSemantic = "semantic"
	TypeKeyword  = "keyword"
	TypeHybrid   = "hybrid"
)

// Result is a transient search hit: the tool plus its similarity score and
// which retrieval path produced it.
type Result struct {
	*model.Tool
	Score      float64 `json:"_score"`
	SearchType string  `json:"_searchType"`
}

// Path identifies which branch of the orchestrator produced an outcome.
// The outer search API is always the success variant; the path exists for
// observability and tests.
type Path string

const (
	PathCacheHit        Path = "cache_hit"
	PathFresh           Path = "fresh_semantic"
	PathKeyword         Path = "keyword"
	PathKeywordFallback Path = "keyword_fallback"
	PathEmpty           Path = "empty"
)

// Outcome is a semantic search response. Results is never nil.
type Outcome struct {
	Results []Result
	Path    Path
}

func emptyOutcome() Outcome {
	return Outcome{Results: []Result{}, Path: PathEmpty}
}
