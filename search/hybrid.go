package search

import (
	"context"
	"sort"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aitoolhub/aitoolhub/model"
)

// keywordOnlyScore is assigned to results found only by keyword search so
// they rank below strong semantic matches but above weak ones.
const keywordOnlyScore = 0.5

// Hybrid runs semantic and keyword search concurrently, merges them by tool
// id and ranks by score. Semantic is asked for twice the limit so the merge
// has more candidates to choose from. Never errors: a failed branch simply
// contributes nothing, and two failed branches yield an empty list.
func (s *Service) Hybrid(ctx context.Context, query string, filters model.ToolFilters, limit int) []Result {
	lg := gmw.GetLogger(ctx)
	normalized := Normalize(query)
	if normalized == "" {
		return []Result{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var semantic Outcome
	var keyword []*model.Tool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		semantic = s.Semantic(gctx, normalized, filters, 2*limit)
		return nil
	})
	g.Go(func() error {
		tools, err := s.store.SearchTools(normalized, filters, limit)
		if err != nil {
			lg.Warn("keyword branch of hybrid search failed",
				zap.String("query", normalized), zap.Error(err))
			return nil
		}
		keyword = tools
		return nil
	})
	// Both branches swallow their own failures.
	_ = g.Wait()

	return MergeResults(semantic.Results, keyword, limit)
}

// MergeResults folds keyword hits into the semantic result set: unseen tools
// join with the keyword-only score, overlapping tools keep their semantic
// score but are retagged hybrid. The merged set is sorted by score
// descending (missing scores rank as 0) and truncated to limit.
func MergeResults(semantic []Result, keyword []*model.Tool, limit int) []Result {
	merged := make([]Result, 0, len(semantic)+len(keyword))
	index := make(map[int]int, len(semantic))

	for _, result := range semantic {
		if result.Tool == nil {
			continue
		}
		result.SearchType = TypeSemantic
		index[result.Tool.Id] = len(merged)
		merged = append(merged, result)
	}
	for _, tool := range keyword {
		if tool == nil {
			continue
		}
		if at, ok := index[tool.Id]; ok {
			merged[at].SearchType = TypeHybrid
			continue
		}
		index[tool.Id] = len(merged)
		merged = append(merged, Result{Tool: tool, Score: keywordOnlyScore, SearchType: TypeKeyword})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
