package controller

import (
	"strconv"
	"sync"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/common/metrics"
	"github.com/aitoolhub/aitoolhub/embedding"
	"github.com/aitoolhub/aitoolhub/search"
)

var (
	searchServiceOnce sync.Once
	searchService     *search.Service
	embeddingClient   *embedding.Client
)

func getSearchService() (*search.Service, *embedding.Client) {
	searchServiceOnce.Do(func() {
		embeddingClient = embedding.NewClient()
		searchService = search.NewService(nil, embeddingClient)
	})
	return searchService, embeddingClient
}

// Search dispatches a search request to the semantic, keyword or hybrid
// pipeline. The response is always a (possibly empty) result list; internal
// degradation is visible only through result provenance tags.
func Search(c *gin.Context) {
	lg := gmw.GetLogger(c)
	service, _ := getSearchService()

	query := c.Query("q")
	searchType := c.DefaultQuery("type", "hybrid")
	filters := parseToolFilters(c)
	limit, _ := strconv.Atoi(c.Query("limit"))

	metrics.SearchRequests.WithLabelValues(searchType).Inc()

	var results []search.Result
	switch searchType {
	case "semantic":
		outcome := service.Semantic(c.Request.Context(), query, filters, limit)
		lg.Debug("semantic search served",
			zap.String("path", string(outcome.Path)),
			zap.Int("results", len(outcome.Results)))
		results = outcome.Results
	case "keyword":
		results = service.Keyword(c.Request.Context(), query, filters, limit).Results
	default:
		results = service.Hybrid(c.Request.Context(), query, filters, limit)
	}

	respondSuccess(c, results)
}
