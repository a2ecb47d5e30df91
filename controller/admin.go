package controller

import (
	"net/http"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/model"
	"github.com/aitoolhub/aitoolhub/search"
)

// backfillTextBuilder selects the embedding text renderer: the full
// multi-line rendering by default, the compact variant for text=short runs
// where token cost matters more than recall.
func backfillTextBuilder(mode string) func(*model.Tool) string {
	if mode == "short" {
		return search.BuildShortText
	}
	return search.BuildFullText
}

// BackfillEmbeddings embeds every tool currently lacking an embedding and
// returns the per-item report. Runs synchronously; the batch respects the
// provider rate limit, so large catalogs take a while.
func BackfillEmbeddings(c *gin.Context) {
	lg := gmw.GetLogger(c)
	_, client := getSearchService()

	report, err := client.Backfill(c.Request.Context(), nil, backfillTextBuilder(c.Query("text")))
	if err != nil {
		lg.Error("embedding backfill failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondSuccess(c, report)
}

// SweepSearchCache deletes expired cache rows and reports how many went.
func SweepSearchCache(c *gin.Context) {
	lg := gmw.GetLogger(c)
	deleted, err := model.SweepSearchCache()
	if err != nil {
		lg.Error("search cache sweep failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to sweep search cache")
		return
	}
	respondSuccess(c, gin.H{"deleted": deleted})
}

// SearchCacheStats reports cache occupancy and accumulated hit counts.
func SearchCacheStats(c *gin.Context) {
	lg := gmw.GetLogger(c)
	stats, err := model.GetSearchCacheStats()
	if err != nil {
		lg.Error("search cache stats failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to read search cache stats")
		return
	}
	respondSuccess(c, stats)
}
