package controller

import (
	"net/http"
	"strconv"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/model"
)

// ListReviews returns a page of reviews for a tool, newest first.
func ListReviews(c *gin.Context) {
	lg := gmw.GetLogger(c)
	toolID, err := strconv.Atoi(c.Param("id"))
	if err != nil || toolID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid tool id")
		return
	}
	offset, limit := parsePagination(c)
	reviews, err := model.ListReviews(toolID, offset, limit)
	if err != nil {
		lg.Error("list reviews failed", zap.Int("tool_id", toolID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	respondSuccess(c, reviews)
}

// CreateReview adds a review and updates the tool's rating aggregate.
func CreateReview(c *gin.Context) {
	lg := gmw.GetLogger(c)
	toolID, err := strconv.Atoi(c.Param("id"))
	if err != nil || toolID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid tool id")
		return
	}
	var review model.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		respondError(c, http.StatusBadRequest, "invalid review payload")
		return
	}
	review.Id = 0
	review.ToolId = toolID
	if err := model.CreateReview(&review); err != nil {
		lg.Error("create review failed", zap.Int("tool_id", toolID), zap.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondSuccess(c, &review)
}

// DeleteReview removes a review and rolls back its rating contribution.
func DeleteReview(c *gin.Context) {
	lg := gmw.GetLogger(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid review id")
		return
	}
	if err := model.DeleteReview(id); err != nil {
		lg.Error("delete review failed", zap.Int("review_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete review")
		return
	}
	respondSuccess(c, nil)
}
