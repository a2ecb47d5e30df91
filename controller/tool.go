package controller

import (
	"net/http"
	"strconv"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/aitoolhub/model"
)

func respondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    data,
	})
}

func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

func parsePagination(c *gin.Context) (offset int, limit int) {
	page, _ := strconv.Atoi(c.Query("p"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("size"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

func parseToolFilters(c *gin.Context) model.ToolFilters {
	return model.ToolFilters{
		Language: c.Query("language"),
		Category: c.Query("category"),
		Pricing:  c.Query("pricing"),
	}
}

// ListTools returns a page of tools with filters applied.
func ListTools(c *gin.Context) {
	lg := gmw.GetLogger(c)
	offset, limit := parsePagination(c)
	filters := parseToolFilters(c)

	tools, err := model.ListTools(filters, offset, limit, c.Query("sort_by"), c.Query("sort_order"))
	if err != nil {
		lg.Error("list tools failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list tools")
		return
	}
	total, err := model.CountTools(filters)
	if err != nil {
		lg.Error("count tools failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to count tools")
		return
	}
	respondSuccess(c, gin.H{
		"items": tools,
		"total": total,
	})
}

// GetTool returns one tool by id, served through the in-process cache.
func GetTool(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid tool id")
		return
	}
	tool, err := model.CacheGetToolById(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "tool not found")
		return
	}
	respondSuccess(c, tool)
}

// CreateTool registers a new directory entry.
func CreateTool(c *gin.Context) {
	lg := gmw.GetLogger(c)
	var tool model.Tool
	if err := c.ShouldBindJSON(&tool); err != nil {
		respondError(c, http.StatusBadRequest, "invalid tool payload")
		return
	}
	tool.Id = 0
	tool.Status = model.ToolStatusEnabled
	if err := model.CreateTool(&tool); err != nil {
		lg.Error("create tool failed", zap.String("name", tool.Name), zap.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondSuccess(c, &tool)
}

// UpdateTool replaces an existing tool's fields.
func UpdateTool(c *gin.Context) {
	lg := gmw.GetLogger(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid tool id")
		return
	}
	existing, err := model.GetToolById(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "tool not found")
		return
	}
	var tool model.Tool
	if err := c.ShouldBindJSON(&tool); err != nil {
		respondError(c, http.StatusBadRequest, "invalid tool payload")
		return
	}
	tool.Id = existing.Id
	tool.CreatedAt = existing.CreatedAt
	tool.RatingSum = existing.RatingSum
	tool.RatingCount = existing.RatingCount
	if err := model.UpdateTool(&tool); err != nil {
		lg.Error("update tool failed", zap.Int("tool_id", id), zap.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondSuccess(c, &tool)
}

// DeleteTool removes a tool and its reviews.
func DeleteTool(c *gin.Context) {
	lg := gmw.GetLogger(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid tool id")
		return
	}
	if err := model.DeleteTool(id); err != nil {
		lg.Error("delete tool failed", zap.Int("tool_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete tool")
		return
	}
	respondSuccess(c, nil)
}

// ListCategories returns the distinct categories of enabled tools.
func ListCategories(c *gin.Context) {
	lg := gmw.GetLogger(c)
	categories, err := model.ListToolCategories()
	if err != nil {
		lg.Error("list categories failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondSuccess(c, categories)
}
