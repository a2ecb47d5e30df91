package model

import (
	"math"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// ToolSortFields enumerates sortable columns for tool lists.
var ToolSortFields = map[string]string{
	"id":           "id",
	"name":         "name",
	"category":     "category",
	"rating_count": "rating_count",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

func applyToolFilters(query *gorm.DB, filters ToolFilters) *gorm.DB {
	if filters.Language != "" {
		query = query.Where("language = ?", filters.Language)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Pricing != "" {
		query = query.Where("pricing = ?", filters.Pricing)
	}
	return query
}

// ListTools returns enabled tools with filters, pagination and sorting applied.
func ListTools(filters ToolFilters, offset int, limit int, sortBy string, sortOrder string) ([]*Tool, error) {
	query := DB.Model(&Tool{}).Where("status = ?", ToolStatusEnabled)
	query = applyToolFilters(query, filters)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if sortBy == "" {
		sortBy = "id"
	}
	column, ok := ToolSortFields[strings.ToLower(sortBy)]
	if !ok {
		column = "id"
	}
	order := "desc"
	if strings.ToLower(sortOrder) == "asc" {
		order = "asc"
	}
	query = query.Order(column + " " + order)

	var tools []*Tool
	if err := query.Find(&tools).Error; err != nil {
		return nil, errors.Wrap(err, "list tools")
	}
	return tools, nil
}

// CountTools returns the total number of enabled tools matching filters.
func CountTools(filters ToolFilters) (int64, error) {
	query := DB.Model(&Tool{}).Where("status = ?", ToolStatusEnabled)
	query = applyToolFilters(query, filters)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count tools")
	}
	return count, nil
}

// GetToolById fetches a single tool by id.
func GetToolById(id int) (*Tool, error) {
	if id <= 0 {
		return nil, errors.New("tool id is invalid")
	}
	var tool Tool
	if err := DB.First(&tool, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "get tool")
	}
	return &tool, nil
}

// CreateTool inserts a new tool after normalizing its fields.
func CreateTool(tool *Tool) error {
	if tool == nil {
		return errors.New("tool is nil")
	}
	tool.NormalizeFields()
	if tool.Name == "" {
		return errors.New("tool name is required")
	}
	if !ValidPricing(tool.Pricing) {
		return errors.Errorf("invalid pricing tier %q", tool.Pricing)
	}
	if err := DB.Create(tool).Error; err != nil {
		return errors.Wrap(err, "create tool")
	}
	return nil
}

// UpdateTool persists changes to an existing tool.
func UpdateTool(tool *Tool) error {
	if tool == nil || tool.Id <= 0 {
		return errors.New("tool id is invalid")
	}
	tool.NormalizeFields()
	if err := DB.Save(tool).Error; err != nil {
		return errors.Wrap(err, "update tool")
	}
	invalidateToolCache(tool.Id)
	return nil
}

// DeleteTool removes a tool and its reviews.
func DeleteTool(id int) error {
	if id <= 0 {
		return errors.New("tool id is invalid")
	}
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tool_id = ?", id).Delete(&Review{}).Error; err != nil {
			return errors.Wrap(err, "delete tool reviews")
		}
		if err := tx.Delete(&Tool{}, "id = ?", id).Error; err != nil {
			return errors.Wrap(err, "delete tool")
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateToolCache(id)
	return nil
}

// ListToolCategories returns the distinct categories of enabled tools.
func ListToolCategories() ([]string, error) {
	var categories []string
	err := DB.Model(&Tool{}).
		Where("status = ?", ToolStatusEnabled).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list tool categories")
	}
	return categories, nil
}

// SearchTools performs a keyword search over name, description and tags.
// Internal ranking is the database's LIKE-match order; callers treat it as
// opaque.
func SearchTools(term string, filters ToolFilters, limit int) ([]*Tool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(term) + "%"
	query := DB.Model(&Tool{}).
		Where("status = ?", ToolStatusEnabled).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", pattern, pattern, pattern)
	query = applyToolFilters(query, filters)

	var tools []*Tool
	if err := query.Limit(limit).Find(&tools).Error; err != nil {
		return nil, errors.Wrap(err, "search tools")
	}
	return tools, nil
}

// GetToolsWithoutEmbeddings returns enabled tools that have no embedding yet,
// in stable id order.
func GetToolsWithoutEmbeddings() ([]*Tool, error) {
	var tools []*Tool
	err := DB.Model(&Tool{}).
		Where("status = ?", ToolStatusEnabled).
		Where("embedding IS NULL OR embedding = ''").
		Order("id asc").
		Find(&tools).Error
	if err != nil {
		return nil, errors.Wrap(err, "get tools without embeddings")
	}
	return tools, nil
}

// UpdateToolEmbedding persists a tool's embedding and the model version that
// produced it.
func UpdateToolEmbedding(id int, embedding []float64, modelVersion string) error {
	if id <= 0 {
		return errors.New("tool id is invalid")
	}
	if len(embedding) == 0 {
		return errors.New("embedding is empty")
	}
	result := DB.Model(&Tool{}).Where("id = ?", id).Updates(map[string]any{
		"embedding":       JSONFloat64Slice(embedding),
		"embedding_model": modelVersion,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update tool embedding")
	}
	if result.RowsAffected == 0 {
		return errors.Errorf("tool %d not found", id)
	}
	invalidateToolCache(id)
	return nil
}

// ScoredTool couples a tool with its similarity score.
type ScoredTool struct {
	Tool  *Tool
	Score float64
}

// VectorSearchTools ranks tools carrying embeddings by cosine similarity to
// the query vector. Filters are applied in SQL before scoring so a cached
// embedding always ranks against the caller's current filter set.
func VectorSearchTools(vector []float64, limit int, filters ToolFilters) ([]ScoredTool, error) {
	if len(vector) == 0 {
		return nil, errors.New("query vector is empty")
	}
	if limit <= 0 {
		limit = 20
	}

	query := DB.Model(&Tool{}).
		Where("status = ?", ToolStatusEnabled).
		Where("embedding IS NOT NULL AND embedding != ''")
	query = applyToolFilters(query, filters)

	var candidates []*Tool
	if err := query.Find(&candidates).Error; err != nil {
		return nil, errors.Wrap(err, "load embedding candidates")
	}

	scored := make([]ScoredTool, 0, len(candidates))
	for _, tool := range candidates {
		if len(tool.Embedding) != len(vector) {
			// Stale dimensionality from an older embedding model; skip it.
			continue
		}
		scored = append(scored, ScoredTool{Tool: tool, Score: cosineSimilarity(vector, tool.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineSimilarity(a []float64, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
