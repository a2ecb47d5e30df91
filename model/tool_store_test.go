package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestTool(t *testing.T, name string, category string, pricing string, embedding []float64) *Tool {
	t.Helper()
	tool := &Tool{
		Name:        name,
		Description: name + " description",
		Category:    category,
		Pricing:     pricing,
		Language:    "en",
		Status:      ToolStatusEnabled,
		Embedding:   JSONFloat64Slice(embedding),
	}
	if embedding != nil {
		tool.EmbeddingModel = "gemini-embedding-001"
	}
	require.NoError(t, DB.Create(tool).Error)
	return tool
}

func TestVectorSearchToolsRanksBySimilarity(t *testing.T) {
	setupTestDB(t)

	// Orthogonal unit vectors make the expected ordering unambiguous.
	createTestTool(t, "exact", "image", PricingFree, []float64{1, 0, 0, 0})
	createTestTool(t, "close", "image", PricingFree, []float64{0.9, 0.1, 0, 0})
	createTestTool(t, "far", "image", PricingFree, []float64{0, 0, 1, 0})

	scored, err := VectorSearchTools([]float64{1, 0, 0, 0}, 10, ToolFilters{})
	require.NoError(t, err)
	require.Len(t, scored, 3)
	require.Equal(t, "exact", scored[0].Tool.Name)
	require.Equal(t, "close", scored[1].Tool.Name)
	require.Equal(t, "far", scored[2].Tool.Name)
	require.InDelta(t, 1.0, scored[0].Score, 1e-9)
	require.Greater(t, scored[1].Score, scored[2].Score)
}

func TestVectorSearchToolsAppliesFilters(t *testing.T) {
	setupTestDB(t)

	createTestTool(t, "free image", "image", PricingFree, []float64{1, 0, 0, 0})
	createTestTool(t, "paid image", "image", PricingPaid, []float64{1, 0, 0, 0})
	createTestTool(t, "free text", "text", PricingFree, []float64{1, 0, 0, 0})

	scored, err := VectorSearchTools([]float64{1, 0, 0, 0}, 10, ToolFilters{
		Category: "image",
		Pricing:  PricingFree,
	})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	require.Equal(t, "free image", scored[0].Tool.Name)
}

func TestVectorSearchToolsSkipsMismatchedDimensions(t *testing.T) {
	setupTestDB(t)

	createTestTool(t, "current", "image", PricingFree, []float64{1, 0, 0, 0})
	createTestTool(t, "legacy", "image", PricingFree, []float64{1, 0})

	scored, err := VectorSearchTools([]float64{1, 0, 0, 0}, 10, ToolFilters{})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	require.Equal(t, "current", scored[0].Tool.Name)
}

func TestSearchToolsKeywordMatching(t *testing.T) {
	setupTestDB(t)

	tool := createTestTool(t, "PromptCraft", "writing", PricingFreemium, nil)
	tool.Tags = JSONStringSlice{"prompts", "templates"}
	require.NoError(t, DB.Save(tool).Error)
	createTestTool(t, "OtherTool", "misc", PricingFree, nil)

	found, err := SearchTools("promptcraft", ToolFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "PromptCraft", found[0].Name)

	// Tag content matches too.
	found, err = SearchTools("templates", ToolFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = SearchTools("promptcraft", ToolFilters{Category: "misc"}, 10)
	require.NoError(t, err)
	require.Empty(t, found)

	found, err = SearchTools("   ", ToolFilters{}, 10)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestGetToolsWithoutEmbeddingsOrder(t *testing.T) {
	setupTestDB(t)

	first := createTestTool(t, "first", "misc", PricingFree, nil)
	embedded := createTestTool(t, "embedded", "misc", PricingFree, []float64{1, 0, 0, 0})
	second := createTestTool(t, "second", "misc", PricingFree, nil)

	pending, err := GetToolsWithoutEmbeddings()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, first.Id, pending[0].Id)
	require.Equal(t, second.Id, pending[1].Id)
	for _, tool := range pending {
		require.NotEqual(t, embedded.Id, tool.Id)
	}
}

func TestUpdateToolEmbedding(t *testing.T) {
	setupTestDB(t)

	tool := createTestTool(t, "pending", "misc", PricingFree, nil)
	require.NoError(t, UpdateToolEmbedding(tool.Id, []float64{0.1, 0.2, 0.3, 0.4}, "gemini-embedding-001"))

	reloaded, err := GetToolById(tool.Id)
	require.NoError(t, err)
	require.Equal(t, JSONFloat64Slice{0.1, 0.2, 0.3, 0.4}, reloaded.Embedding)
	require.Equal(t, "gemini-embedding-001", reloaded.EmbeddingModel)

	require.Error(t, UpdateToolEmbedding(99999, []float64{0.1}, "gemini-embedding-001"))
	require.Error(t, UpdateToolEmbedding(tool.Id, nil, "gemini-embedding-001"))
}

func TestReviewAggregates(t *testing.T) {
	setupTestDB(t)

	tool := createTestTool(t, "rated", "misc", PricingFree, nil)

	require.NoError(t, CreateReview(&Review{ToolId: tool.Id, UserName: "ana", Rating: 5, Comment: "great"}))
	review := &Review{ToolId: tool.Id, UserName: "bo", Rating: 3}
	require.NoError(t, CreateReview(review))

	reloaded, err := GetToolById(tool.Id)
	require.NoError(t, err)
	require.Equal(t, 8, reloaded.RatingSum)
	require.Equal(t, 2, reloaded.RatingCount)
	require.InDelta(t, 4.0, reloaded.AverageRating(), 1e-9)

	require.NoError(t, DeleteReview(review.Id))
	reloaded, err = GetToolById(tool.Id)
	require.NoError(t, err)
	require.Equal(t, 5, reloaded.RatingSum)
	require.Equal(t, 1, reloaded.RatingCount)

	require.Error(t, CreateReview(&Review{ToolId: tool.Id, Rating: 6}))
	require.Error(t, CreateReview(&Review{ToolId: 99999, Rating: 4}))
}
