package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"

	"github.com/aitoolhub/aitoolhub/model"
)

// BackfillStore is the persistence surface the backfill needs.
type BackfillStore interface {
	GetToolsWithoutEmbeddings() ([]*model.Tool, error)
	UpdateToolEmbedding(id int, embedding []float64, modelVersion string) error
}

// modelStore adapts the package-level model functions to BackfillStore.
type modelStore struct{}

func (modelStore) GetToolsWithoutEmbeddings() ([]*model.Tool, error) {
	return model.GetToolsWithoutEmbeddings()
}

func (modelStore) UpdateToolEmbedding(id int, embedding []float64, modelVersion string) error {
	return model.UpdateToolEmbedding(id, embedding, modelVersion)
}

// DefaultBackfillStore is backed by the model package.
var DefaultBackfillStore BackfillStore = modelStore{}

// BackfillFailure records a single tool that could not be embedded.
type BackfillFailure struct {
	ToolId   int    `json:"tool_id"`
	ToolName string `json:"tool_name"`
	Error    string `json:"error"`
}

// BackfillReport summarizes a backfill run.
type BackfillReport struct {
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Duration  time.Duration     `json:"duration"`
	Failures  []BackfillFailure `json:"failures"`
}

// Backfill embeds every tool lacking an embedding, strictly sequentially in
// store iteration order. A single tool's failure never aborts the run: it is
// recorded and processing continues after a cooldown. buildText renders a
// tool into its embedding input; tools rendering to blank text are skipped
// without consuming a request.
func (c *Client) Backfill(ctx context.Context, store BackfillStore, buildText func(*model.Tool) string) (*BackfillReport, error) {
	lg := gmw.GetLogger(ctx)
	if store == nil {
		store = DefaultBackfillStore
	}
	if buildText == nil {
		return nil, errors.New("buildText is required")
	}
	if c.apiKey == "" {
		// Total provider outage: surface before any item is attempted.
		return nil, errors.WithStack(ErrMissingAPIKey)
	}

	tools, err := store.GetToolsWithoutEmbeddings()
	if err != nil {
		return nil, errors.Wrap(err, "load tools without embeddings")
	}

	start := time.Now()
	report := &BackfillReport{}
	lg.Info("starting embedding backfill", zap.Int("pending", len(tools)))

	for i, tool := range tools {
		if tool == nil {
			continue
		}
		report.Processed++

		if i > 0 {
			if err := c.sleep(ctx, c.batchItemDelay); err != nil {
				report.Duration = time.Since(start)
				return report, errors.Wrap(err, "backfill interrupted")
			}
		}

		text := buildText(tool)
		if strings.TrimSpace(text) == "" {
			report.Skipped++
			lg.Warn("tool has no embeddable text, skipping",
				zap.Int("tool_id", tool.Id),
				zap.String("tool_name", tool.Name))
			continue
		}

		vector, err := c.Embed(ctx, text)
		if err == nil && len(vector) != c.dimensions {
			err = errors.Wrapf(ErrDimensionality, "want %d components, got %d", c.dimensions, len(vector))
		}
		if err == nil {
			err = store.UpdateToolEmbedding(tool.Id, vector, c.model)
		}
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, BackfillFailure{
				ToolId:   tool.Id,
				ToolName: tool.Name,
				Error:    err.Error(),
			})
			lg.Warn("embedding backfill item failed, continuing",
				zap.Int("tool_id", tool.Id),
				zap.String("tool_name", tool.Name),
				zap.Error(err))
			// Longer cooldown after a failure to avoid cascading rate limits.
			if sleepErr := c.sleep(ctx, c.batchFailureDelay); sleepErr != nil {
				report.Duration = time.Since(start)
				return report, errors.Wrap(sleepErr, "backfill interrupted")
			}
			continue
		}
		report.Succeeded++
	}

	report.Duration = time.Since(start)
	lg.Info("embedding backfill finished",
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))
	return report, nil
}
