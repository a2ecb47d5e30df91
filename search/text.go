package search

import (
	"strings"

	"github.com/aitoolhub/aitoolhub/model"
)

// BuildFullText renders a tool into the text submitted to the embedding
// model, one field per line in fixed order. Pure and deterministic so
// identical tool content always yields identical embedding requests.
func BuildFullText(tool *model.Tool) string {
	if tool == nil {
		return ""
	}
	lines := make([]string, 0, 6)
	lines = append(lines, tool.Name, tool.Description)
	if strings.TrimSpace(tool.Detail) != "" {
		lines = append(lines, tool.Detail)
	}
	lines = append(lines, tool.Category)
	if len(tool.Tags) > 0 {
		lines = append(lines, strings.Join(tool.Tags, ", "))
	}
	lines = append(lines, tool.Pricing)
	return strings.Join(lines, "\n")
}

// BuildShortText renders a compact period-joined variant of the tool text,
// used by bulk operations to cut token cost.
func BuildShortText(tool *model.Tool) string {
	if tool == nil {
		return ""
	}
	segments := make([]string, 0, 3)
	segments = append(segments, tool.Name+". "+tool.Description)
	segments = append(segments, tool.Category)
	if len(tool.Tags) > 0 {
		segments = append(segments, strings.Join(tool.Tags, ", "))
	}
	return strings.Join(segments, ". ")
}
