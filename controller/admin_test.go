package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/aitoolhub/model"
	"github.com/aitoolhub/aitoolhub/search"
)

func TestBackfillTextBuilderSelection(t *testing.T) {
	tool := &model.Tool{
		Name:        "CodeHelper",
		Description: "AI pair programmer",
		Detail:      "Completes code in the editor.",
		Category:    "coding",
		Tags:        model.JSONStringSlice{"ide", "completion"},
		Pricing:     model.PricingFreemium,
	}

	require.Equal(t, search.BuildShortText(tool), backfillTextBuilder("short")(tool))
	require.Equal(t, search.BuildFullText(tool), backfillTextBuilder("full")(tool))
	// Anything else, including an absent parameter, means the full rendering.
	require.Equal(t, search.BuildFullText(tool), backfillTextBuilder("")(tool))
}
