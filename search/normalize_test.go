package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/aitoolhub/model"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "foo bar", Normalize("  Foo   BAR "))
	require.Equal(t, Normalize("foo bar"), Normalize("  Foo   BAR "))
	require.Equal(t, "", Normalize("   \t\n "))
	require.Equal(t, "a b c", Normalize("A\tB\n\nC"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  Foo   BAR ", "already normal", "MiXeD\t\tCase  Words", ""}
	for _, input := range inputs {
		once := Normalize(input)
		require.Equal(t, once, Normalize(once))
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	require.Equal(t, HashKey("chatgpt alternatives"), HashKey("chatgpt alternatives"))
	require.NotEqual(t, HashKey("abc"), HashKey("acb"), "hash must be order sensitive")
}

func TestHashKeyCollisionFree(t *testing.T) {
	// No strict uniqueness guarantee, but the hash must not collide over a
	// representative corpus.
	seen := make(map[string]string, 2000)
	for i := range 1000 {
		for _, prefix := range []string{"image generation tool ", "code assistant "} {
			key := fmt.Sprintf("%s%d", prefix, i)
			hash := HashKey(key)
			if prev, ok := seen[hash]; ok {
				t.Fatalf("hash collision: %q and %q both map to %s", prev, key, hash)
			}
			seen[hash] = key
		}
	}
}

func TestCacheKeyFilterSensitivity(t *testing.T) {
	base := CacheKey("x", model.ToolFilters{Category: "A"})
	require.NotEqual(t, base, CacheKey("x", model.ToolFilters{Category: "B"}))
	require.NotEqual(t, base, CacheKey("x", model.ToolFilters{Category: "A", Pricing: model.PricingFree}))
	require.NotEqual(t, base, CacheKey("x", model.ToolFilters{Category: "A", Language: "de"}))
	require.NotEqual(t, base, CacheKey("y", model.ToolFilters{Category: "A"}))

	// Identical combinations always collide to the same hash, including
	// query normalization.
	require.Equal(t, base, CacheKey("  X ", model.ToolFilters{Category: "A"}))
}
