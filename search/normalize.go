// Package search implements the semantic and hybrid search pipeline: query
// normalization and hashing, embedding text construction, the cached
// semantic orchestrator and the hybrid merge.
package search

import (
	"strconv"
	"strings"

	"github.com/aitoolhub/aitoolhub/model"
)

// Normalize canonicalizes a query: trimmed, lowercased, internal whitespace
// runs collapsed to single spaces. Idempotent.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// HashKey reduces a key to a compact deterministic hash: djb2 over the
// key's code points, truncated to 32 bits and rendered in base 36. Not
// cryptographic; collisions are cache-correctness bugs, not security ones.
func HashKey(key string) string {
	var hash uint32 = 5381
	for _, r := range key {
		hash = hash*33 + uint32(r)
	}
	return strconv.FormatUint(uint64(hash), 36)
}

// CacheKey hashes the composite of a normalized query and its filter set.
// Fields are serialized in a fixed order so identical combinations always
// collide to the same hash and differing filters never share one for the
// same query text.
func CacheKey(query string, filters model.ToolFilters) string {
	var b strings.Builder
	b.WriteString("query=")
	b.WriteString(Normalize(query))
	b.WriteString("&language=")
	b.WriteString(filters.Language)
	b.WriteString("&category=")
	b.WriteString(filters.Category)
	b.WriteString("&pricing=")
	b.WriteString(filters.Pricing)
	return HashKey(b.String())
}
