package model

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// toolCache memoizes tool-by-id lookups to keep hot detail pages off the
// database. Entries are invalidated on every write path that touches a tool.
var toolCache = gocache.New(5*time.Minute, 10*time.Minute)

func toolCacheKey(id int) string {
	return fmt.Sprintf("tool:%d", id)
}

// CacheGetToolById returns a tool by id, served from the in-process cache
// when possible.
func CacheGetToolById(id int) (*Tool, error) {
	if cached, ok := toolCache.Get(toolCacheKey(id)); ok {
		if tool, ok := cached.(*Tool); ok {
			return tool, nil
		}
	}
	tool, err := GetToolById(id)
	if err != nil {
		return nil, err
	}
	toolCache.SetDefault(toolCacheKey(id), tool)
	return tool, nil
}

func invalidateToolCache(id int) {
	toolCache.Delete(toolCacheKey(id))
}
