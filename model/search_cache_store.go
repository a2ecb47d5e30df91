package model

import (
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// GetSearchCache returns the live cache entry for a query hash, or nil when
// no entry exists or the stored entry has expired. Expired rows are left in
// place for the sweeper.
func GetSearchCache(queryHash string) (*SearchCache, error) {
	if queryHash == "" {
		return nil, errors.New("query hash is empty")
	}
	var entry SearchCache
	err := DB.First(&entry, "query_hash = ?", queryHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get search cache")
	}
	if time.Now().UnixMilli() >= entry.ExpiresAt {
		return nil, nil
	}
	return &entry, nil
}

// PutSearchCache upserts the cache entry for a query hash. An existing row
// is overwritten in place, resetting HitCount and CreatedAt. Returns the
// entry id.
func PutSearchCache(query string, queryHash string, resultIds []int, embedding []float64, expiresAt time.Time) (int, error) {
	if queryHash == "" {
		return 0, errors.New("query hash is empty")
	}
	now := time.Now().UnixMilli()

	var existing SearchCache
	err := DB.First(&existing, "query_hash = ?", queryHash).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"query":      query,
			"result_ids": JSONIntSlice(resultIds),
			"embedding":  JSONFloat64Slice(embedding),
			"hit_count":  0,
			"created_at": now,
			"expires_at": expiresAt.UnixMilli(),
		}
		if err := DB.Model(&SearchCache{}).Where("id = ?", existing.Id).Updates(updates).Error; err != nil {
			return 0, errors.Wrap(err, "overwrite search cache")
		}
		return existing.Id, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := SearchCache{
			QueryHash: queryHash,
			Query:     query,
			ResultIds: JSONIntSlice(resultIds),
			Embedding: JSONFloat64Slice(embedding),
			HitCount:  0,
			CreatedAt: now,
			ExpiresAt: expiresAt.UnixMilli(),
		}
		if err := DB.Create(&entry).Error; err != nil {
			return 0, errors.Wrap(err, "create search cache")
		}
		return entry.Id, nil
	default:
		return 0, errors.Wrap(err, "lookup search cache")
	}
}

// RecordSearchCacheHit atomically increments an entry's hit counter. It
// errors when the entry no longer exists, e.g. it raced with a sweep.
func RecordSearchCacheHit(id int) error {
	if id <= 0 {
		return errors.New("cache entry id is invalid")
	}
	result := DB.Model(&SearchCache{}).Where("id = ?", id).
		Update("hit_count", gorm.Expr("hit_count + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "record search cache hit")
	}
	if result.RowsAffected == 0 {
		return errors.Errorf("search cache entry %d not found", id)
	}
	return nil
}

// SweepSearchCache deletes every expired entry and returns how many rows
// were removed. Runs on a schedule independent of query traffic.
func SweepSearchCache() (int64, error) {
	result := DB.Where("expires_at <= ?", time.Now().UnixMilli()).Delete(&SearchCache{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "sweep search cache")
	}
	return result.RowsAffected, nil
}

// SearchCacheStats summarizes cache occupancy for the admin API.
type SearchCacheStats struct {
	TotalEntries   int64 `json:"total_entries"`
	ExpiredEntries int64 `json:"expired_entries"`
	TotalHits      int64 `json:"total_hits"`
}

// GetSearchCacheStats reports entry counts and accumulated hits.
func GetSearchCacheStats() (*SearchCacheStats, error) {
	var stats SearchCacheStats
	if err := DB.Model(&SearchCache{}).Count(&stats.TotalEntries).Error; err != nil {
		return nil, errors.Wrap(err, "count search cache")
	}
	now := time.Now().UnixMilli()
	if err := DB.Model(&SearchCache{}).Where("expires_at <= ?", now).Count(&stats.ExpiredEntries).Error; err != nil {
		return nil, errors.Wrap(err, "count expired search cache")
	}
	var hits *int64
	if err := DB.Model(&SearchCache{}).Select("SUM(hit_count)").Scan(&hits).Error; err != nil {
		return nil, errors.Wrap(err, "sum search cache hits")
	}
	if hits != nil {
		stats.TotalHits = *hits
	}
	return &stats, nil
}
