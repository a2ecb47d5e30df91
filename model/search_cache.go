package model

// SearchCache stores a semantic search result keyed by the hash of the
// normalized query plus its filter set. At most one live row exists per
// hash: writes for an existing hash overwrite in place and reset HitCount.
// Validity is evaluated at read time; expired rows persist until a sweep.
type SearchCache struct {
	Id        int              `json:"id"`
	QueryHash string           `json:"query_hash" gorm:"type:varchar(32);uniqueIndex"`
	Query     string           `json:"query" gorm:"type:text"`
	ResultIds JSONIntSlice     `json:"result_ids" gorm:"type:text"`
	Embedding JSONFloat64Slice `json:"-" gorm:"type:text"`
	HitCount  int              `json:"hit_count" gorm:"default:0"`
	CreatedAt int64            `json:"created_at" gorm:"bigint"`
	ExpiresAt int64            `json:"expires_at" gorm:"bigint;index"`
}
