package model

import "strings"

// Pricing tiers a tool can be listed under.
const (
	PricingFree     = "free"
	PricingFreemium = "freemium"
	PricingPaid     = "paid"
)

// Tool statuses.
const (
	ToolStatusEnabled  = 1
	ToolStatusDisabled = 2
)

// Tool is a directory entry for an AI tool.
type Tool struct {
	Id             int              `json:"id"`
	Name           string           `json:"name" gorm:"type:varchar(128);index"`
	Description    string           `json:"description" gorm:"type:text"`
	Detail         string           `json:"detail,omitempty" gorm:"type:text"`
	Category       string           `json:"category" gorm:"type:varchar(64);index"`
	Tags           JSONStringSlice  `json:"tags" gorm:"type:text"`
	Pricing        string           `json:"pricing" gorm:"type:varchar(16);index"`
	Language       string           `json:"language" gorm:"type:varchar(8);index;default:en"`
	Website        string           `json:"website,omitempty" gorm:"type:varchar(512)"`
	Logo           string           `json:"logo,omitempty" gorm:"type:varchar(512)"`
	Embedding      JSONFloat64Slice `json:"-" gorm:"type:text"`
	EmbeddingModel string           `json:"-" gorm:"type:varchar(64)"`
	RatingSum      int              `json:"rating_sum" gorm:"default:0"`
	RatingCount    int              `json:"rating_count" gorm:"default:0"`
	Status         int              `json:"status" gorm:"type:int;default:1"`
	CreatedAt      int64            `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt      int64            `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

// ValidPricing reports whether tier is a known pricing tier.
func ValidPricing(tier string) bool {
	switch tier {
	case PricingFree, PricingFreemium, PricingPaid:
		return true
	}
	return false
}

// NormalizeFields trims whitespace on user-provided text fields.
func (t *Tool) NormalizeFields() {
	if t == nil {
		return
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Detail = strings.TrimSpace(t.Detail)
	t.Category = strings.TrimSpace(t.Category)
	t.Pricing = strings.ToLower(strings.TrimSpace(t.Pricing))
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
}

// AverageRating returns the review average, or 0 when unrated.
func (t *Tool) AverageRating() float64 {
	if t == nil || t.RatingCount == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.RatingCount)
}

// ToolFilters narrows tool queries. Zero-valued fields are ignored.
type ToolFilters struct {
	Language string `json:"language,omitempty" form:"language"`
	Category string `json:"category,omitempty" form:"category"`
	Pricing  string `json:"pricing,omitempty" form:"pricing"`
}
