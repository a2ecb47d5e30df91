package model

import (
	"strings"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
)

// Review is a user rating and comment for a tool. Identity resolution lives
// outside this service, so reviews carry a caller-supplied display name.
type Review struct {
	Id        int    `json:"id"`
	ToolId    int    `json:"tool_id" gorm:"index"`
	UserName  string `json:"user_name" gorm:"type:varchar(64)"`
	Rating    int    `json:"rating" gorm:"type:int"`
	Comment   string `json:"comment" gorm:"type:text"`
	CreatedAt int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

// ListReviews returns reviews for a tool, newest first.
func ListReviews(toolID int, offset int, limit int) ([]*Review, error) {
	if toolID <= 0 {
		return nil, errors.New("tool id is invalid")
	}
	query := DB.Model(&Review{}).Where("tool_id = ?", toolID).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var reviews []*Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}

// CreateReview inserts a review and updates the tool's rating aggregate in
// the same transaction.
func CreateReview(review *Review) error {
	if review == nil {
		return errors.New("review is nil")
	}
	review.UserName = strings.TrimSpace(review.UserName)
	review.Comment = strings.TrimSpace(review.Comment)
	if review.ToolId <= 0 {
		return errors.New("tool id is invalid")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return errors.Errorf("rating %d out of range", review.Rating)
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		var tool Tool
		if err := tx.First(&tool, "id = ?", review.ToolId).Error; err != nil {
			return errors.Wrap(err, "load reviewed tool")
		}
		if err := tx.Create(review).Error; err != nil {
			return errors.Wrap(err, "create review")
		}
		updates := map[string]any{
			"rating_sum":   gorm.Expr("rating_sum + ?", review.Rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		}
		if err := tx.Model(&Tool{}).Where("id = ?", review.ToolId).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update rating aggregate")
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateToolCache(review.ToolId)
	return nil
}

// DeleteReview removes a review and rolls its rating out of the aggregate.
func DeleteReview(id int) error {
	if id <= 0 {
		return errors.New("review id is invalid")
	}
	var toolID int
	err := DB.Transaction(func(tx *gorm.DB) error {
		var review Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			return errors.Wrap(err, "load review")
		}
		toolID = review.ToolId
		if err := tx.Delete(&Review{}, "id = ?", id).Error; err != nil {
			return errors.Wrap(err, "delete review")
		}
		updates := map[string]any{
			"rating_sum":   gorm.Expr("rating_sum - ?", review.Rating),
			"rating_count": gorm.Expr("rating_count - 1"),
		}
		if err := tx.Model(&Tool{}).Where("id = ?", review.ToolId).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update rating aggregate")
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateToolCache(toolID)
	return nil
}
