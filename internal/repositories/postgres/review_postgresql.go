package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
)

type ReviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{db: db}
}

// Create inserts a review. A second review for the same (bootcamp, user)
// pair surfaces as a duplicate-key error from the composite unique index.
func (r *ReviewPostgreSQL) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *ReviewPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Bootcamp", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description")
		}).
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) List(ctx context.Context, q query.Query) ([]*models.Review, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Review{})
	db = q.ApplyFilter(db, reviewFields)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*models.Review
	// bootcamp_id survives any projection so the preload can resolve.
	err := q.ApplyShaping(db, reviewFields, "bootcamp_id").
		Preload("Bootcamp", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description")
		}).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewPostgreSQL) ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Where("bootcamp_id = ?", bootcampID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// AverageRating computes the mean rating across a bootcamp's reviews.
// Returns nil when the bootcamp has no reviews.
func (r *ReviewPostgreSQL) AverageRating(ctx context.Context, bootcampID uint) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating)").
		Where("bootcamp_id = ?", bootcampID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rating: %w", err)
	}
	return avg, nil
}

func (r *ReviewPostgreSQL) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error; err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

func (r *ReviewPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Review{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// DeleteByBootcamp removes all reviews of one bootcamp (cascade step).
func (r *ReviewPostgreSQL) DeleteByBootcamp(ctx context.Context, bootcampID uint) error {
	if err := r.db.WithContext(ctx).
		Where("bootcamp_id = ?", bootcampID).
		Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete bootcamp reviews: %w", err)
	}
	return nil
}
