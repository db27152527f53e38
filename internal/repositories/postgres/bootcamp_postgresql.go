package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devtrail/bootcamp-service/internal/cache"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
)

type BootcampPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	// pending is set on transactional instances; invalidations queue up
	// there until the transaction commits.
	pending *txInvalidations
}

func NewBootcampPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.BootcampRepository {
	return &BootcampPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create inserts a new bootcamp and invalidates list caches
func (r *BootcampPostgreSQL) Create(ctx context.Context, bootcamp *models.Bootcamp) error {
	if err := r.db.WithContext(ctx).Create(bootcamp).Error; err != nil {
		return fmt.Errorf("failed to create bootcamp: %w", err)
	}
	r.invalidate(ctx, bootcamp.ID)
	return nil
}

// GetByID retrieves a bootcamp by ID with caching
func (r *BootcampPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Bootcamp, error) {
	if r.cacheManager == nil {
		return r.getByID(ctx, id)
	}

	cacheKey := fmt.Sprintf("id:%d", id)
	var bootcamp models.Bootcamp

	err := r.cacheManager.Bootcamp.CacheOrExecute(ctx, cacheKey, &bootcamp, cache.BootcampCacheConfig.TTL, func() (interface{}, error) {
		return r.getByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &bootcamp, nil
}

func (r *BootcampPostgreSQL) getByID(ctx context.Context, id uint) (*models.Bootcamp, error) {
	var bootcamp models.Bootcamp
	if err := r.db.WithContext(ctx).First(&bootcamp, id).Error; err != nil {
		return nil, err
	}
	return &bootcamp, nil
}

// List retrieves bootcamps matching the translated filter, shaped by the
// projection, sort and pagination parameters, plus the full matching count.
func (r *BootcampPostgreSQL) List(ctx context.Context, q query.Query) ([]*models.Bootcamp, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Bootcamp{})
	db = q.ApplyFilter(db, bootcampFields)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bootcamps []*models.Bootcamp
	if err := q.ApplyShaping(db, bootcampFields).Find(&bootcamps).Error; err != nil {
		return nil, 0, err
	}
	return bootcamps, total, nil
}

// ListByZipcode retrieves all bootcamps with a matching zipcode
func (r *BootcampPostgreSQL) ListByZipcode(ctx context.Context, zipcode string) ([]*models.Bootcamp, error) {
	var bootcamps []*models.Bootcamp
	err := r.db.WithContext(ctx).
		Where("zipcode = ?", zipcode).
		Order("created_at DESC").
		Find(&bootcamps).Error
	return bootcamps, err
}

// CountByOwner counts bootcamps owned by a user
func (r *BootcampPostgreSQL) CountByOwner(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bootcamp{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Update persists a full bootcamp record and invalidates its caches
func (r *BootcampPostgreSQL) Update(ctx context.Context, bootcamp *models.Bootcamp) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(bootcamp).Error; err != nil {
		return fmt.Errorf("failed to update bootcamp: %w", err)
	}
	r.invalidate(ctx, bootcamp.ID)
	return nil
}

// UpdatePhoto persists the stored photo filename
func (r *BootcampPostgreSQL) UpdatePhoto(ctx context.Context, id uint, filename string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Bootcamp{}).
		Where("id = ?", id).
		Update("photo", filename).Error; err != nil {
		return fmt.Errorf("failed to update bootcamp photo: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateAverageCost writes the derived average cost; nil clears it
func (r *BootcampPostgreSQL) UpdateAverageCost(ctx context.Context, id uint, avg *float64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Bootcamp{}).
		Where("id = ?", id).
		Update("average_cost", avg).Error; err != nil {
		return fmt.Errorf("failed to update average cost: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateAverageRating writes the derived average rating; nil clears it
func (r *BootcampPostgreSQL) UpdateAverageRating(ctx context.Context, id uint, avg *float64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Bootcamp{}).
		Where("id = ?", id).
		Update("average_rating", avg).Error; err != nil {
		return fmt.Errorf("failed to update average rating: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete removes a bootcamp row. Dependent courses and reviews are removed
// by the service-layer cascade before this call.
func (r *BootcampPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Bootcamp{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete bootcamp: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *BootcampPostgreSQL) invalidate(ctx context.Context, id uint) {
	if r.pending != nil {
		r.pending.addBootcamp(id)
		return
	}
	if r.cacheManager != nil {
		cache.InvalidateBootcampCache(ctx, r.cacheManager, id)
	}
}
