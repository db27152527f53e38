package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/cache"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	// pending is set on transactional instances; invalidations queue up
	// there until the transaction commits.
	pending *txInvalidations
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create inserts a user. A duplicate email surfaces as a duplicate-key
// error from the unique index.
func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// cachedUser re-exposes the columns the API representation hides so the
// Redis copy stays complete. Redis holds the same secrets the database does.
type cachedUser struct {
	models.User
	Password            string     `json:"password"`
	ResetPasswordToken  *string    `json:"resetPasswordToken"`
	ResetPasswordExpire *time.Time `json:"resetPasswordExpire"`
}

func toCachedUser(u *models.User) cachedUser {
	return cachedUser{
		User:                *u,
		Password:            u.Password,
		ResetPasswordToken:  u.ResetPasswordToken,
		ResetPasswordExpire: u.ResetPasswordExpire,
	}
}

func (cu cachedUser) user() *models.User {
	u := cu.User
	u.Password = cu.Password
	u.ResetPasswordToken = cu.ResetPasswordToken
	u.ResetPasswordExpire = cu.ResetPasswordExpire
	return &u
}

// GetByID retrieves a user by ID. Lookups are cached because the session
// middleware resolves the principal on every authenticated request.
func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cacheManager == nil {
		return r.getByID(ctx, id)
	}

	cacheKey := fmt.Sprintf("id:%d", id)
	var cu cachedUser

	err := r.cacheManager.User.CacheOrExecute(ctx, cacheKey, &cu, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		user, err := r.getByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return toCachedUser(user), nil
	})
	if err != nil {
		return nil, err
	}
	return cu.user(), nil
}

func (r *UserPostgreSQL) getByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetToken matches a stored reset-token hash with an unexpired
// expiry. A consumed or expired token misses and reads as not found.
func (r *UserPostgreSQL) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, q query.Query) ([]*models.User, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.User{})
	db = q.ApplyFilter(db, userFields)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	if err := q.ApplyShaping(db, userFields).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update persists the full user record, including cleared reset-token
// fields, and drops the cached copy.
func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *UserPostgreSQL) invalidate(ctx context.Context, id uint) {
	if r.pending != nil {
		r.pending.addUser(id)
		return
	}
	if r.cacheManager != nil {
		cache.InvalidateUserCache(ctx, r.cacheManager, id)
	}
}
