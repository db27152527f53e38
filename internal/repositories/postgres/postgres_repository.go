package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/cache"
	"github.com/devtrail/bootcamp-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	bootcamp repositories.BootcampRepository
	course   repositories.CourseRepository
	review   repositories.ReviewRepository
	user     repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	return &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
		bootcamp:     NewBootcampPostgreSQL(config.DB, cacheManager),
		course:       NewCoursePostgreSQL(config.DB),
		review:       NewReviewPostgreSQL(config.DB),
		user:         NewUserPostgreSQL(config.DB, cacheManager),
	}
}

func (r *PostgreSQLRepository) Bootcamp() repositories.BootcampRepository { return r.bootcamp }
func (r *PostgreSQLRepository) Course() repositories.CourseRepository     { return r.course }
func (r *PostgreSQLRepository) Review() repositories.ReviewRepository     { return r.review }
func (r *PostgreSQLRepository) User() repositories.UserRepository         { return r.user }

// txInvalidations records the rows mutated inside a transaction so their
// cache entries can be dropped once the transaction commits. A rollback
// leaves the cache untouched.
type txInvalidations struct {
	bootcampIDs []uint
	userIDs     []uint
}

func (p *txInvalidations) addBootcamp(id uint) {
	p.bootcampIDs = append(p.bootcampIDs, id)
}

func (p *txInvalidations) addUser(id uint) {
	p.userIDs = append(p.userIDs, id)
}

func (p *txInvalidations) flush(ctx context.Context, cm *cache.CacheManager) {
	if cm == nil {
		return
	}
	for _, id := range p.bootcampIDs {
		cache.InvalidateBootcampCache(ctx, cm, id)
	}
	for _, id := range p.userIDs {
		cache.InvalidateUserCache(ctx, cm, id)
	}
}

// WithTransaction runs fn against a Repository bound to one transaction.
// The transactional repository skips cached reads so partially committed
// state never becomes visible through Redis; invalidations for rows it
// mutates are collected and applied after the transaction commits.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	pending := &txInvalidations{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:       tx,
			bootcamp: &BootcampPostgreSQL{db: tx, pending: pending},
			course:   NewCoursePostgreSQL(tx),
			review:   NewReviewPostgreSQL(tx),
			user:     &UserPostgreSQL{db: tx, pending: pending},
		}
		return fn(txRepo)
	})
	if err != nil {
		return err
	}
	pending.flush(ctx, r.cacheManager)
	return nil
}

// Ping verifies database connectivity
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes database and cache connections
func (r *PostgreSQLRepository) Close() error {
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
