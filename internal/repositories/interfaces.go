package repositories

import (
	"context"
	"time"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
)

// BootcampRepository persists bootcamps.
type BootcampRepository interface {
	Create(ctx context.Context, bootcamp *models.Bootcamp) error
	GetByID(ctx context.Context, id uint) (*models.Bootcamp, error)
	List(ctx context.Context, q query.Query) ([]*models.Bootcamp, int64, error)
	ListByZipcode(ctx context.Context, zipcode string) ([]*models.Bootcamp, error)
	CountByOwner(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, bootcamp *models.Bootcamp) error
	UpdatePhoto(ctx context.Context, id uint, filename string) error
	UpdateAverageCost(ctx context.Context, id uint, avg *float64) error
	UpdateAverageRating(ctx context.Context, id uint, avg *float64) error
	Delete(ctx context.Context, id uint) error
}

// CourseRepository persists courses.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, q query.Query) ([]*models.Course, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Course, error)
	AverageTuition(ctx context.Context, bootcampID uint) (*float64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	DeleteByBootcamp(ctx context.Context, bootcampID uint) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context, q query.Query) ([]*models.Review, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Review, error)
	AverageRating(ctx context.Context, bootcampID uint) (*float64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	DeleteByBootcamp(ctx context.Context, bootcampID uint) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetToken matches a stored reset-token hash whose expiry is
	// after the supplied instant.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	List(ctx context.Context, q query.Query) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// Repository aggregates the per-entity repositories behind one handle that
// is injected into the services at construction.
type Repository interface {
	Bootcamp() BootcampRepository
	Course() CourseRepository
	Review() ReviewRepository
	User() UserRepository

	// WithTransaction runs fn against a Repository bound to a single
	// transaction, committing on nil and rolling back on error.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
