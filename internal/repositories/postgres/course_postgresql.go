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

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Bootcamp", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List retrieves courses with filters, shaping and the parent bootcamp
// populated with name and description only.
func (r *CoursePostgreSQL) List(ctx context.Context, q query.Query) ([]*models.Course, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Course{})
	db = q.ApplyFilter(db, courseFields)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []*models.Course
	// bootcamp_id survives any projection so the preload can resolve.
	err := q.ApplyShaping(db, courseFields, "bootcamp_id").
		Preload("Bootcamp", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description")
		}).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByBootcamp returns every course of one bootcamp, unpaginated.
func (r *CoursePostgreSQL) ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("bootcamp_id = ?", bootcampID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// AverageTuition computes the mean tuition across a bootcamp's courses.
// Returns nil when the bootcamp has no courses.
func (r *CoursePostgreSQL) AverageTuition(ctx context.Context, bootcampID uint) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select("AVG(tuition)").
		Where("bootcamp_id = ?", bootcampID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tuition: %w", err)
	}
	return avg, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// DeleteByBootcamp removes all courses of one bootcamp (cascade step).
func (r *CoursePostgreSQL) DeleteByBootcamp(ctx context.Context, bootcampID uint) error {
	if err := r.db.WithContext(ctx).
		Where("bootcamp_id = ?", bootcampID).
		Delete(&models.Course{}).Error; err != nil {
		return fmt.Errorf("failed to delete bootcamp courses: %w", err)
	}
	return nil
}
