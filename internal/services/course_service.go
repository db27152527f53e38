package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

type courseService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewCourseService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

func (s *courseService) List(ctx context.Context, q query.Query) ([]*models.Course, int64, *models.Pagination, error) {
	courses, total, err := s.repo.Course().List(ctx, q)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, q.Paginate(total), nil
}

func (s *courseService) ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Course, error) {
	if _, err := s.parentBootcamp(ctx, bootcampID); err != nil {
		return nil, err
	}
	courses, err := s.repo.Course().ListByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, actor *models.User, bootcampID uint, req *CreateCourseRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	bootcamp, err := s.parentBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, bootcamp.UserID) {
		return nil, NewPermissionError(actor.ID, bootcampID, "bootcamp", "add a course to")
	}

	course := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         models.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           bootcampID,
		UserID:               actor.ID,
	}
	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if err := s.recomputeAverageCost(ctx, bootcampID); err != nil {
		s.logger.Error("failed to recompute average cost", "bootcamp_id", bootcampID, "error", err)
	}

	s.logger.Info("course created", "course_id", course.ID, "bootcamp_id", bootcampID)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventCourseCreated, course)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventCourseCreated, "error", err)
	}

	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, course.UserID) {
		return nil, NewPermissionError(actor.ID, id, "course", "update")
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Weeks != nil {
		course.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		course.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		course.MinimumSkill = models.MinimumSkill(*req.MinimumSkill)
	}
	if req.ScholarshipAvailable != nil {
		course.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if req.Tuition != nil {
		if err := s.recomputeAverageCost(ctx, course.BootcampID); err != nil {
			s.logger.Error("failed to recompute average cost", "bootcamp_id", course.BootcampID, "error", err)
		}
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, actor *models.User, id uint) error {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(actor, course.UserID) {
		return NewPermissionError(actor.ID, id, "course", "delete")
	}

	if err := s.repo.Course().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if err := s.recomputeAverageCost(ctx, course.BootcampID); err != nil {
		s.logger.Error("failed to recompute average cost", "bootcamp_id", course.BootcampID, "error", err)
	}

	s.logger.Info("course deleted", "course_id", id, "bootcamp_id", course.BootcampID)
	return nil
}

func (s *courseService) parentBootcamp(ctx context.Context, bootcampID uint) (*models.Bootcamp, error) {
	bootcamp, err := s.repo.Bootcamp().GetByID(ctx, bootcampID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBootcampNotFound
		}
		return nil, fmt.Errorf("failed to get bootcamp: %w", err)
	}
	return bootcamp, nil
}

// recomputeAverageCost refreshes the bootcamp's average tuition, rounded
// up to the nearest ten. The column is cleared when no courses remain.
func (s *courseService) recomputeAverageCost(ctx context.Context, bootcampID uint) error {
	avg, err := s.repo.Course().AverageTuition(ctx, bootcampID)
	if err != nil {
		return fmt.Errorf("failed to average tuition: %w", err)
	}
	if avg == nil {
		return s.repo.Bootcamp().UpdateAverageCost(ctx, bootcampID, nil)
	}
	rounded := RoundAverageCost(*avg)
	return s.repo.Bootcamp().UpdateAverageCost(ctx, bootcampID, &rounded)
}

// RoundAverageCost rounds a mean tuition up to the nearest ten.
func RoundAverageCost(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}
