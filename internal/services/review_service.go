package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

type reviewService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewReviewService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ReviewService {
	return &reviewService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

func (s *reviewService) List(ctx context.Context, q query.Query) ([]*models.Review, int64, *models.Pagination, error) {
	reviews, total, err := s.repo.Review().List(ctx, q)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, q.Paginate(total), nil
}

func (s *reviewService) ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Review, error) {
	if _, err := s.parentBootcamp(ctx, bootcampID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.Review().ListByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, actor *models.User, bootcampID uint, req *CreateReviewRequest) (*models.Review, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.parentBootcamp(ctx, bootcampID); err != nil {
		return nil, err
	}

	review := &models.Review{
		Title:      req.Title,
		Text:       req.Text,
		Rating:     req.Rating,
		BootcampID: bootcampID,
		UserID:     actor.ID,
	}
	if err := s.repo.Review().Create(ctx, review); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recomputeAverageRating(ctx, bootcampID); err != nil {
		s.logger.Error("failed to recompute average rating", "bootcamp_id", bootcampID, "error", err)
	}

	s.logger.Info("review created", "review_id", review.ID, "bootcamp_id", bootcampID)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventReviewCreated, review)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventReviewCreated, "error", err)
	}

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateReviewRequest) (*models.Review, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	review, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, review.UserID) {
		return nil, NewPermissionError(actor.ID, id, "review", "update")
	}

	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}

	if err := s.repo.Review().Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if req.Rating != nil {
		if err := s.recomputeAverageRating(ctx, review.BootcampID); err != nil {
			s.logger.Error("failed to recompute average rating", "bootcamp_id", review.BootcampID, "error", err)
		}
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, id uint) error {
	review, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(actor, review.UserID) {
		return NewPermissionError(actor.ID, id, "review", "delete")
	}

	if err := s.repo.Review().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.recomputeAverageRating(ctx, review.BootcampID); err != nil {
		s.logger.Error("failed to recompute average rating", "bootcamp_id", review.BootcampID, "error", err)
	}

	s.logger.Info("review deleted", "review_id", id, "bootcamp_id", review.BootcampID)
	return nil
}

func (s *reviewService) parentBootcamp(ctx context.Context, bootcampID uint) (*models.Bootcamp, error) {
	bootcamp, err := s.repo.Bootcamp().GetByID(ctx, bootcampID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBootcampNotFound
		}
		return nil, fmt.Errorf("failed to get bootcamp: %w", err)
	}
	return bootcamp, nil
}

// recomputeAverageRating refreshes the bootcamp's mean review rating. The
// column is cleared when no reviews remain.
func (s *reviewService) recomputeAverageRating(ctx context.Context, bootcampID uint) error {
	avg, err := s.repo.Review().AverageRating(ctx, bootcampID)
	if err != nil {
		return fmt.Errorf("failed to average rating: %w", err)
	}
	return s.repo.Bootcamp().UpdateAverageRating(ctx, bootcampID, avg)
}
