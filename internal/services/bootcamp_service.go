package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/storage"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

type bootcampService struct {
	repo           repositories.Repository
	files          storage.FileStore
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	maxFileSize    int64
}

func NewBootcampService(repo repositories.Repository, files storage.FileStore, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, maxFileSize int64) BootcampService {
	return &bootcampService{
		repo:           repo,
		files:          files,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
		maxFileSize:    maxFileSize,
	}
}

func (s *bootcampService) List(ctx context.Context, q query.Query) ([]*models.Bootcamp, int64, *models.Pagination, error) {
	bootcamps, total, err := s.repo.Bootcamp().List(ctx, q)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to list bootcamps: %w", err)
	}
	return bootcamps, total, q.Paginate(total), nil
}

func (s *bootcampService) ListByZipcode(ctx context.Context, zipcode string) ([]*models.Bootcamp, error) {
	bootcamps, err := s.repo.Bootcamp().ListByZipcode(ctx, zipcode)
	if err != nil {
		return nil, fmt.Errorf("failed to list bootcamps by zipcode: %w", err)
	}
	return bootcamps, nil
}

func (s *bootcampService) GetByID(ctx context.Context, id uint) (*models.Bootcamp, error) {
	bootcamp, err := s.repo.Bootcamp().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBootcampNotFound
		}
		return nil, fmt.Errorf("failed to get bootcamp: %w", err)
	}
	return bootcamp, nil
}

func (s *bootcampService) Create(ctx context.Context, actor *models.User, req *CreateBootcampRequest) (*models.Bootcamp, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// Non-admins may publish a single bootcamp.
	if !actor.IsAdmin() {
		count, err := s.repo.Bootcamp().CountByOwner(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count bootcamps: %w", err)
		}
		if count > 0 {
			return nil, ErrAlreadyPublished
		}
	}

	bootcamp := &models.Bootcamp{
		Name:          req.Name,
		Slug:          slug.Make(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Zipcode:       req.Zipcode,
		Careers:       datatypes.NewJSONSlice(req.Careers),
		Photo:         models.DefaultBootcampPhoto,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		UserID:        actor.ID,
	}

	if err := s.repo.Bootcamp().Create(ctx, bootcamp); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateValue
		}
		return nil, fmt.Errorf("failed to create bootcamp: %w", err)
	}

	s.logger.Info("bootcamp created", "bootcamp_id", bootcamp.ID, "user_id", actor.ID)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventBootcampCreated, bootcamp)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventBootcampCreated, "error", err)
	}

	return bootcamp, nil
}

func (s *bootcampService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateBootcampRequest) (*models.Bootcamp, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	bootcamp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(actor, bootcamp.UserID) {
		return nil, NewPermissionError(actor.ID, id, "bootcamp", "update")
	}

	if req.Name != nil {
		bootcamp.Name = *req.Name
		bootcamp.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		bootcamp.Description = *req.Description
	}
	if req.Website != nil {
		bootcamp.Website = *req.Website
	}
	if req.Phone != nil {
		bootcamp.Phone = *req.Phone
	}
	if req.Email != nil {
		bootcamp.Email = *req.Email
	}
	if req.Address != nil {
		bootcamp.Address = *req.Address
	}
	if req.Zipcode != nil {
		bootcamp.Zipcode = *req.Zipcode
	}
	if req.Careers != nil {
		bootcamp.Careers = datatypes.NewJSONSlice(req.Careers)
	}
	if req.Housing != nil {
		bootcamp.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		bootcamp.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		bootcamp.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		bootcamp.AcceptGi = *req.AcceptGi
	}

	if err := s.repo.Bootcamp().Update(ctx, bootcamp); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateValue
		}
		return nil, fmt.Errorf("failed to update bootcamp: %w", err)
	}
	return bootcamp, nil
}

func (s *bootcampService) Delete(ctx context.Context, actor *models.User, id uint) error {
	bootcamp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(actor, bootcamp.UserID) {
		return NewPermissionError(actor.ID, id, "bootcamp", "delete")
	}

	// Courses and reviews go with their bootcamp.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Course().DeleteByBootcamp(ctx, id); err != nil {
			return fmt.Errorf("failed to delete courses: %w", err)
		}
		if err := tx.Review().DeleteByBootcamp(ctx, id); err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Bootcamp().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete bootcamp: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if bootcamp.Photo != models.DefaultBootcampPhoto {
		if err := s.files.Remove(ctx, bootcamp.Photo); err != nil {
			s.logger.Warn("failed to remove bootcamp photo", "bootcamp_id", id, "error", err)
		}
	}

	s.logger.Info("bootcamp deleted", "bootcamp_id", id, "user_id", actor.ID)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventBootcampDeleted, bootcamp)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventBootcampDeleted, "error", err)
	}

	return nil
}

func (s *bootcampService) UploadPhoto(ctx context.Context, actor *models.User, id uint, upload *PhotoUpload) (string, error) {
	bootcamp, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !canMutate(actor, bootcamp.UserID) {
		return "", NewPermissionError(actor.ID, id, "bootcamp", "update")
	}

	if upload == nil || upload.Content == nil {
		return "", ErrMissingFile
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", ErrInvalidFileType
	}
	if upload.Size > s.maxFileSize {
		return "", ErrFileTooLarge
	}

	filename := fmt.Sprintf("photo_%d%s", id, filepath.Ext(upload.Filename))
	if _, err := s.files.Save(ctx, filename, upload.Content); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.repo.Bootcamp().UpdatePhoto(ctx, id, filename); err != nil {
		return "", fmt.Errorf("failed to update photo: %w", err)
	}

	s.logger.Info("bootcamp photo uploaded", "bootcamp_id", id, "filename", filename)
	return filename, nil
}
