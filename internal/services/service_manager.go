package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/mailer"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/storage"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

// ServiceManagerConfig carries the non-repository dependencies the
// services need.
type ServiceManagerConfig struct {
	Mailer         mailer.Mailer
	Files          storage.FileStore
	EventPublisher events.EventPublisher
	MaxFileSize    int64
}

type serviceManager struct {
	authService     AuthService
	bootcampService BootcampService
	courseService   CourseService
	reviewService   ReviewService
	userService     UserService

	eventPublisher events.EventPublisher
	logger         *slog.Logger

	shutdown bool
	mu       sync.Mutex
}

// NewServiceManager wires every service against the shared repository,
// validator and collaborators.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, cfg ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		authService:     NewAuthService(repo, cfg.Mailer, cfg.EventPublisher, logger, v),
		bootcampService: NewBootcampService(repo, cfg.Files, cfg.EventPublisher, logger, v, cfg.MaxFileSize),
		courseService:   NewCourseService(repo, cfg.EventPublisher, logger, v),
		reviewService:   NewReviewService(repo, cfg.EventPublisher, logger, v),
		userService:     NewUserService(repo, logger, v),
		eventPublisher:  cfg.EventPublisher,
		logger:          logger,
	}
}

func (m *serviceManager) Auth() AuthService         { return m.authService }
func (m *serviceManager) Bootcamp() BootcampService { return m.bootcampService }
func (m *serviceManager) Course() CourseService     { return m.courseService }
func (m *serviceManager) Review() ReviewService     { return m.reviewService }
func (m *serviceManager) User() UserService         { return m.userService }

func (m *serviceManager) Shutdown(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if err := m.eventPublisher.Close(); err != nil {
		m.logger.Error("failed to close event publisher", "error", err)
		return err
	}
	m.logger.Info("services shut down")
	return nil
}
