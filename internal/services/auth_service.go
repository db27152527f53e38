package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devtrail/bootcamp-service/internal/events"
	"github.com/devtrail/bootcamp-service/internal/mailer"
	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/utils"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

// resetTokenTTL is how long a password-reset token stays valid.
const resetTokenTTL = 10 * time.Minute

type authService struct {
	repo           repositories.Repository
	mailer         mailer.Mailer
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewAuthService(repo repositories.Repository, m mailer.Mailer, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AuthService {
	return &authService{
		repo:           repo,
		mailer:         m,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleUser
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		Password: hash,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateValue
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventUserRegistered, user)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventUserRegistered, "error", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateDetails(ctx context.Context, userID uint, req *UpdateDetailsRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	current, err := s.freshUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Email != nil {
		current.Email = *req.Email
	}

	if err := s.repo.User().Update(ctx, current); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateValue
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return current, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID uint, req *UpdatePasswordRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.freshUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !utils.VerifyPassword(user.Password, req.CurrentPassword) {
		return nil, ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return user, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest, resetURLBase string) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	rawToken, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	hash := utils.HashResetToken(rawToken)
	expire := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = &hash
	user.ResetPasswordExpire = &expire

	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := resetURLBase + "/" + rawToken
	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s",
		resetURL,
	)

	if err := s.mailer.Send(ctx, user.Email, "Password reset token", body); err != nil {
		s.logger.Error("failed to send reset email", "user_id", user.ID, "error", err)

		// Undo the pending reset so the dead token cannot linger.
		user.ResetPasswordToken = nil
		user.ResetPasswordExpire = nil
		if clearErr := s.repo.User().Update(ctx, user); clearErr != nil {
			s.logger.Error("failed to clear reset token", "user_id", user.ID, "error", clearErr)
		}
		return ErrEmailNotSent
	}

	s.logger.Info("password reset email sent", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, rawToken string, req *ResetPasswordRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByResetToken(ctx, utils.HashResetToken(rawToken), time.Now())
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return user, nil
}

// freshUser loads a user straight from the repository so password and
// reset columns are present before a full-row save.
func (s *authService) freshUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
