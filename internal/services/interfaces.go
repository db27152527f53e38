package services

import (
	"context"
	"io"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use validator types so struct tags live in one place.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateDetailsRequest = validator.UpdateDetailsRequest
type UpdatePasswordRequest = validator.UpdatePasswordRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest

type CreateBootcampRequest = validator.CreateBootcampRequest
type UpdateBootcampRequest = validator.UpdateBootcampRequest
type CreateCourseRequest = validator.CreateCourseRequest
type UpdateCourseRequest = validator.UpdateCourseRequest
type CreateReviewRequest = validator.CreateReviewRequest
type UpdateReviewRequest = validator.UpdateReviewRequest
type CreateUserRequest = validator.CreateUserRequest
type UpdateUserRequest = validator.UpdateUserRequest

// PhotoUpload carries an uploaded file from the handler to the service.
type PhotoUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateDetails(ctx context.Context, userID uint, req *UpdateDetailsRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, req *UpdatePasswordRequest) (*models.User, error)

	// ForgotPassword issues a reset token and mails resetURLBase + "/" +
	// token to the account. The stored token is cleared again when the
	// mail cannot be delivered.
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest, resetURLBase string) error
	ResetPassword(ctx context.Context, rawToken string, req *ResetPasswordRequest) (*models.User, error)
}

type BootcampService interface {
	List(ctx context.Context, q query.Query) ([]*models.Bootcamp, int64, *models.Pagination, error)
	ListByZipcode(ctx context.Context, zipcode string) ([]*models.Bootcamp, error)
	GetByID(ctx context.Context, id uint) (*models.Bootcamp, error)
	Create(ctx context.Context, actor *models.User, req *CreateBootcampRequest) (*models.Bootcamp, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateBootcampRequest) (*models.Bootcamp, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
	UploadPhoto(ctx context.Context, actor *models.User, id uint, upload *PhotoUpload) (string, error)
}

type CourseService interface {
	List(ctx context.Context, q query.Query) ([]*models.Course, int64, *models.Pagination, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Create(ctx context.Context, actor *models.User, bootcampID uint, req *CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

type ReviewService interface {
	List(ctx context.Context, q query.Query) ([]*models.Review, int64, *models.Pagination, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]*models.Review, error)
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Create(ctx context.Context, actor *models.User, bootcampID uint, req *CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
}

// UserService is the admin-only account CRUD.
type UserService interface {
	List(ctx context.Context, q query.Query) ([]*models.User, int64, *models.Pagination, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

// ServiceManager bundles the services for injection into the handlers.
type ServiceManager interface {
	Auth() AuthService
	Bootcamp() BootcampService
	Course() CourseService
	Review() ReviewService
	User() UserService

	Shutdown(ctx context.Context) error
}
