package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers translate these into
// HTTP status codes and response envelopes.
var (
	ErrBootcampNotFound = errors.New("bootcamp not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrDuplicateValue     = errors.New("duplicate field value entered")
	ErrDuplicateReview    = errors.New("user has already reviewed this bootcamp")
	ErrAlreadyPublished   = errors.New("user has already published a bootcamp")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrEmailNotSent       = errors.New("email could not be sent")

	ErrInvalidFileType = errors.New("uploaded file must be an image")
	ErrFileTooLarge    = errors.New("uploaded file exceeds the size limit")
	ErrMissingFile     = errors.New("no file was uploaded")
)

// PermissionError is returned when an authenticated user is not allowed to
// perform an action on a resource.
type PermissionError struct {
	UserID     uint
	Resource   string
	ResourceID uint
	Action     string
}

func NewPermissionError(userID, resourceID uint, resource, action string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d is not authorized to %s %s %d", e.UserID, e.Action, e.Resource, e.ResourceID)
}
