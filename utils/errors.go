package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies failures into the statuses the API reports.
type ErrorKind int

const (
	ValidationError ErrorKind = iota
	AuthError
	NotFoundError
	UpstreamError
)

func (k ErrorKind) String() string {
	switch k {
	case ValidationError:
		return "validation"
	case AuthError:
		return "auth"
	case NotFoundError:
		return "not_found"
	default:
		return "upstream"
	}
}

// Status returns the HTTP status code for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case ValidationError:
		return fiber.StatusBadRequest
	case AuthError:
		return fiber.StatusUnauthorized
	case NotFoundError:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// AppError is returned by handlers and services. Message is safe to show to
// the caller; Err is only logged.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func Validation(message string) *AppError {
	return &AppError{Kind: ValidationError, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: AuthError, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: NotFoundError, Message: message}
}

// Upstream wraps a storage, database or model failure.
func Upstream(message string, err error) *AppError {
	return &AppError{Kind: UpstreamError, Message: message, Err: err}
}

// ErrorHandler returns the Fiber error handler that renders AppError and
// fiber.Error values as {"status":"error","message":...}.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Kind.Status()
			message = appErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"request_id": c.Locals("requestid"),
				"path":       c.Path(),
			}).Errorf("Unhandled error: %v", err)
		}

		return RespondWithError(c, code, message)
	}
}
