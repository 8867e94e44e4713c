package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var messages []string
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			messages = append(messages, err.Error())
		}
		return messages
	}
	for _, fe := range verrs {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		messages = append(messages, element)
	}
	return messages
}

// ValidationFailure converts a validator error into a ValidationError whose
// message lists every failing field.
func ValidationFailure(err error) *AppError {
	return &AppError{
		Kind:    ValidationError,
		Message: "Invalid request: " + strings.Join(FormatValidationErrors(err), "; "),
		Err:     err,
	}
}

// SanitizeInput trims surrounding whitespace from user supplied strings.
func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}
