package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/gotrue-go"

	"subtitleforge/models"
	"subtitleforge/utils"
)

const userKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// SupabaseAuthenticator validates access tokens against Supabase Auth.
type SupabaseAuthenticator struct {
	Auth gotrue.Client
}

func (a *SupabaseAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	resp, err := a.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: resp.ID.String(), Email: resp.Email}, nil
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(auth Authenticator, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return utils.Unauthorized("Unauthorized")
		}
		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil || user == nil {
			logger.WithField("request_id", c.Locals("requestid")).Warnf("Rejected bearer token: %v", err)
			return utils.Unauthorized("Unauthorized")
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(auth Authenticator, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			user, err := auth.Authenticate(c.UserContext(), token)
			if err != nil {
				logger.WithField("request_id", c.Locals("requestid")).Debugf("Ignoring invalid bearer token: %v", err)
			} else if user != nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth or OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
