package middleware

import (
	"github.com/xebia-france/xskillz-v2/internal/pkg/permissions"
	"github.com/xebia-france/xskillz-v2/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// RoleMiddleware guards a route group with a required role. It runs after the
// auth middleware and checks the cached me-record of the signed-in user.
type RoleMiddleware struct {
	auth usecase.AuthUsecase
}

func NewRoleMiddleware(auth usecase.AuthUsecase) *RoleMiddleware {
	return &RoleMiddleware{auth: auth}
}

func (m *RoleMiddleware) Require(role string) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(int64)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		me, err := m.auth.CurrentUser(c.Context(), userID)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}

		if !permissions.HasRole(&me, role) {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}

		return c.Next()
	}
}
