package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/taskfox/taskfox/app/models"
	"github.com/taskfox/taskfox/app/repository"
	"github.com/taskfox/taskfox/internal/pkg/billing"
	"github.com/taskfox/taskfox/internal/pkg/usercontext"
)

// BearerAuthMiddleware authenticates requests carrying a user API token and
// installs the resolved principal into Locals. Lapsed paid plans are
// downgraded before the request proceeds so handlers never see stale
// entitlements.
func BearerAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API token"})
		}

		hash := models.HashAPIToken(token)
		repo := repository.GetGlobalFactory().GetUserRepository()
		user, err := repo.GetByAPITokenHash(hash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API token"})
			}
			log.Errorf("[Auth] Token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Token verification failed"})
		}

		if user.Status != models.STATUS_ACTIVE {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "User inactive"})
		}

		if err := billing.GetService().EnsurePlanCurrent(c.UserContext(), user); err != nil {
			log.Errorf("[Auth] Plan refresh failed for user %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Plan verification failed"})
		}

		planName := ""
		if user.Plan != nil {
			planName = user.Plan.Name
		}
		c.Locals(usercontext.ContextKey, usercontext.UserContext{
			UserID:     user.ID,
			Name:       user.Name,
			Email:      user.Email,
			IsLoggedIn: true,
			Plan:       planName,
		})
		c.Locals(usercontext.UserKey, user)
		c.Locals(usercontext.KeyUserID, user.ID)

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(c.Get("X-API-Token"))
}
