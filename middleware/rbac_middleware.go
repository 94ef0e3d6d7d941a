package middleware

import (
	"labstock-backend/lib/rbac"
	apimodels "labstock-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RbacMiddleware маршрут без правила закрыт для всех ролей
func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		userRole := GetUserRole(ctx)
		if userID == "" || !userRole.IsValid() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not allowed"))
		}

		allowed, known := rbac.Instance.Allowed(ctx.Method(), ctx.Path(), GetUserLab(ctx), userID, userRole)
		if !known {
			log.
				WithField("method", ctx.Method()).
				WithField("path", ctx.Path()).
				Warn("нет правила доступа для маршрута")
		}
		if !allowed {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not allowed"))
		}

		return ctx.Next()
	}
}
