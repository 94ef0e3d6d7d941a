package middleware

import (
	authutils "labstock-backend/lib/utils/auth-utils"
	"labstock-backend/models"

	"github.com/gofiber/fiber/v2"
)

// GetSession пользователь запроса по данным токена
func GetSession(ctx *fiber.Ctx) models.Session {
	return models.Session{
		UserID: GetUserID(ctx),
		Name:   claimString(ctx, "name"),
		Role:   GetUserRole(ctx),
		LabID:  GetUserLab(ctx),
	}
}

func GetUserID(ctx *fiber.Ctx) string {
	return claimString(ctx, "sub")
}

func GetUserLab(ctx *fiber.Ctx) string {
	return claimString(ctx, "lab")
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return models.UserRole(claimString(ctx, "role"))
}

func claimString(ctx *fiber.Ctx, key string) string {
	claims := authutils.GetClaims(ctx)
	if value, exist := claims[key]; exist {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
