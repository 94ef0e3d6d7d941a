package middleware

import (
	"fmt"
	"strconv"

	apimodels "labstock-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit отклоняет запрос по заголовку Content-Length, не дожидаясь чтения тела
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentLength := c.Get("Content-Length")
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).
					JSON(apimodels.NewError(fmt.Sprintf("request body too large, maximum allowed: %d bytes", limit)))
			}
		}

		return c.Next()
	}
}
