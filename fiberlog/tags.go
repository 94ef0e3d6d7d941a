package fiberlog

import (
	authutils "labstock-backend/lib/utils/auth-utils"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagUserID  = "user_id"
	TagBody    = "body"
	TagResBody = "resBody"
	RequestID  = "request_id"
)

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	redact := cfg.redactRegexp()
	cut := func(body []byte) string {
		return truncate(redactBody(redact, body), cfg.MaxBodySize)
	}
	// строки fiber.Ctx живут до конца запроса, поля записи лога копируются
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return utils.CopyString(c.Method())
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return utils.CopyString(c.Path())
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return utils.CopyString(c.IP())
		},
		TagUserID: func(c *fiber.Ctx, _ *data) interface{} {
			// токен появляется в локалях после jwt middleware
			if id, ok := authutils.GetClaims(c)["sub"].(string); ok {
				return id
			}
			return ""
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if isMultipart(c) {
				return ""
			}
			return cut(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			contentType := string(c.Response().Header.ContentType())
			if contentType != fiber.MIMEApplicationJSON && contentType != fiber.MIMEApplicationJSONCharsetUTF8 {
				return ""
			}
			return cut(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return utils.CopyString(c.Get(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func isMultipart(c *fiber.Ctx) bool {
	contentType := c.Get(fiber.HeaderContentType)
	return len(contentType) >= len(fiber.MIMEMultipartForm) && contentType[:len(fiber.MIMEMultipartForm)] == fiber.MIMEMultipartForm
}

func redactBody(redact *regexp.Regexp, body []byte) []byte {
	if redact == nil || len(body) == 0 {
		return body
	}
	return redact.ReplaceAll(body, []byte(`$1"***"`))
}

// truncate тела больше limit обрезаются
func truncate(body []byte, limit int) string {
	if limit > 0 && len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
