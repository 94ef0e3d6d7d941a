package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Service   string `json:"service"`
	Code      int    `json:"code"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	UserID    string `json:"user_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

var errNotifyClient = &http.Client{Timeout: 5 * time.Second}

// ErrNotify отправляет сведения об ответах 5xx на адрес вебхука, ответ клиенту не задерживается
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		// отправка идет после возврата обработчика, fiber к этому моменту переиспользует буферы контекста
		payload := errNotifyPayload{
			Service:   "labstock",
			Code:      statusCode,
			Method:    utils.CopyString(c.Method()),
			Path:      utils.CopyString(c.OriginalURL()),
			UserID:    utils.CopyString(GetUserID(c)),
			RequestID: utils.CopyString(c.Get(fiber.HeaderXRequestID)),
			Error:     responseMessage(c.Response().Body()),
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		go func() {
			if sendErr := postErrNotify(addr, payload); sendErr != nil {
				log.WithError(sendErr).Warn("ошибка отправки уведомления об ошибке")
			}
		}()
		return err
	}
}

// responseMessage текст ошибки из конверта ответа, иначе тело как есть
func responseMessage(body []byte) string {
	var data struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &data); err == nil && data.Message != "" {
		return data.Message
	}
	return string(body)
}

func postErrNotify(addr string, payload errNotifyPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации уведомления")
	}
	resp, err := errNotifyClient.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "ошибка запроса к вебхуку")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("вебхук вернул статус %d", resp.StatusCode)
	}
	return nil
}
