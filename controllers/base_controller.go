package controllers

import (
	"io"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("unable to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("%v is required", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError пишет внутреннюю ошибку в лог, клиенту уходит только общий текст
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, logMsg string) error {
	logger.WithError(err).Error(logMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("internal server error, please try again later"))
}

// SendResult ответ по результату обработчика: hMsg - 400, err - 500
func (c *BaseAPIController) SendResult(ctx *fiber.Ctx, hMsg string, err error, logMsg string, data interface{}) error {
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, logMsg)
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// FormFiles файлы multipart формы по ключу
func (c *BaseAPIController) FormFiles(ctx *fiber.Ctx, key string) ([]apimodels.FileData, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, errors.New("multipart form is expected")
	}
	headers := form.File[key]
	result := make([]apimodels.FileData, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			log.WithError(err).Error("ошибка получения файла из запроса")
			return nil, errors.Errorf("unable to read file %q", header.Filename)
		}
		body, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.WithError(err).Error("ошибка чтения файла из запроса")
			return nil, errors.Errorf("unable to read file %q", header.Filename)
		}
		result = append(result, apimodels.FileData{
			FileName:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Body:        body,
		})
	}
	return result, nil
}

// FormFile единственный файл формы
func (c *BaseAPIController) FormFile(ctx *fiber.Ctx, key string) (apimodels.FileData, error) {
	files, err := c.FormFiles(ctx, key)
	if err != nil {
		return apimodels.FileData{}, err
	}
	if len(files) == 0 {
		return apimodels.FileData{}, errors.Errorf("file %q is required", key)
	}
	return files[0], nil
}
