package apiv1

import (
	"labstock-backend/controllers"
	labhandler "labstock-backend/lib/lab"
	apimodels "labstock-backend/models/api"
	labapimodels "labstock-backend/models/api/lab"

	"github.com/gofiber/fiber/v2"
)

type labApiController struct {
	controllers.BaseAPIController
}

func InitLabApiRouters(app *fiber.App) {
	controller := labApiController{}
	app.Route("labs", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Создание лаборатории
// @Tags Лаборатории
// @Description Создание лаборатории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 labapimodels.LabData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/labs [post]
func (c *labApiController) create(ctx *fiber.Ctx) error {
	var payload labapimodels.LabData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	id, hMsg, err := labhandler.Instance.Create(payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка создания лаборатории", id)
}

// @Summary Обновление лаборатории
// @Tags Лаборатории
// @Description Обновление лаборатории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 labapimodels.LabData	true	"request body"
// @Param   id          		path    string  				    	true         "lab ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/labs/{id} [put]
func (c *labApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload labapimodels.LabData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := labhandler.Instance.Update(id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка обновления лаборатории", nil)
}

// @Summary Получение лаборатории по ИД
// @Tags Лаборатории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "lab ID"
// @Success 200 {object} apimodels.Response{data=labapimodels.LabView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/labs/{id} [get]
func (c *labApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := labhandler.Instance.Get(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения лаборатории", resp)
}

// @Summary Удаление лаборатории
// @Tags Лаборатории
// @Description Удаление лаборатории без назначенных пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "lab ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/labs/{id} [delete]
func (c *labApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := labhandler.Instance.Delete(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка удаления лаборатории", nil)
}

// @Summary Список лабораторий
// @Tags Лаборатории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 labapimodels.LabFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]labapimodels.LabView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/labs/list [post]
func (c *labApiController) list(ctx *fiber.Ctx) error {
	var payload labapimodels.LabFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := labhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка лабораторий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
