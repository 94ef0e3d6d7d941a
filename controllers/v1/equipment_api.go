package apiv1

import (
	"labstock-backend/controllers"
	equipmenthandler "labstock-backend/lib/equipment"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	equipmentapimodels "labstock-backend/models/api/equipment"

	"github.com/gofiber/fiber/v2"
)

type equipmentApiController struct {
	controllers.BaseAPIController
}

func InitEquipmentApiRouters(app *fiber.App) {
	controller := equipmentApiController{}
	app.Route("equipment", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("history", controller.history)
			idRoute.Put("quantity", controller.updateQuantity)
			idRoute.Post("image", controller.uploadImage)
		})
	})
}

// @Summary Создание позиции склада
// @Tags Склад
// @Description Создание позиции, начальный остаток пишется в журнал
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 equipmentapimodels.EquipmentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment [post]
func (c *equipmentApiController) create(ctx *fiber.Ctx) error {
	var payload equipmentapimodels.EquipmentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	id, hMsg, err := equipmenthandler.Instance.Create(middleware.GetSession(ctx), payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка создания позиции склада", id)
}

// @Summary Обновление позиции склада
// @Tags Склад
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 equipmentapimodels.EquipmentData	true	"request body"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id} [put]
func (c *equipmentApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload equipmentapimodels.EquipmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := equipmenthandler.Instance.Update(middleware.GetSession(ctx), id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка обновления позиции склада", nil)
}

// @Summary Получение позиции склада
// @Tags Склад
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Success 200 {object} apimodels.Response{data=equipmentapimodels.EquipmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id} [get]
func (c *equipmentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := equipmenthandler.Instance.Get(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения позиции склада", resp)
}

// @Summary Удаление позиции склада
// @Tags Склад
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id} [delete]
func (c *equipmentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := equipmenthandler.Instance.Delete(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка удаления позиции склада", nil)
}

// @Summary Список позиций склада
// @Tags Склад
// @Description Поиск по названию, фильтр по типу и по низкому остатку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 equipmentapimodels.EquipmentFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]equipmentapimodels.EquipmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/list [post]
func (c *equipmentApiController) list(ctx *fiber.Ctx) error {
	var payload equipmentapimodels.EquipmentFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := equipmenthandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка позиций склада")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Журнал изменений остатка
// @Tags Склад
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Success 200 {object} apimodels.Response{data=[]equipmentapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id}/history [get]
func (c *equipmentApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, hMsg, err := equipmenthandler.Instance.History(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения журнала позиции склада", list)
}

// @Summary Корректировка остатка
// @Tags Склад
// @Description Ручная корректировка остатка, изменение пишется в журнал
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 equipmentapimodels.QuantityUpdate	true	"request body"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Success 200 {object} apimodels.Response{data=equipmentapimodels.EquipmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id}/quantity [put]
func (c *equipmentApiController) updateQuantity(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload equipmentapimodels.QuantityUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := equipmenthandler.Instance.UpdateQuantity(middleware.GetSession(ctx), id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка корректировки остатка", resp)
}

// @Summary Загрузка изображения позиции
// @Tags Склад
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "equipment ID"
// @Param   image				formData	file 	true	"изображение"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/equipment/{id}/image [post]
func (c *equipmentApiController) uploadImage(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := c.FormFile(ctx, "image")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	url, hMsg, err := equipmenthandler.Instance.UploadImage(ctx.UserContext(), id, file)
	return c.SendResult(ctx, hMsg, err, "Ошибка загрузки изображения позиции", url)
}
