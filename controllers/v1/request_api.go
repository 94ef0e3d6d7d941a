package apiv1

import (
	"labstock-backend/controllers"
	approvalhandler "labstock-backend/lib/approval"
	requesthandler "labstock-backend/lib/request"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	approvalapimodels "labstock-backend/models/api/approval"
	requestapimodels "labstock-backend/models/api/request"

	"github.com/gofiber/fiber/v2"
)

type requestApiController struct {
	controllers.BaseAPIController
}

func InitRequestApiRouters(app *fiber.App) {
	controller := requestApiController{}
	app.Route("request", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("review", controller.review)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
		})
	})
}

// @Summary Подача заявки
// @Tags Заявки
// @Description Заявка на позиции склада от имени текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.RequestCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request [post]
func (c *requestApiController) create(ctx *fiber.Ctx) error {
	var payload requestapimodels.RequestCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	id, hMsg, err := requesthandler.Instance.Create(middleware.GetSession(ctx), payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка подачи заявки", id)
}

// @Summary Список заявок
// @Tags Заявки
// @Description Пользователь лаборатории видит только заявки своей лаборатории
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 requestapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/list [post]
func (c *requestApiController) list(ctx *fiber.Ctx) error {
	var payload requestapimodels.RequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := requesthandler.Instance.List(middleware.GetSession(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение заявки
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id} [get]
func (c *requestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := requesthandler.Instance.Get(middleware.GetSession(ctx), id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения заявки", resp)
}

// @Summary Рассмотрение заявки
// @Tags Заявки
// @Description Позиции заявки с текущими остатками склада
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ReviewView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/review [get]
func (c *requestApiController) review(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := approvalhandler.Instance.Review(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка рассмотрения заявки", resp)
}

// @Summary Утверждение заявки
// @Tags Заявки
// @Description Полное или частичное утверждение, остатки списываются в одной транзакции
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Param	body body	 approvalapimodels.ApproveData	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovedRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/approve [put]
func (c *requestApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApproveData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := approvalhandler.Instance.Approve(ctx.UserContext(), middleware.GetSession(ctx), id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка утверждения заявки", resp)
}

// @Summary Отклонение заявки
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "request ID"
// @Param	body body	 approvalapimodels.RejectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/request/{id}/reject [put]
func (c *requestApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.RejectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := approvalhandler.Instance.Reject(ctx.UserContext(), middleware.GetSession(ctx), id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка отклонения заявки", nil)
}
