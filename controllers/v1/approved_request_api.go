package apiv1

import (
	"encoding/json"
	"fmt"
	"labstock-backend/controllers"
	approvalhandler "labstock-backend/lib/approval"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	approvalapimodels "labstock-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type approvedRequestApiController struct {
	controllers.BaseAPIController
}

func InitApprovedRequestApiRouters(app *fiber.App) {
	controller := approvedRequestApiController{}
	app.Route("approved_request", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("report", controller.report)
			idRoute.Post("complete", controller.complete)
		})
	})
}

// @Summary Список утвержденных заявок
// @Tags Утвержденные заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 approvalapimodels.ApprovedRequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovedRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approved_request/list [post]
func (c *approvedRequestApiController) list(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovedRequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := approvalhandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка утвержденных заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение утвержденной заявки
// @Tags Утвержденные заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "approved request ID"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovedRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approved_request/{id} [get]
func (c *approvedRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := approvalhandler.Instance.Get(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения утвержденной заявки", resp)
}

// @Summary Сверка расходов
// @Tags Утвержденные заявки
// @Description Расходы и счета по утвержденной заявке, после сверки запись только для чтения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "approved request ID"
// @Param   data				formData	string	true	"approvalapimodels.CompleteData в JSON"
// @Param   invoice				formData	file 	false	"файлы счетов"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovedRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approved_request/{id}/complete [post]
func (c *approvedRequestApiController) complete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.CompleteData
	if err = json.Unmarshal([]byte(ctx.FormValue("data", "")), &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("unable to read request data"))
	}
	files, err := c.FormFiles(ctx, "invoice")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := approvalhandler.Instance.Complete(ctx.UserContext(), middleware.GetSession(ctx), id, payload, files)
	return c.SendResult(ctx, hMsg, err, "Ошибка сверки расходов", resp)
}

// @Summary Отчет по утвержденной заявке
// @Tags Утвержденные заявки
// @Description PDF отчет по позициям, расходам и счетам
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "approved request ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approved_request/{id}/report [get]
func (c *approvedRequestApiController) report(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	body, hMsg, err := approvalhandler.Instance.Report(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования отчета по утвержденной заявке")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="approved-request-%v.pdf"`, id))
	return ctx.Send(body)
}
