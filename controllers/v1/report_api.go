package apiv1

import (
	"fmt"
	"labstock-backend/controllers"
	budgethandler "labstock-backend/lib/budget"
	apimodels "labstock-backend/models/api"
	reportapimodels "labstock-backend/models/api/report"
	"time"

	"github.com/gofiber/fiber/v2"
)

type reportApiController struct {
	controllers.BaseAPIController
}

func InitReportApiRouters(app *fiber.App) {
	controller := reportApiController{}
	app.Route("reports", func(router fiber.Router) {
		router.Get("budget", controller.budget)
		router.Get("overview", controller.overview)
		router.Post("expenses_export", controller.expensesExport)
	})
}

// @Summary Бюджет лабораторий
// @Tags Отчеты
// @Description Бюджет одной лаборатории или всех, если lab_id не задан
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   lab_id				query		string	false	"lab ID"
// @Success 200 {object} apimodels.Response{data=[]reportapimodels.BudgetView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/budget [get]
func (c *reportApiController) budget(ctx *fiber.Ctx) error {
	list, hMsg, err := budgethandler.Instance.Budget(ctx.Query("lab_id"))
	return c.SendResult(ctx, hMsg, err, "Ошибка получения бюджета", list)
}

// @Summary Сводка по складу и заявкам
// @Tags Отчеты
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=reportapimodels.OverviewView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/overview [get]
func (c *reportApiController) overview(ctx *fiber.Ctx) error {
	resp, err := budgethandler.Instance.Overview()
	return c.SendResult(ctx, "", err, "Ошибка получения сводки", resp)
}

// @Summary Выгрузка расходов в Excel
// @Tags Отчеты
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	reportapimodels.ExpensesExportFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/expenses_export [post]
func (c *reportApiController) expensesExport(ctx *fiber.Ctx) error {
	var payload reportapimodels.ExpensesExportFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	data, hMsg, err := budgethandler.Instance.ExportExpenses(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки расходов в Excel")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	fileName := fmt.Sprintf("expenses-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
