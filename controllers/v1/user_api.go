package apiv1

import (
	"labstock-backend/controllers"
	"labstock-backend/lib/rbac"
	usershandler "labstock-backend/lib/users"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	userapimodels "labstock-backend/models/api/user"

	"github.com/gofiber/fiber/v2"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
	app.Route("user_profile", func(router fiber.Router) {
		router.Get("", controller.me)
		router.Put("", controller.updateMe)
		router.Post("photo", controller.uploadPhoto)
		router.Get("permissions", controller.permissions)
	})
}

// @Summary Приглашение пользователя
// @Tags Пользователи
// @Description Создание пользователя с ролью и начальным паролем
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload userapimodels.UserCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	id, hMsg, err := usershandler.Instance.Create(middleware.GetSession(ctx), payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка создания пользователя", id)
}

// @Summary Обновление пользователя
// @Tags Пользователи
// @Description Обновление пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserData	true	"request body"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [put]
func (c *userApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload userapimodels.UserData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := usershandler.Instance.Update(middleware.GetSession(ctx), id, payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка обновления пользователя", nil)
}

// @Summary Получение пользователя по ИД
// @Tags Пользователи
// @Description Получение пользователя по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response{data=userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *userApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, hMsg, err := usershandler.Instance.Get(id)
	return c.SendResult(ctx, hMsg, err, "Ошибка получения пользователя", resp)
}

// @Summary Удаление пользователя
// @Tags Пользователи
// @Description Удаление пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [delete]
func (c *userApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := usershandler.Instance.Delete(middleware.GetSession(ctx), id)
	return c.SendResult(ctx, hMsg, err, "Ошибка удаления пользователя", nil)
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.UserFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [post]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	var payload userapimodels.UserFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := usershandler.Instance.List(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка пользователей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Профиль текущего пользователя
// @Tags Профиль
// @Description Профиль текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=userapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user_profile [get]
func (c *userApiController) me(ctx *fiber.Ctx) error {
	resp, hMsg, err := usershandler.Instance.Me(middleware.GetSession(ctx))
	return c.SendResult(ctx, hMsg, err, "Ошибка получения профиля", resp)
}

// @Summary Обновление профиля
// @Tags Профиль
// @Description Обновление персональных и рабочих данных
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 userapimodels.ProfileData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user_profile [put]
func (c *userApiController) updateMe(ctx *fiber.Ctx) error {
	var payload userapimodels.ProfileData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	hMsg, err := usershandler.Instance.UpdateMe(middleware.GetSession(ctx), payload)
	return c.SendResult(ctx, hMsg, err, "Ошибка обновления профиля", nil)
}

// @Summary Загрузка фото профиля
// @Tags Профиль
// @Description Загрузка фото профиля
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   photo				formData	file 	true	"фото"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user_profile/photo [post]
func (c *userApiController) uploadPhoto(ctx *fiber.Ctx) error {
	file, err := c.FormFile(ctx, "photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	url, hMsg, err := usershandler.Instance.UploadProfileImage(ctx.UserContext(), middleware.GetSession(ctx), file)
	return c.SendResult(ctx, hMsg, err, "Ошибка загрузки фото профиля", url)
}

// @Summary Права текущего пользователя
// @Tags Профиль
// @Description Модули и действия, доступные роли пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=map[string][]string}
// @Failure 403
// @router /api/v1/user_profile/permissions [get]
func (c *userApiController) permissions(ctx *fiber.Ctx) error {
	resp := rbac.Instance.GetPermissions(middleware.GetUserRole(ctx))
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
