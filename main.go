package main

import (
	"context"
	"fmt"
	"labstock-backend/config"
	apiv1 "labstock-backend/controllers/v1"
	"labstock-backend/db"
	"labstock-backend/fiberlog"
	"labstock-backend/initializers"
	"labstock-backend/lib/metrics"
	"labstock-backend/middleware"
	apimodels "labstock-backend/models/api"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	bodyLimit := config.Conf.App.BodyLimitMb * 1024 * 1024
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	app.Get("/health", func(ctx *fiber.Ctx) error {
		if err := db.PingDB(); err != nil {
			log.WithError(err).Error("БД недоступна")
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("database is unavailable"))
		}
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse("ok"))
	})
	if *config.Conf.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiV1.Use(middleware.WithBodyLimit(int64(bodyLimit)))
	if config.Conf.App.ErrNotifyAddr != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyAddr))
	}
	apiv1.InitAuthApiRouters(apiV1)

	// маршруты ниже только с JWT и по ролям, auth зарегистрирован раньше и сюда не доходит
	apiV1.Use(middleware.AuthorizationRequired(), middleware.RbacMiddleware())
	apiv1.InitUserApiRouters(apiV1)
	apiv1.InitLabApiRouters(apiV1)
	apiv1.InitEquipmentApiRouters(apiV1)
	apiv1.InitRequestApiRouters(apiV1)
	apiv1.InitApprovedRequestApiRouters(apiV1)
	apiv1.InitReportApiRouters(apiV1)

	app.Hooks().OnShutdown()

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
