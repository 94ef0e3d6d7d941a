package initializers

import (
	"context"
	"labstock-backend/config"
	"labstock-backend/fiberlog"
	approvalhandler "labstock-backend/lib/approval"
	authhandler "labstock-backend/lib/auth"
	budgethandler "labstock-backend/lib/budget"
	equipmenthandler "labstock-backend/lib/equipment"
	lowstockworker "labstock-backend/lib/equipment/low-stock-worker"
	xlsexport "labstock-backend/lib/export/xls"
	labhandler "labstock-backend/lib/lab"
	"labstock-backend/lib/media"
	"labstock-backend/lib/notify"
	"labstock-backend/lib/rbac"
	requesthandler "labstock-backend/lib/request"
	usershandler "labstock-backend/lib/users"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	media.NewHandler()
	notify.NewHandler()
	xlsexport.NewHandler()
	rbac.NewHandler()
	authhandler.NewHandler()
	usershandler.NewHandler()
	labhandler.NewHandler()
	equipmenthandler.NewHandler()
	requesthandler.NewHandler()
	approvalhandler.NewHandler()
	budgethandler.NewHandler()
	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача рассылки списка оборудования с низким остатком
	if *config.Conf.Worker.LowStockEnabled {
		lowstockworker.StartWorker(ctx)
	}
}
