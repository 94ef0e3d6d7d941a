package lowstockworker

import (
	"context"
	"labstock-backend/config"
	"labstock-backend/db"
	equipmentstore "labstock-backend/lib/equipment/store"
	"labstock-backend/lib/metrics"
	"labstock-backend/lib/notify"
	baseworker "labstock-backend/lib/utils/base-worker"
	"labstock-backend/lib/utils/helpers"
	"time"
)

func StartWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Worker.LowStockIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	i := &impl{
		BaseImpl:       *baseworker.NewInstance("LowStockWorker", 30*time.Second, interval),
		equipmentStore: equipmentstore.NewInstance(db.DB),
		notify:         notify.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	equipmentStore equipmentstore.Provider
	notify         notify.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.equipmentStore.ListLowStock()
	if err != nil {
		logger.WithError(err).Error("Ошибка получения оборудования с низким остатком")
		return
	}
	metrics.SetLowStock(len(list))
	if len(list) == 0 || helpers.IsContextDone(ctx) {
		return
	}
	logger.
		WithField("items", len(list)).
		Info("Найдено оборудование с низким остатком")
	i.notify.LowStock(list)
}
