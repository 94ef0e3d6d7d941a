package db

import (
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Lab{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Lab")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Equipment{}, &dbmodels.EquipmentHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Equipment")
	}
	if err := DB.AutoMigrate(&dbmodels.Request{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Request")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovedRequest{}, &dbmodels.ApprovalInvoice{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovedRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.LabBudget{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры LabBudget")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
