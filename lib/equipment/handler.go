package equipmenthandler

import (
	"bytes"
	"context"
	"fmt"
	"labstock-backend/db"
	equipmenthistorystore "labstock-backend/lib/equipment/history-store"
	equipmentstore "labstock-backend/lib/equipment/store"
	"labstock-backend/lib/media"
	"labstock-backend/lib/metrics"
	initchecker "labstock-backend/lib/utils/init-checker"
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	equipmentapimodels "labstock-backend/models/api/equipment"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(session models.Session, data equipmentapimodels.EquipmentData) (id, hMsg string, err error)
	Update(session models.Session, id string, data equipmentapimodels.EquipmentData) (hMsg string, err error)
	Get(id string) (item equipmentapimodels.EquipmentView, hMsg string, err error)
	List(filter equipmentapimodels.EquipmentFilter) (list []equipmentapimodels.EquipmentView, rowCount int64, err error)
	Delete(id string) (hMsg string, err error)
	// UpdateQuantity ручная корректировка остатка с записью в журнал
	UpdateQuantity(session models.Session, id string, data equipmentapimodels.QuantityUpdate) (item equipmentapimodels.EquipmentView, hMsg string, err error)
	History(id string) (list []equipmentapimodels.HistoryView, hMsg string, err error)
	UploadImage(ctx context.Context, id string, file apimodels.FileData) (url, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, db.Transaction, media.Instance)
}

func NewInstance(DB *gorm.DB, runTx db.TxRunner, mediaProvider media.Provider) Provider {
	instance := impl{
		db:           DB,
		runTx:        runTx,
		store:        equipmentstore.NewInstance,
		historyStore: equipmenthistorystore.NewInstance,
		media:        mediaProvider,
	}
	initchecker.CheckInit(
		"runTx", instance.runTx,
		"media", instance.media,
	)
	return instance
}

type impl struct {
	db           *gorm.DB
	runTx        db.TxRunner
	store        func(tx *gorm.DB) equipmentstore.Provider
	historyStore func(tx *gorm.DB) equipmenthistorystore.Provider
	media        media.Provider
}

func (i impl) Create(session models.Session, data equipmentapimodels.EquipmentData) (id, hMsg string, err error) {
	logger := log.WithField("user_id", session.UserID)
	err = data.Validate()
	if err != nil {
		return "", err.Error(), nil
	}
	rec := dbmodels.Equipment{
		Name:          strings.TrimSpace(data.Name),
		Type:          data.Type,
		Quantity:      data.Quantity,
		LowStockAlert: data.LowStockAlert,
		ImageUrl:      data.ImageUrl,
	}
	err = i.runTx(func(tx *gorm.DB) error {
		id, err = i.store(tx).Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания оборудования")
		}
		_, err = i.historyStore(tx).Create(dbmodels.EquipmentHistory{
			EquipmentID:      id,
			Date:             time.Now(),
			PreviousQuantity: 0,
			NewQuantity:      rec.Quantity,
			Notes:            "initial stock",
			UpdatedBy:        session.Name,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка записи журнала остатков")
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	logger.
		WithField("equipment_id", id).
		WithField("equipment_name", rec.Name).
		Info("добавлено оборудование")
	return id, "", nil
}

func (i impl) Update(session models.Session, id string, data equipmentapimodels.EquipmentData) (hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("equipment_id", id)
	err = data.Validate()
	if err != nil {
		return err.Error(), nil
	}
	err = i.runTx(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err := store.GetByIDForUpdate(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения оборудования")
		}
		if rec == nil {
			hMsg = "equipment not found"
			return nil
		}
		updMap := map[string]interface{}{
			"name":            strings.TrimSpace(data.Name),
			"type":            data.Type,
			"low_stock_alert": data.LowStockAlert,
			"updated_at":      time.Now(),
		}
		if data.ImageUrl != "" {
			updMap["image_url"] = data.ImageUrl
		}
		if data.Quantity != rec.Quantity {
			updMap["quantity"] = data.Quantity
			_, err = i.historyStore(tx).Create(dbmodels.EquipmentHistory{
				EquipmentID:      id,
				Date:             time.Now(),
				PreviousQuantity: rec.Quantity,
				NewQuantity:      data.Quantity,
				Notes:            "updated with equipment details",
				UpdatedBy:        session.Name,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка записи журнала остатков")
			}
		}
		return store.Update(id, updMap)
	})
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	logger.Info("обновлено оборудование")
	return "", nil
}

func (i impl) Get(id string) (item equipmentapimodels.EquipmentView, hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения оборудования")
	}
	if rec == nil {
		return item, "equipment not found", nil
	}
	return equipmentapimodels.EquipmentConvert(*rec), "", nil
}

func (i impl) List(filter equipmentapimodels.EquipmentFilter) (list []equipmentapimodels.EquipmentView, rowCount int64, err error) {
	store := i.store(i.db)
	rowCount, err = store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка оборудования")
	}
	list = make([]equipmentapimodels.EquipmentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, equipmentapimodels.EquipmentConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Delete(id string) (hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения оборудования")
	}
	if rec == nil {
		return "equipment not found", nil
	}
	err = i.store(i.db).Delete(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка удаления оборудования")
	}
	log.WithField("equipment_id", id).Info("оборудование удалено")
	return "", nil
}

func (i impl) UpdateQuantity(session models.Session, id string, data equipmentapimodels.QuantityUpdate) (item equipmentapimodels.EquipmentView, hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("equipment_id", id)
	err = data.Validate()
	if err != nil {
		return item, err.Error(), nil
	}
	var rec *dbmodels.Equipment
	err = i.runTx(func(tx *gorm.DB) error {
		store := i.store(tx)
		rec, err = store.GetByIDForUpdate(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения оборудования")
		}
		if rec == nil {
			hMsg = "equipment not found"
			return nil
		}
		now := time.Now()
		_, err = i.historyStore(tx).Create(dbmodels.EquipmentHistory{
			EquipmentID:      id,
			Date:             now,
			PreviousQuantity: rec.Quantity,
			NewQuantity:      data.Quantity,
			Notes:            strings.TrimSpace(data.Notes),
			UpdatedBy:        session.Name,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка записи журнала остатков")
		}
		err = store.Update(id, map[string]interface{}{
			"quantity":   data.Quantity,
			"updated_at": now,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка обновления остатка")
		}
		logger = logger.WithField("previous_quantity", rec.Quantity)
		rec.Quantity = data.Quantity
		rec.UpdatedAt = now
		return nil
	})
	if err != nil || hMsg != "" {
		return item, hMsg, err
	}
	metrics.StockAdjusted()
	logger.
		WithField("new_quantity", data.Quantity).
		Info("остаток скорректирован вручную")
	return equipmentapimodels.EquipmentConvert(*rec), "", nil
}

func (i impl) History(id string) (list []equipmentapimodels.HistoryView, hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения оборудования")
	}
	if rec == nil {
		return nil, "equipment not found", nil
	}
	recList, err := i.historyStore(i.db).List(id)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения журнала остатков")
	}
	list = make([]equipmentapimodels.HistoryView, 0, len(recList))
	for _, historyRec := range recList {
		list = append(list, equipmentapimodels.HistoryConvert(historyRec))
	}
	return list, "", nil
}

func (i impl) UploadImage(ctx context.Context, id string, file apimodels.FileData) (url, hMsg string, err error) {
	if len(file.Body) == 0 {
		return "", "image file is empty", nil
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return "", fmt.Sprintf("file %q is not an image", file.FileName), nil
	}
	store := i.store(i.db)
	rec, err := store.GetByID(id)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка получения оборудования")
	}
	if rec == nil {
		return "", "equipment not found", nil
	}
	url, err = i.media.Upload(ctx, media.EquipmentFolder, file.FileName, file.ContentType, bytes.NewReader(file.Body), int64(len(file.Body)))
	if err != nil {
		return "", "", err
	}
	err = store.Update(id, map[string]interface{}{"image_url": url})
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка сохранения ссылки на изображение")
	}
	if rec.ImageUrl != "" {
		if delErr := i.media.Delete(ctx, rec.ImageUrl); delErr != nil {
			log.WithError(delErr).WithField("equipment_id", id).Warn("не удалось удалить предыдущее изображение")
		}
	}
	return url, "", nil
}
