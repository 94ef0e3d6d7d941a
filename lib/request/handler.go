package requesthandler

import (
	"labstock-backend/db"
	equipmentstore "labstock-backend/lib/equipment/store"
	"labstock-backend/lib/metrics"
	requeststore "labstock-backend/lib/request/store"
	"labstock-backend/models"
	requestapimodels "labstock-backend/models/api/request"
	dbmodels "labstock-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Create подает заявку от имени пользователя сессии, остатки не проверяются и не меняются
	Create(session models.Session, data requestapimodels.RequestCreateData) (id, hMsg string, err error)
	Get(session models.Session, id string) (item requestapimodels.RequestView, hMsg string, err error)
	List(session models.Session, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB)
}

func NewInstance(DB *gorm.DB) Provider {
	return impl{
		db:             DB,
		store:          requeststore.NewInstance,
		equipmentStore: equipmentstore.NewInstance,
	}
}

type impl struct {
	db             *gorm.DB
	store          func(tx *gorm.DB) requeststore.Provider
	equipmentStore func(tx *gorm.DB) equipmentstore.Provider
}

func (i impl) Create(session models.Session, data requestapimodels.RequestCreateData) (id, hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("lab_id", session.LabID)
	err = data.Validate()
	if err != nil {
		return "", err.Error(), nil
	}
	if session.LabID == "" {
		return "", "user is not assigned to a lab", nil
	}
	ids := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		ids = append(ids, item.EquipmentID)
	}
	equipmentList, err := i.equipmentStore(i.db).GetByIDs(ids)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка получения оборудования")
	}
	equipmentMap := make(map[string]dbmodels.Equipment, len(equipmentList))
	for _, rec := range equipmentList {
		equipmentMap[rec.ID] = rec
	}
	items := make(dbmodels.RequestItems, 0, len(data.Items))
	for _, item := range data.Items {
		equipment, ok := equipmentMap[item.EquipmentID]
		if !ok {
			return "", "selected equipment no longer exists", nil
		}
		items = append(items, dbmodels.RequestItem{
			EquipmentID: equipment.ID,
			Name:        equipment.Name,
			Quantity:    item.Quantity,
			Type:        equipment.Type,
			Img:         equipment.ImageUrl,
		})
	}
	rec := dbmodels.Request{
		UserID:      session.UserID,
		Username:    session.Name,
		LabID:       session.LabID,
		Title:       strings.TrimSpace(data.Title),
		Description: strings.TrimSpace(data.Description),
		Equipment:   items,
		Status:      models.RequestStatusPending,
	}
	id, err = i.store(i.db).Create(rec)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка создания заявки")
	}
	metrics.RequestSubmitted()
	logger.
		WithField("request_id", id).
		WithField("items", len(items)).
		Info("подана заявка на оборудование")
	return id, "", nil
}

func (i impl) Get(session models.Session, id string) (item requestapimodels.RequestView, hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения заявки")
	}
	if rec == nil || !canView(session, *rec) {
		return item, "request not found", nil
	}
	return requestapimodels.RequestConvert(*rec), "", nil
}

func (i impl) List(session models.Session, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error) {
	if !session.IsStockManager() {
		filter.LabID = session.LabID
	}
	store := i.store(i.db)
	rowCount, err = store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка заявок")
	}
	list = make([]requestapimodels.RequestView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, requestapimodels.RequestConvert(rec))
	}
	return list, rowCount, nil
}

// сотрудник лаборатории видит только заявки своей лаборатории
func canView(session models.Session, rec dbmodels.Request) bool {
	if session.IsStockManager() {
		return true
	}
	return session.LabID != "" && rec.LabID == session.LabID
}
