package requeststore

import (
	"labstock-backend/models"
	requestapimodels "labstock-backend/models/api/request"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (rec *dbmodels.Request, err error)
	// GetByIDForUpdate блокирует строку до конца транзакции
	GetByIDForUpdate(id string) (rec *dbmodels.Request, err error)
	// UpdateStatus меняет статус, только если текущий статус равен from
	UpdateStatus(id string, from models.RequestStatus, updMap map[string]interface{}) (updated bool, err error)
	ListCount(filter requestapimodels.RequestFilter) (rowCount int64, err error)
	List(filter requestapimodels.RequestFilter) (list []dbmodels.Request, err error)
	CountByStatus() (result map[models.RequestStatus]int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Request, error) {
	return i.get(i.db, id)
}

func (i impl) GetByIDForUpdate(id string) (*dbmodels.Request, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := tx.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) UpdateStatus(id string, from models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	if len(updMap) == 0 {
		return false, nil
	}
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ListCount(filter requestapimodels.RequestFilter) (rowCount int64, err error) {
	tx := i.addFilter(i.db.Model(dbmodels.Request{}), filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества заявок")
	}
	return rowCount, nil
}

func (i impl) List(filter requestapimodels.RequestFilter) (list []dbmodels.Request, err error) {
	list = []dbmodels.Request{}
	tx := i.addFilter(i.db.Model(dbmodels.Request{}), filter)
	page, limit := filter.GetPage()
	tx = i.setPage(tx, page, limit)
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

type statusCount struct {
	Status models.RequestStatus
	Total  int64
}

func (i impl) CountByStatus() (map[models.RequestStatus]int64, error) {
	rows := []statusCount{}
	err := i.db.
		Model(dbmodels.Request{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[models.RequestStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

func (i impl) addFilter(tx *gorm.DB, filter requestapimodels.RequestFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.LabID != "" {
		tx = tx.Where("lab_id = ?", filter.LabID)
	}
	return tx
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
