package equipmentstore

import (
	equipmentapimodels "labstock-backend/models/api/equipment"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Equipment) (id string, err error)
	GetByID(id string) (rec *dbmodels.Equipment, err error)
	// GetByIDForUpdate блокирует строку до конца транзакции
	GetByIDForUpdate(id string) (rec *dbmodels.Equipment, err error)
	GetByIDs(ids []string) (list []dbmodels.Equipment, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListCount(filter equipmentapimodels.EquipmentFilter) (rowCount int64, err error)
	List(filter equipmentapimodels.EquipmentFilter) (list []dbmodels.Equipment, err error)
	ListLowStock() (list []dbmodels.Equipment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Equipment) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Equipment, error) {
	return i.get(i.db, id)
}

func (i impl) GetByIDForUpdate(id string) (*dbmodels.Equipment, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.Equipment, error) {
	rec := dbmodels.Equipment{}
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

func (i impl) GetByIDs(ids []string) (list []dbmodels.Equipment, err error) {
	list = []dbmodels.Equipment{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("id in (?)", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Equipment{}).
		Where("id = ?", id).
		Updates(updMap)
	err := tx.Error
	if err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Equipment{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListCount(filter equipmentapimodels.EquipmentFilter) (rowCount int64, err error) {
	tx := i.addFilter(i.db.Model(dbmodels.Equipment{}), filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества оборудования")
	}
	return rowCount, nil
}

func (i impl) List(filter equipmentapimodels.EquipmentFilter) (list []dbmodels.Equipment, err error) {
	list = []dbmodels.Equipment{}
	tx := i.addFilter(i.db.Model(dbmodels.Equipment{}), filter)
	page, limit := filter.GetPage()
	tx = i.setPage(tx, page, limit)
	err = tx.Order("name").Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListLowStock() (list []dbmodels.Equipment, err error) {
	list = []dbmodels.Equipment{}
	err = i.db.
		Where("quantity <= low_stock_alert").
		Order("quantity").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter equipmentapimodels.EquipmentFilter) *gorm.DB {
	if filter.Search != "" {
		tx = tx.Where("name ilike ?", "%"+filter.Search+"%")
	}
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	if filter.LowStockOnly {
		tx = tx.Where("quantity <= low_stock_alert")
	}
	return tx
}

func (i impl) setPage(tx *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return tx.Limit(limit).Offset(offset)
}
