package labstore

import (
	labapimodels "labstock-backend/models/api/lab"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Lab) (id string, err error)
	GetByID(id string) (rec *dbmodels.Lab, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListCount(filter labapimodels.LabFilter) (rowCount int64, err error)
	List(filter labapimodels.LabFilter) (list []dbmodels.Lab, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Lab) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Lab, error) {
	rec := dbmodels.Lab{}
	err := i.db.
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Lab{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Lab{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}

func (i impl) ListCount(filter labapimodels.LabFilter) (rowCount int64, err error) {
	err = i.addFilter(i.db.Model(dbmodels.Lab{}), filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества лабораторий")
	}
	return rowCount, nil
}

func (i impl) List(filter labapimodels.LabFilter) (list []dbmodels.Lab, err error) {
	list = []dbmodels.Lab{}
	offset, limit := filter.GetOffset()
	err = i.addFilter(i.db.Model(dbmodels.Lab{}), filter).
		Limit(limit).
		Offset(offset).
		Order("lab_name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter labapimodels.LabFilter) *gorm.DB {
	if filter.Search != "" {
		tx = tx.Where("lab_name ilike ? or department ilike ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return tx
}
