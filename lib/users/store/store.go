package usersstore

import (
	"labstock-backend/models"
	userapimodels "labstock-backend/models/api/user"
	dbmodels "labstock-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(id string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListCount(filter userapimodels.UserFilter) (rowCount int64, err error)
	List(filter userapimodels.UserFilter) (list []dbmodels.User, err error)
	ListByRoles(roles []models.UserRole) (list []dbmodels.User, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	rec.Personal.Email = strings.ToLower(strings.TrimSpace(rec.Personal.Email))
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	return i.get("id = ?", id)
}

func (i impl) FindByEmail(email string) (*dbmodels.User, error) {
	return i.get("personal_email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (i impl) get(query, arg string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where(query, arg).
		Preload("Lab").
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
		Model(&dbmodels.User{}).
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
	rec := dbmodels.User{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}

func (i impl) ListCount(filter userapimodels.UserFilter) (rowCount int64, err error) {
	err = i.addFilter(i.db.Model(dbmodels.User{}), filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества пользователей")
	}
	return rowCount, nil
}

func (i impl) List(filter userapimodels.UserFilter) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	offset, limit := filter.GetOffset()
	err = i.addFilter(i.db.Model(dbmodels.User{}), filter).
		Preload("Lab").
		Limit(limit).
		Offset(offset).
		Order("personal_name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByRoles(roles []models.UserRole) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	err = i.db.
		Where("role in (?)", roles).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter userapimodels.UserFilter) *gorm.DB {
	if filter.Role != "" {
		tx = tx.Where("role = ?", filter.Role)
	}
	if filter.LabID != "" {
		tx = tx.Where("lab_id = ?", filter.LabID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		tx = tx.Where("personal_name ilike ? or personal_email ilike ?", search, search)
	}
	return tx
}
