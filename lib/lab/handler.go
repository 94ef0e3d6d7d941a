package labhandler

import (
	"labstock-backend/db"
	labstore "labstock-backend/lib/lab/store"
	usersstore "labstock-backend/lib/users/store"
	labapimodels "labstock-backend/models/api/lab"
	userapimodels "labstock-backend/models/api/user"
	dbmodels "labstock-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(data labapimodels.LabData) (id, hMsg string, err error)
	Update(id string, data labapimodels.LabData) (hMsg string, err error)
	Get(id string) (item labapimodels.LabView, hMsg string, err error)
	List(filter labapimodels.LabFilter) (list []labapimodels.LabView, rowCount int64, err error)
	Delete(id string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB)
}

func NewInstance(DB *gorm.DB) Provider {
	return impl{
		db:         DB,
		store:      labstore.NewInstance,
		usersStore: usersstore.NewInstance,
	}
}

type impl struct {
	db         *gorm.DB
	store      func(tx *gorm.DB) labstore.Provider
	usersStore func(tx *gorm.DB) usersstore.Provider
}

func (i impl) Create(data labapimodels.LabData) (id, hMsg string, err error) {
	err = data.Validate()
	if err != nil {
		return "", err.Error(), nil
	}
	rec := dbmodels.Lab{
		LabName:     strings.TrimSpace(data.LabName),
		Department:  strings.TrimSpace(data.Department),
		Location:    strings.TrimSpace(data.Location),
		Systems:     data.Systems,
		Programmers: data.GetProgrammers(),
	}
	id, err = i.store(i.db).Create(rec)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка создания лаборатории")
	}
	log.
		WithField("lab_id", id).
		WithField("lab_name", rec.LabName).
		Info("создана лаборатория")
	return id, "", nil
}

func (i impl) Update(id string, data labapimodels.LabData) (hMsg string, err error) {
	err = data.Validate()
	if err != nil {
		return err.Error(), nil
	}
	store := i.store(i.db)
	rec, err := store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if rec == nil {
		return "lab not found", nil
	}
	updMap := map[string]interface{}{
		"lab_name":    strings.TrimSpace(data.LabName),
		"department":  strings.TrimSpace(data.Department),
		"location":    strings.TrimSpace(data.Location),
		"systems":     data.Systems,
		"programmers": data.GetProgrammers(),
	}
	err = store.Update(id, updMap)
	if err != nil {
		return "", errors.Wrap(err, "ошибка обновления лаборатории")
	}
	return "", nil
}

func (i impl) Get(id string) (item labapimodels.LabView, hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if rec == nil {
		return item, "lab not found", nil
	}
	return labapimodels.LabConvert(*rec), "", nil
}

func (i impl) List(filter labapimodels.LabFilter) (list []labapimodels.LabView, rowCount int64, err error) {
	store := i.store(i.db)
	rowCount, err = store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка лабораторий")
	}
	list = make([]labapimodels.LabView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, labapimodels.LabConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Delete(id string) (hMsg string, err error) {
	store := i.store(i.db)
	rec, err := store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if rec == nil {
		return "lab not found", nil
	}
	userCount, err := i.usersStore(i.db).ListCount(userapimodels.UserFilter{LabID: id})
	if err != nil {
		return "", errors.Wrap(err, "ошибка подсчета пользователей лаборатории")
	}
	if userCount > 0 {
		return "lab still has assigned users", nil
	}
	err = store.Delete(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка удаления лаборатории")
	}
	log.WithField("lab_id", id).Info("лаборатория удалена")
	return "", nil
}
