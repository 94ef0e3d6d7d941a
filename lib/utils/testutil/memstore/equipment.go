package memstore

import (
	equipmenthistorystore "labstock-backend/lib/equipment/history-store"
	equipmentstore "labstock-backend/lib/equipment/store"
	"labstock-backend/models"
	equipmentapimodels "labstock-backend/models/api/equipment"
	dbmodels "labstock-backend/models/db"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (d *DB) EquipmentStore(_ *gorm.DB) equipmentstore.Provider {
	return equipmentImpl{d: d}
}

func (d *DB) HistoryStore(_ *gorm.DB) equipmenthistorystore.Provider {
	return historyImpl{d: d}
}

type equipmentImpl struct {
	d *DB
}

func (i equipmentImpl) Create(rec dbmodels.Equipment) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("equipment.Create"); err != nil {
		return "", err
	}
	rec.BaseModel = newBase(rec.BaseModel)
	i.d.Equipment[rec.ID] = rec
	return rec.ID, nil
}

func (i equipmentImpl) GetByID(id string) (*dbmodels.Equipment, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Equipment[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i equipmentImpl) GetByIDForUpdate(id string) (*dbmodels.Equipment, error) {
	return i.GetByID(id)
}

func (i equipmentImpl) GetByIDs(ids []string) ([]dbmodels.Equipment, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	list := []dbmodels.Equipment{}
	for _, id := range ids {
		if rec, ok := i.d.Equipment[id]; ok {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (i equipmentImpl) Update(id string, updMap map[string]interface{}) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("equipment.Update"); err != nil {
		return err
	}
	rec, ok := i.d.Equipment[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "name":
			rec.Name = value.(string)
		case "type":
			rec.Type = value.(models.EquipmentType)
		case "quantity":
			rec.Quantity = value.(int)
		case "low_stock_alert":
			rec.LowStockAlert = value.(int)
		case "image_url":
			rec.ImageUrl = value.(string)
		case "updated_at":
			rec.UpdatedAt = value.(time.Time)
		default:
			return unknownField(key)
		}
	}
	if rec.Quantity < 0 {
		return errors.New("quantity check constraint violated")
	}
	i.d.Equipment[id] = rec
	return nil
}

func (i equipmentImpl) Delete(id string) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	delete(i.d.Equipment, id)
	return nil
}

func (i equipmentImpl) filter(filter equipmentapimodels.EquipmentFilter) []dbmodels.Equipment {
	list := []dbmodels.Equipment{}
	for _, rec := range i.d.Equipment {
		if filter.Search != "" && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.LowStockOnly && !rec.IsLowStock() {
			continue
		}
		list = append(list, rec)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list
}

func (i equipmentImpl) ListCount(filter equipmentapimodels.EquipmentFilter) (int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return int64(len(i.filter(filter))), nil
}

func (i equipmentImpl) List(filter equipmentapimodels.EquipmentFilter) ([]dbmodels.Equipment, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	offset, limit := filter.GetOffset()
	return page(i.filter(filter), offset, limit), nil
}

func (i equipmentImpl) ListLowStock() ([]dbmodels.Equipment, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return i.filter(equipmentapimodels.EquipmentFilter{LowStockOnly: true}), nil
}

type historyImpl struct {
	d *DB
}

func (i historyImpl) Create(rec dbmodels.EquipmentHistory) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("history.Create"); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	i.d.History = append(i.d.History, rec)
	return rec.ID, nil
}

func (i historyImpl) List(equipmentID string) ([]dbmodels.EquipmentHistory, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	list := []dbmodels.EquipmentHistory{}
	for idx := len(i.d.History) - 1; idx >= 0; idx-- {
		if i.d.History[idx].EquipmentID == equipmentID {
			list = append(list, i.d.History[idx])
		}
	}
	return list, nil
}
