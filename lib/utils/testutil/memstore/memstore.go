// Package memstore хранилища в памяти с тем же интерфейсом, что у gorm-хранилищ.
// Используется в тестах обработчиков: транзакция откатывает все изменения при ошибке
package memstore

import (
	"sort"
	"sync"
	"time"

	dbmodels "labstock-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	Equipment map[string]dbmodels.Equipment
	History   []dbmodels.EquipmentHistory
	Requests  map[string]dbmodels.Request
	Approvals map[string]dbmodels.ApprovedRequest
	Invoices  []dbmodels.ApprovalInvoice
	Budgets   map[string]dbmodels.LabBudget
	Labs      map[string]dbmodels.Lab
	Users     map[string]dbmodels.User

	// Fail ошибки, которые вернет метод хранилища, ключ вида "equipment.Update"
	Fail map[string]error
}

func New() *DB {
	return &DB{
		Equipment: map[string]dbmodels.Equipment{},
		Requests:  map[string]dbmodels.Request{},
		Approvals: map[string]dbmodels.ApprovedRequest{},
		Budgets:   map[string]dbmodels.LabBudget{},
		Labs:      map[string]dbmodels.Lab{},
		Users:     map[string]dbmodels.User{},
		Fail:      map[string]error{},
	}
}

// Transaction выполняет fc последовательно с другими транзакциями, при ошибке восстанавливает состояние
func (d *DB) Transaction(fc func(tx *gorm.DB) error) error {
	d.txMu.Lock()
	defer d.txMu.Unlock()
	snap := d.snapshot()
	err := fc(nil)
	if err != nil {
		d.restore(snap)
	}
	return err
}

type state struct {
	equipment map[string]dbmodels.Equipment
	history   []dbmodels.EquipmentHistory
	requests  map[string]dbmodels.Request
	approvals map[string]dbmodels.ApprovedRequest
	invoices  []dbmodels.ApprovalInvoice
	budgets   map[string]dbmodels.LabBudget
	labs      map[string]dbmodels.Lab
	users     map[string]dbmodels.User
}

func (d *DB) snapshot() state {
	d.mu.Lock()
	defer d.mu.Unlock()
	return state{
		equipment: copyMap(d.Equipment),
		history:   append([]dbmodels.EquipmentHistory{}, d.History...),
		requests:  copyMap(d.Requests),
		approvals: copyMap(d.Approvals),
		invoices:  append([]dbmodels.ApprovalInvoice{}, d.Invoices...),
		budgets:   copyMap(d.Budgets),
		labs:      copyMap(d.Labs),
		users:     copyMap(d.Users),
	}
}

func (d *DB) restore(s state) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Equipment = s.equipment
	d.History = s.history
	d.Requests = s.requests
	d.Approvals = s.approvals
	d.Invoices = s.invoices
	d.Budgets = s.budgets
	d.Labs = s.labs
	d.Users = s.users
}

func (d *DB) fail(key string) error {
	if err, ok := d.Fail[key]; ok {
		return err
	}
	return nil
}

func copyMap[T any](src map[string]T) map[string]T {
	dst := make(map[string]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedValues[T any](src map[string]T, less func(a, b T) bool) []T {
	list := make([]T, 0, len(src))
	for _, v := range src {
		list = append(list, v)
	}
	sort.Slice(list, func(a, b int) bool { return less(list[a], list[b]) })
	return list
}

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func newBase(base dbmodels.BaseModel) dbmodels.BaseModel {
	now := time.Now()
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	return base
}

func unknownField(key string) error {
	return errors.Errorf("memstore: неизвестное поле %v", key)
}
