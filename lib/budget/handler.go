package budgethandler

import (
	"bytes"
	"labstock-backend/db"
	approvalstore "labstock-backend/lib/approval/store"
	budgetstore "labstock-backend/lib/budget/store"
	equipmentstore "labstock-backend/lib/equipment/store"
	xlsexport "labstock-backend/lib/export/xls"
	labstore "labstock-backend/lib/lab/store"
	requeststore "labstock-backend/lib/request/store"
	initchecker "labstock-backend/lib/utils/init-checker"
	reportapimodels "labstock-backend/models/api/report"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Provider отчеты строятся по агрегатам lab_budgets, без пересчета по всем выдачам
type Provider interface {
	Budget(labID string) (list []reportapimodels.BudgetView, hMsg string, err error)
	Overview() (view reportapimodels.OverviewView, err error)
	ExportExpenses(filter reportapimodels.ExpensesExportFilter) (*bytes.Buffer, string, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, xlsexport.Instance)
}

func NewInstance(DB *gorm.DB, exporter xlsexport.Provider) Provider {
	instance := impl{
		db:             DB,
		budgetStore:    budgetstore.NewInstance,
		labStore:       labstore.NewInstance,
		requestStore:   requeststore.NewInstance,
		equipmentStore: equipmentstore.NewInstance,
		approvalStore:  approvalstore.NewInstance,
		exporter:       exporter,
	}
	initchecker.CheckInit("exporter", instance.exporter)
	return instance
}

type impl struct {
	db             *gorm.DB
	budgetStore    func(tx *gorm.DB) budgetstore.Provider
	labStore       func(tx *gorm.DB) labstore.Provider
	requestStore   func(tx *gorm.DB) requeststore.Provider
	equipmentStore func(tx *gorm.DB) equipmentstore.Provider
	approvalStore  func(tx *gorm.DB) approvalstore.Provider
	exporter       xlsexport.Provider
}

func (i impl) Budget(labID string) (list []reportapimodels.BudgetView, hMsg string, err error) {
	if labID == "" {
		list, err = i.budgets()
		return list, "", err
	}
	lab, err := i.labStore(i.db).GetByID(labID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if lab == nil {
		return nil, "lab not found", nil
	}
	rec, err := i.budgetStore(i.db).Get(labID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения бюджета лаборатории")
	}
	if rec == nil {
		// по лаборатории еще не было решений
		rec = &dbmodels.LabBudget{LabID: labID, TotalSpent: decimal.Zero}
	}
	view := reportapimodels.BudgetConvert(*rec)
	view.LabName = lab.LabName
	return []reportapimodels.BudgetView{view}, "", nil
}

func (i impl) budgets() ([]reportapimodels.BudgetView, error) {
	recList, err := i.budgetStore(i.db).List()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения бюджетов")
	}
	labIDs := make([]string, 0, len(recList))
	for _, rec := range recList {
		labIDs = append(labIDs, rec.LabID)
	}
	labNames, err := i.labNames(labIDs)
	if err != nil {
		return nil, err
	}
	list := make([]reportapimodels.BudgetView, 0, len(recList))
	for _, rec := range recList {
		view := reportapimodels.BudgetConvert(rec)
		view.LabName = labNames[rec.LabID]
		list = append(list, view)
	}
	return list, nil
}

func (i impl) Overview() (view reportapimodels.OverviewView, err error) {
	view.RequestsByStatus, err = i.requestStore(i.db).CountByStatus()
	if err != nil {
		return view, errors.Wrap(err, "ошибка подсчета заявок по статусам")
	}
	lowStock, err := i.equipmentStore(i.db).ListLowStock()
	if err != nil {
		return view, errors.Wrap(err, "ошибка получения оборудования с низким остатком")
	}
	view.LowStock = make([]reportapimodels.LowStockItem, 0, len(lowStock))
	for _, rec := range lowStock {
		view.LowStock = append(view.LowStock, reportapimodels.LowStockItem{
			EquipmentID:   rec.ID,
			Name:          rec.Name,
			Quantity:      rec.Quantity,
			LowStockAlert: rec.LowStockAlert,
		})
	}
	view.Budgets, err = i.budgets()
	if err != nil {
		return view, err
	}
	return view, nil
}

func (i impl) ExportExpenses(filter reportapimodels.ExpensesExportFilter) (*bytes.Buffer, string, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, "date range is invalid", nil
	}
	list, err := i.approvalStore(i.db).ListCompleted(filter)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения закрытых выдач")
	}
	labIDs := make([]string, 0, len(list))
	for _, rec := range list {
		labIDs = append(labIDs, rec.LabID)
	}
	labNames, err := i.labNames(labIDs)
	if err != nil {
		return nil, "", err
	}
	buf, err := i.exporter.ExportExpenses(list, labNames)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка выгрузки расходов")
	}
	log.
		WithField("lab_id", filter.LabID).
		WithField("rows", len(list)).
		Info("выгружены расходы по лабораториям")
	return buf, "", nil
}

func (i impl) labNames(labIDs []string) (map[string]string, error) {
	labNames := map[string]string{}
	store := i.labStore(i.db)
	for _, labID := range labIDs {
		if _, ok := labNames[labID]; ok {
			continue
		}
		lab, err := store.GetByID(labID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения лаборатории")
		}
		labNames[labID] = ""
		if lab != nil {
			labNames[labID] = lab.LabName
		}
	}
	return labNames, nil
}
