package xlsexport

import (
	"bytes"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportExpenses строка на каждую позицию закрытой выдачи и итог по всем суммам
	ExportExpenses(list []dbmodels.ApprovedRequest, labNames map[string]string) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const (
	sheetName     = "Sheet1"
	unitPriceCol  = 6
	amountCol     = 7
	expensesSheet = "Expenses"
)

var expenseHeaders = []string{"Lab", "Approval", "Completed", "Item", "Approved qty", "Unit price", "Amount spent"}

func (i impl) ExportExpenses(list []dbmodels.ApprovedRequest, labNames map[string]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	row, err := writeHeader(f, sheetName, 0, expenseHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	row, err = writeExpenseData(f, sheetName, list, labNames, row)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
	}
	if err = f.SetSheetName(sheetName, expensesSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	return f.WriteToBuffer()
}

func writeExpenseData(f *excelize.File, sheet string, list []dbmodels.ApprovedRequest, labNames map[string]string, row int) (int, error) {
	firstDataRow := row + 1
	total := decimal.Zero
	for _, rec := range list {
		completed := ""
		if rec.CompletedAt != nil {
			completed = rec.CompletedAt.Format("02.01.2006")
		}
		for _, expense := range rec.EquipmentExpenses {
			row++
			values := []interface{}{
				labNames[rec.LabID],
				rec.ID,
				completed,
				expense.Name,
				expense.ApprovedQuantity,
				expense.UnitPrice.InexactFloat64(),
				expense.AmountSpent.InexactFloat64(),
			}
			for idx, value := range values {
				if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
					return row, err
				}
			}
			total = total.Add(expense.AmountSpent)
		}
	}
	if row >= firstDataRow {
		if err := applyDataCellStyle(f, sheet, 1, firstDataRow, unitPriceCol-1, row); err != nil {
			return row, err
		}
		if err := applyMoneyStyle(f, sheet, unitPriceCol, firstDataRow, amountCol, row, false); err != nil {
			return row, err
		}
	}
	row++
	if err := writeColumn(f, sheet, 1, row, "Total"); err != nil {
		return row, err
	}
	if err := writeColumn(f, sheet, amountCol, row, total.InexactFloat64()); err != nil {
		return row, err
	}
	if err := applyMoneyStyle(f, sheet, amountCol, row, amountCol, row, true); err != nil {
		return row, err
	}
	return row, nil
}
