package approvalhandler

import (
	"fmt"
	approvalapimodels "labstock-backend/models/api/approval"
	dbmodels "labstock-backend/models/db"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CheckCoverage счета должны покрывать каждую позицию ровно один раз.
// Возвращает сообщение для пользователя или пустую строку
func CheckCoverage(itemNames []string, invoices []approvalapimodels.InvoiceData) string {
	if len(invoices) == 0 {
		return "attach at least one invoice"
	}
	covered := make(map[int]int, len(itemNames))
	for invoiceIdx, invoice := range invoices {
		if len(invoice.ItemIndexes) == 0 {
			return fmt.Sprintf("invoice %d does not cover any item", invoiceIdx+1)
		}
		for _, itemIdx := range invoice.ItemIndexes {
			if itemIdx < 0 || itemIdx >= len(itemNames) {
				return fmt.Sprintf("invoice %d references item %d which does not exist", invoiceIdx+1, itemIdx+1)
			}
			if prev, ok := covered[itemIdx]; ok {
				return fmt.Sprintf("item %q is already covered by invoice %d", itemNames[itemIdx], prev+1)
			}
			covered[itemIdx] = invoiceIdx
		}
	}
	if len(covered) != len(itemNames) {
		missing := make([]string, 0, len(itemNames)-len(covered))
		for idx, name := range itemNames {
			if _, ok := covered[idx]; !ok {
				missing = append(missing, fmt.Sprintf("%q", name))
			}
		}
		return fmt.Sprintf("every item must be covered by an invoice, missing: %s", strings.Join(missing, ", "))
	}
	return ""
}

// ParseExpenses одна запись на каждую утвержденную позицию, суммы в виде десятичных строк
func ParseExpenses(items dbmodels.ApprovedItems, data []approvalapimodels.ExpenseData) (expenses dbmodels.EquipmentExpenses, total decimal.Decimal, hMsg string) {
	byIndex := make(map[int]approvalapimodels.ExpenseData, len(data))
	for _, expense := range data {
		if expense.Index < 0 || expense.Index >= len(items) {
			return nil, decimal.Zero, fmt.Sprintf("expense references item %d which does not exist", expense.Index+1)
		}
		if _, ok := byIndex[expense.Index]; ok {
			return nil, decimal.Zero, fmt.Sprintf("amount for %q is entered more than once", items[expense.Index].Name)
		}
		byIndex[expense.Index] = expense
	}
	expenses = make(dbmodels.EquipmentExpenses, 0, len(items))
	total = decimal.Zero
	for idx, item := range items {
		expense, ok := byIndex[idx]
		if !ok || strings.TrimSpace(expense.AmountSpent) == "" {
			return nil, decimal.Zero, fmt.Sprintf("enter the amount spent for %q", item.Name)
		}
		amount, ok := parseMoney(expense.AmountSpent)
		if !ok {
			return nil, decimal.Zero, fmt.Sprintf("amount spent for %q must be a non-negative number", item.Name)
		}
		unitPrice := decimal.Zero
		if strings.TrimSpace(expense.UnitPrice) != "" {
			unitPrice, ok = parseMoney(expense.UnitPrice)
			if !ok {
				return nil, decimal.Zero, fmt.Sprintf("unit price for %q must be a non-negative number", item.Name)
			}
		} else if item.ApprovedQuantity > 0 {
			unitPrice = amount.Div(decimal.NewFromInt(int64(item.ApprovedQuantity))).Round(2)
		}
		expenses = append(expenses, dbmodels.EquipmentExpense{
			Name:             item.Name,
			ApprovedQuantity: item.ApprovedQuantity,
			UnitPrice:        unitPrice,
			AmountSpent:      amount,
		})
		total = total.Add(amount)
	}
	return expenses, total, ""
}

func parseMoney(value string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount.Round(2), true
}

func toInt64Array(indexes []int) pq.Int64Array {
	result := make(pq.Int64Array, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, int64(idx))
	}
	sort.Slice(result, func(a, b int) bool { return result[a] < result[b] })
	return result
}
