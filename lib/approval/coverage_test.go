package approvalhandler

import (
	"testing"

	approvalapimodels "labstock-backend/models/api/approval"
	dbmodels "labstock-backend/models/db"

	"github.com/stretchr/testify/require"
)

func invoices(sets ...[]int) []approvalapimodels.InvoiceData {
	result := []approvalapimodels.InvoiceData{}
	for _, set := range sets {
		result = append(result, approvalapimodels.InvoiceData{ItemIndexes: set})
	}
	return result
}

func TestCheckCoverage(t *testing.T) {
	names := []string{"Burette", "Flask"}

	require.Empty(t, CheckCoverage(names, invoices([]int{0}, []int{1})))
	require.Empty(t, CheckCoverage(names, invoices([]int{1, 0})))

	require.Equal(t, "attach at least one invoice", CheckCoverage(names, nil))
	require.Contains(t, CheckCoverage(names, invoices([]int{0})), `missing: "Flask"`)
	require.Contains(t, CheckCoverage(names, invoices([]int{0, 1}, []int{1})), "already covered")
	require.Contains(t, CheckCoverage(names, invoices([]int{0, 1}, []int{})), "does not cover any item")
	require.Contains(t, CheckCoverage(names, invoices([]int{0, 2})), "does not exist")
	require.Contains(t, CheckCoverage(names, invoices([]int{-1, 0, 1})), "does not exist")
}

func TestParseExpenses(t *testing.T) {
	items := dbmodels.ApprovedItems{
		{Name: "Burette", ApprovedQuantity: 4},
		{Name: "Flask", ApprovedQuantity: 1},
	}
	expenses, total, hMsg := ParseExpenses(items, []approvalapimodels.ExpenseData{
		{Index: 1, AmountSpent: "3"},
		{Index: 0, AmountSpent: "10.005"},
	})
	require.Empty(t, hMsg)
	require.Len(t, expenses, 2)
	require.Equal(t, "Burette", expenses[0].Name)
	require.Equal(t, "10.01", expenses[0].AmountSpent.StringFixed(2))
	require.Equal(t, "2.50", expenses[0].UnitPrice.StringFixed(2))
	require.Equal(t, "13.01", total.StringFixed(2))

	_, _, hMsg = ParseExpenses(items, []approvalapimodels.ExpenseData{{Index: 0, AmountSpent: "1"}})
	require.Equal(t, `enter the amount spent for "Flask"`, hMsg)

	_, _, hMsg = ParseExpenses(items, []approvalapimodels.ExpenseData{{Index: 0, AmountSpent: "1"}, {Index: 0, AmountSpent: "2"}})
	require.Contains(t, hMsg, "more than once")

	_, _, hMsg = ParseExpenses(items, []approvalapimodels.ExpenseData{{Index: 5, AmountSpent: "1"}})
	require.Contains(t, hMsg, "does not exist")

	_, _, hMsg = ParseExpenses(items, []approvalapimodels.ExpenseData{{Index: 0, AmountSpent: "1", UnitPrice: "-2"}, {Index: 1, AmountSpent: "1"}})
	require.Contains(t, hMsg, "unit price")
}
