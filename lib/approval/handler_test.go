package approvalhandler

import (
	"context"
	"sync"
	"testing"
	"time"

	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	approvalapimodels "labstock-backend/models/api/approval"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var manager = models.Session{UserID: "manager-1", Name: "Stock Manager", Role: models.StockManagerRole}

type fixture struct {
	db       *memstore.DB
	media    *memstore.Media
	notifier *memstore.Notifier
	handler  impl
}

func newFixture() fixture {
	d := memstore.New()
	m := memstore.NewMedia()
	n := &memstore.Notifier{}
	return fixture{
		db:       d,
		media:    m,
		notifier: n,
		handler: impl{
			runTx:          d.Transaction,
			requestStore:   d.RequestStore,
			equipmentStore: d.EquipmentStore,
			historyStore:   d.HistoryStore,
			approvalStore:  d.ApprovalStore,
			budgetStore:    d.BudgetStore,
			labStore:       d.LabStore,
			media:          m,
			notify:         n,
			lockWait:       2 * time.Second,
		},
	}
}

func (f fixture) addEquipment(id, name string, quantity int) {
	f.db.Equipment[id] = dbmodels.Equipment{
		BaseModel: dbmodels.BaseModel{ID: id},
		Name:      name,
		Type:      models.EquipmentConsumable,
		Quantity:  quantity,
	}
}

func (f fixture) addRequest(id string, items ...dbmodels.RequestItem) {
	f.db.Requests[id] = dbmodels.Request{
		BaseModel: dbmodels.BaseModel{ID: id, CreatedAt: time.Now()},
		UserID:    "user-1",
		Username:  "Lab User",
		LabID:     "lab-1",
		Title:     "Titration kit",
		Equipment: items,
		Status:    models.RequestStatusPending,
	}
}

// scenario: A=10, B=1 on hand, request A=5, B=2
func (f fixture) seedScenario() {
	f.addEquipment("eq-a", "Burette", 10)
	f.addEquipment("eq-b", "Flask", 1)
	f.addRequest("req-1",
		dbmodels.RequestItem{EquipmentID: "eq-a", Name: "Burette", Quantity: 5},
		dbmodels.RequestItem{EquipmentID: "eq-b", Name: "Flask", Quantity: 2},
	)
}

func approveData(pairs ...interface{}) approvalapimodels.ApproveData {
	data := approvalapimodels.ApproveData{}
	for idx := 0; idx < len(pairs); idx += 2 {
		data.Items = append(data.Items, approvalapimodels.ApproveItemData{
			EquipmentID:      pairs[idx].(string),
			ApprovedQuantity: pairs[idx+1].(int),
		})
	}
	return data
}

func TestApprovePartial(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	view, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 1))
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.ApprovalStatusPartiallyApproved, view.Status)
	require.Len(t, view.Equipment, 2)

	require.Equal(t, 5, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 0, f.db.Equipment["eq-b"].Quantity)
	require.Equal(t, models.RequestStatusPartiallyApproved, f.db.Requests["req-1"].Status)
	require.NotNil(t, f.db.Requests["req-1"].ApprovedAt)
	require.Len(t, f.db.Approvals, 1)
	require.Len(t, f.db.History, 2)
	require.Equal(t, 1, f.db.Budgets["lab-1"].PartiallyApprovedCount)
	require.Len(t, f.notifier.Decisions, 1)
}

func TestApproveNothingRefused(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 0, "eq-b", 0))
	require.NoError(t, err)
	require.Equal(t, "at least one item must be approved", hMsg)

	require.Empty(t, f.db.Approvals)
	require.Empty(t, f.db.History)
	require.Equal(t, 10, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 1, f.db.Equipment["eq-b"].Quantity)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)
	require.Empty(t, f.notifier.Decisions)
}

func TestApproveDefaultsToRequestedQuantity(t *testing.T) {
	f := newFixture()
	f.addEquipment("eq-a", "Burette", 10)
	f.addEquipment("eq-b", "Flask", 3)
	f.addRequest("req-1",
		dbmodels.RequestItem{EquipmentID: "eq-a", Name: "Burette", Quantity: 5},
		dbmodels.RequestItem{EquipmentID: "eq-b", Name: "Flask", Quantity: 2},
	)

	view, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approvalapimodels.ApproveData{})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.ApprovalStatusApproved, view.Status)
	require.Equal(t, 5, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 1, f.db.Equipment["eq-b"].Quantity)
	require.Equal(t, models.RequestStatusApproved, f.db.Requests["req-1"].Status)
	require.Equal(t, 1, f.db.Budgets["lab-1"].ApprovedCount)
}

func TestApproveZeroItemIsDroppedAndPartial(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	view, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-b", 0))
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.ApprovalStatusPartiallyApproved, view.Status)
	require.Len(t, view.Equipment, 1)
	require.Equal(t, "eq-a", view.Equipment[0].EquipmentID)
	require.Equal(t, 1, f.db.Equipment["eq-b"].Quantity)
}

func TestApproveAboveStockRefused(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 2))
	require.NoError(t, err)
	require.Contains(t, hMsg, "not enough")
	require.Empty(t, f.db.Approvals)
	require.Equal(t, 10, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)
}

func TestApproveUnknownItemRefused(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-x", 1))
	require.NoError(t, err)
	require.Contains(t, hMsg, "not part of this request")
}

func TestApproveNegativeRefused(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", -1))
	require.NoError(t, err)
	require.Equal(t, "approved quantity cannot be negative", hMsg)
}

func TestSecondDecisionRefused(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 1))
	require.NoError(t, err)
	require.Empty(t, hMsg)

	_, hMsg, err = f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 1, "eq-b", 0))
	require.NoError(t, err)
	require.Equal(t, "request has already been decided", hMsg)

	hMsg, err = f.handler.Reject(context.Background(), manager, "req-1", approvalapimodels.RejectData{Reason: "late"})
	require.NoError(t, err)
	require.Equal(t, "request has already been decided", hMsg)

	require.Len(t, f.db.Approvals, 1)
	require.Equal(t, 5, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, models.RequestStatusPartiallyApproved, f.db.Requests["req-1"].Status)
}

func TestApproveMissingRequest(t *testing.T) {
	f := newFixture()
	_, hMsg, err := f.handler.Approve(context.Background(), manager, "nope", approvalapimodels.ApproveData{})
	require.NoError(t, err)
	require.Equal(t, "request not found", hMsg)
}

func TestApproveRollbackOnFailure(t *testing.T) {
	f := newFixture()
	f.seedScenario()
	f.db.Fail["request.UpdateStatus"] = errors.New("connection reset")

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 1))
	require.Error(t, err)
	require.Empty(t, hMsg)

	require.Empty(t, f.db.Approvals)
	require.Empty(t, f.db.History)
	require.Empty(t, f.db.Budgets)
	require.Equal(t, 10, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 1, f.db.Equipment["eq-b"].Quantity)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)
	require.Empty(t, f.notifier.Decisions)
}

func TestApproveRollbackOnStockWriteFailure(t *testing.T) {
	f := newFixture()
	f.seedScenario()
	f.db.Fail["history.Create"] = errors.New("disk full")

	_, _, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 1))
	require.Error(t, err)
	require.Empty(t, f.db.Approvals)
	require.Equal(t, 10, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)
}

func TestConcurrentApprovalsDecideOnce(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	results := make([]string, 4)
	wg := sync.WaitGroup{}
	for idx := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 5, "eq-b", 1))
			require.NoError(t, err)
			results[idx] = hMsg
		}(idx)
	}
	wg.Wait()

	succeeded := 0
	for _, hMsg := range results {
		if hMsg == "" {
			succeeded++
			continue
		}
		require.Equal(t, "request has already been decided", hMsg)
	}
	require.Equal(t, 1, succeeded)
	require.Len(t, f.db.Approvals, 1)
	require.Equal(t, 5, f.db.Equipment["eq-a"].Quantity)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	hMsg, err := f.handler.Reject(context.Background(), manager, "req-1", approvalapimodels.RejectData{Reason: "   "})
	require.NoError(t, err)
	require.Equal(t, "rejection reason is required", hMsg)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)
	require.Empty(t, f.db.Budgets)
}

func TestReject(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	hMsg, err := f.handler.Reject(context.Background(), manager, "req-1", approvalapimodels.RejectData{Reason: "  out of budget "})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	req := f.db.Requests["req-1"]
	require.Equal(t, models.RequestStatusRejected, req.Status)
	require.Equal(t, "out of budget", req.RejectionReason)
	require.NotNil(t, req.RejectedAt)
	require.Equal(t, 10, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 1, f.db.Budgets["lab-1"].RejectedCount)
	require.Len(t, f.notifier.Decisions, 1)
}

func TestReview(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	view, hMsg, err := f.handler.Review("req-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.False(t, view.ReadOnly)
	require.Len(t, view.Items, 2)
	require.Equal(t, 10, view.Items[0].MaxApprovable)
	require.Equal(t, 5, view.Items[0].DefaultApproved)
	require.Equal(t, 1, view.Items[1].OnHandQuantity)
	require.Equal(t, 1, view.Items[1].DefaultApproved)

	_, _, err = f.handler.Approve(context.Background(), manager, "req-1", approveData("eq-a", 4, "eq-b", 1))
	require.NoError(t, err)

	view, _, err = f.handler.Review("req-1")
	require.NoError(t, err)
	require.True(t, view.ReadOnly)
	require.NotEmpty(t, view.ApprovalID)
	require.Equal(t, 4, view.Items[0].DefaultApproved)
}

func TestReviewMissingEquipment(t *testing.T) {
	f := newFixture()
	f.addRequest("req-1", dbmodels.RequestItem{EquipmentID: "gone", Name: "Old", Quantity: 1})

	view, hMsg, err := f.handler.Review("req-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.True(t, view.Items[0].EquipmentMissing)
	require.Equal(t, 0, view.Items[0].MaxApprovable)
}

func TestApproveDefaultsMatchReview(t *testing.T) {
	f := newFixture()
	f.seedScenario()

	review, hMsg, err := f.handler.Review("req-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)

	view, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approvalapimodels.ApproveData{})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.ApprovalStatusPartiallyApproved, view.Status)
	require.Len(t, view.Equipment, len(review.Items))
	for idx, item := range review.Items {
		require.Equal(t, item.EquipmentID, view.Equipment[idx].EquipmentID)
		require.Equal(t, item.DefaultApproved, view.Equipment[idx].ApprovedQuantity)
	}
	require.Equal(t, 5, f.db.Equipment["eq-a"].Quantity)
	require.Equal(t, 0, f.db.Equipment["eq-b"].Quantity)
}

func TestApproveDeletedEquipment(t *testing.T) {
	f := newFixture()
	f.addEquipment("eq-a", "Burette", 10)
	f.addRequest("req-1",
		dbmodels.RequestItem{EquipmentID: "eq-a", Name: "Burette", Quantity: 5},
		dbmodels.RequestItem{EquipmentID: "gone", Name: "Old", Quantity: 1},
	)

	_, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approveData("gone", 1))
	require.NoError(t, err)
	require.Equal(t, `equipment "gone" no longer exists`, hMsg)
	require.Equal(t, models.RequestStatusPending, f.db.Requests["req-1"].Status)

	view, hMsg, err := f.handler.Approve(context.Background(), manager, "req-1", approvalapimodels.ApproveData{})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.ApprovalStatusPartiallyApproved, view.Status)
	require.Len(t, view.Equipment, 1)
}

func TestDefaultApproved(t *testing.T) {
	require.Equal(t, 5, defaultApproved(5, 10))
	require.Equal(t, 1, defaultApproved(2, 1))
	require.Equal(t, 0, defaultApproved(2, 0))
	require.Equal(t, 0, defaultApproved(2, -3))
}
