package approvalhandler

import (
	"context"
	"fmt"
	"labstock-backend/config"
	"labstock-backend/db"
	approvalstore "labstock-backend/lib/approval/store"
	budgetstore "labstock-backend/lib/budget/store"
	equipmenthistorystore "labstock-backend/lib/equipment/history-store"
	equipmentstore "labstock-backend/lib/equipment/store"
	pdfexport "labstock-backend/lib/export/pdf"
	labstore "labstock-backend/lib/lab/store"
	"labstock-backend/lib/media"
	"labstock-backend/lib/metrics"
	"labstock-backend/lib/notify"
	requeststore "labstock-backend/lib/request/store"
	initchecker "labstock-backend/lib/utils/init-checker"
	"labstock-backend/lib/utils/lock"
	"labstock-backend/models"
	approvalapimodels "labstock-backend/models/api/approval"
	dbmodels "labstock-backend/models/db"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	// Review позиции заявки с текущими остатками
	Review(requestID string) (item approvalapimodels.ReviewView, hMsg string, err error)
	// Approve полное или частичное утверждение, все записи в одной транзакции
	Approve(ctx context.Context, session models.Session, requestID string, data approvalapimodels.ApproveData) (item approvalapimodels.ApprovedRequestView, hMsg string, err error)
	Reject(ctx context.Context, session models.Session, requestID string, data approvalapimodels.RejectData) (hMsg string, err error)
	Get(id string) (item approvalapimodels.ApprovedRequestView, hMsg string, err error)
	List(filter approvalapimodels.ApprovedRequestFilter) (list []approvalapimodels.ApprovedRequestView, rowCount int64, err error)
	// Complete сверка расходов и счетов, после нее запись доступна только на чтение
	Complete(ctx context.Context, session models.Session, id string, data approvalapimodels.CompleteData, files []approvalapimodels.InvoiceFile) (item approvalapimodels.ApprovedRequestView, hMsg string, err error)
	Report(id string) (pdfFile []byte, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, db.Transaction, media.Instance, notify.Instance,
		time.Duration(config.Conf.Approval.LockWaitSec)*time.Second)
}

func NewInstance(DB *gorm.DB, runTx db.TxRunner, mediaProvider media.Provider, notifyProvider notify.Provider, lockWait time.Duration) Provider {
	instance := impl{
		db:             DB,
		runTx:          runTx,
		requestStore:   requeststore.NewInstance,
		equipmentStore: equipmentstore.NewInstance,
		historyStore:   equipmenthistorystore.NewInstance,
		approvalStore:  approvalstore.NewInstance,
		budgetStore:    budgetstore.NewInstance,
		labStore:       labstore.NewInstance,
		media:          mediaProvider,
		notify:         notifyProvider,
		lockWait:       lockWait,
	}
	initchecker.CheckInit(
		"media", instance.media,
		"notify", instance.notify,
	)
	return instance
}

type impl struct {
	db             *gorm.DB
	runTx          db.TxRunner
	requestStore   func(tx *gorm.DB) requeststore.Provider
	equipmentStore func(tx *gorm.DB) equipmentstore.Provider
	historyStore   func(tx *gorm.DB) equipmenthistorystore.Provider
	approvalStore  func(tx *gorm.DB) approvalstore.Provider
	budgetStore    func(tx *gorm.DB) budgetstore.Provider
	labStore       func(tx *gorm.DB) labstore.Provider
	media          media.Provider
	notify         notify.Provider
	lockWait       time.Duration
}

// errRefused откатывает транзакцию, причина отказа передается через hMsg
var errRefused = errors.New("операция отклонена")

const (
	msgRequestNotFound  = "request not found"
	msgAlreadyDecided   = "request has already been decided"
	msgNothingApproved  = "at least one item must be approved"
	msgApprovalNotFound = "approval not found"
	msgReadOnly         = "approval is completed and can no longer be changed"
	msgBusy             = "request is being processed, please try again"
)

func (i impl) Review(requestID string) (item approvalapimodels.ReviewView, hMsg string, err error) {
	req, err := i.requestStore(i.db).GetByID(requestID)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения заявки")
	}
	if req == nil {
		return item, msgRequestNotFound, nil
	}
	item = approvalapimodels.ReviewView{
		RequestID:       req.ID,
		Title:           req.Title,
		Username:        req.Username,
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
		ReadOnly:        req.Status.IsTerminal(),
	}
	ids := make([]string, 0, len(req.Equipment))
	for _, line := range req.Equipment {
		ids = append(ids, line.EquipmentID)
	}
	equipmentList, err := i.equipmentStore(i.db).GetByIDs(ids)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения оборудования")
	}
	onHand := make(map[string]int, len(equipmentList))
	for _, rec := range equipmentList {
		onHand[rec.ID] = rec.Quantity
	}
	decided := map[string]int{}
	if req.Status == models.RequestStatusApproved || req.Status == models.RequestStatusPartiallyApproved {
		approval, err := i.approvalStore(i.db).GetByRequestID(req.ID)
		if err != nil {
			return item, "", errors.Wrap(err, "ошибка получения решения по заявке")
		}
		if approval != nil {
			item.ApprovalID = approval.ID
			for _, approved := range approval.Equipment {
				decided[approved.EquipmentID] = approved.ApprovedQuantity
			}
		}
	}
	item.Items = make([]approvalapimodels.ReviewItem, 0, len(req.Equipment))
	for _, line := range req.Equipment {
		quantity, exists := onHand[line.EquipmentID]
		reviewItem := approvalapimodels.ReviewItem{
			EquipmentID:       line.EquipmentID,
			Name:              line.Name,
			RequestedQuantity: line.Quantity,
			OnHandQuantity:    quantity,
			MaxApprovable:     quantity,
			DefaultApproved:   defaultApproved(line.Quantity, quantity),
			EquipmentMissing:  !exists,
		}
		if req.Status.IsTerminal() {
			reviewItem.DefaultApproved = decided[line.EquipmentID]
		}
		item.Items = append(item.Items, reviewItem)
	}
	return item, "", nil
}

func (i impl) Approve(ctx context.Context, session models.Session, requestID string, data approvalapimodels.ApproveData) (item approvalapimodels.ApprovedRequestView, hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("request_id", requestID)
	err = data.Validate()
	if err != nil {
		return item, err.Error(), nil
	}
	var req *dbmodels.Request
	var rec dbmodels.ApprovedRequest
	err = lock.WithDelay(ctx, requestID, i.lockWait, func() error {
		return i.runTx(func(tx *gorm.DB) error {
			// полное или частичное утверждение определится после сверки с остатками
			req, hMsg, err = i.lockPending(tx, requestID, models.RequestStatusApproved)
			if err != nil {
				return errors.Wrap(err, "ошибка получения заявки")
			}
			if hMsg != "" {
				return errRefused
			}
			equipment, err := i.lockEquipment(tx, req.Equipment)
			if err != nil {
				return err
			}
			approvedItems, status, msg := decideItems(*req, data, equipment)
			if msg == "" {
				msg = checkStock(approvedItems, equipment)
			}
			if msg != "" {
				hMsg = msg
				return errRefused
			}
			now := time.Now()
			rec = dbmodels.ApprovedRequest{
				RequestID:  req.ID,
				LabID:      req.LabID,
				ApprovedBy: session.UserID,
				ApprovedAt: now,
				Equipment:  approvedItems,
				Status:     status,
			}
			rec.ID, err = i.approvalStore(tx).Create(rec)
			if err != nil {
				return errors.Wrap(err, "ошибка создания записи о выдаче")
			}
			err = i.issueStock(tx, session, *req, approvedItems, equipment, now)
			if err != nil {
				return err
			}
			req.Status = status.ToRequestStatus()
			req.ApprovedAt = &now
			updated, err := i.requestStore(tx).UpdateStatus(req.ID, models.RequestStatusPending, map[string]interface{}{
				"status":      req.Status,
				"approved_at": now,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка обновления статуса заявки")
			}
			if !updated {
				hMsg = msgAlreadyDecided
				return errRefused
			}
			err = i.budgetStore(tx).AddDecision(req.LabID, req.Status)
			if err != nil {
				return err
			}
			return nil
		})
	})
	if hMsg != "" {
		return item, hMsg, nil
	}
	if errors.Is(err, lock.ErrBusy) {
		return item, msgBusy, nil
	}
	if err != nil {
		return item, "", err
	}
	metrics.RequestDecided(string(req.Status))
	logger.
		WithField("approval_id", rec.ID).
		WithField("status", rec.Status).
		Info("заявка утверждена, остатки списаны")
	i.notify.RequestDecided(*req, rec.Equipment)
	return approvalapimodels.ApprovedRequestConvert(rec), "", nil
}

func (i impl) Reject(ctx context.Context, session models.Session, requestID string, data approvalapimodels.RejectData) (hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("request_id", requestID)
	err = data.Validate()
	if err != nil {
		return err.Error(), nil
	}
	var req *dbmodels.Request
	err = lock.WithDelay(ctx, requestID, i.lockWait, func() error {
		return i.runTx(func(tx *gorm.DB) error {
			req, hMsg, err = i.lockPending(tx, requestID, models.RequestStatusRejected)
			if err != nil {
				return errors.Wrap(err, "ошибка получения заявки")
			}
			if hMsg != "" {
				return errRefused
			}
			now := time.Now()
			req.Status = models.RequestStatusRejected
			req.RejectionReason = strings.TrimSpace(data.Reason)
			req.RejectedAt = &now
			updated, err := i.requestStore(tx).UpdateStatus(req.ID, models.RequestStatusPending, map[string]interface{}{
				"status":           req.Status,
				"rejection_reason": req.RejectionReason,
				"rejected_at":      now,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка обновления статуса заявки")
			}
			if !updated {
				hMsg = msgAlreadyDecided
				return errRefused
			}
			return i.budgetStore(tx).AddDecision(req.LabID, req.Status)
		})
	})
	if hMsg != "" {
		return hMsg, nil
	}
	if errors.Is(err, lock.ErrBusy) {
		return msgBusy, nil
	}
	if err != nil {
		return "", err
	}
	metrics.RequestDecided(string(req.Status))
	logger.Info("заявка отклонена")
	i.notify.RequestDecided(*req, nil)
	return "", nil
}

func (i impl) Get(id string) (item approvalapimodels.ApprovedRequestView, hMsg string, err error) {
	rec, err := i.approvalStore(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения записи о выдаче")
	}
	if rec == nil {
		return item, msgApprovalNotFound, nil
	}
	return approvalapimodels.ApprovedRequestConvert(*rec), "", nil
}

func (i impl) List(filter approvalapimodels.ApprovedRequestFilter) (list []approvalapimodels.ApprovedRequestView, rowCount int64, err error) {
	store := i.approvalStore(i.db)
	rowCount, err = store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка выдач")
	}
	list = make([]approvalapimodels.ApprovedRequestView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, approvalapimodels.ApprovedRequestConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Report(id string) (pdfFile []byte, hMsg string, err error) {
	rec, err := i.approvalStore(i.db).GetByID(id)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения записи о выдаче")
	}
	if rec == nil {
		return nil, msgApprovalNotFound, nil
	}
	if !rec.Status.IsCompleted() {
		return nil, "report is available only for completed approvals", nil
	}
	data := pdfexport.ApprovalReportData{Approval: *rec}
	req, err := i.requestStore(i.db).GetByID(rec.RequestID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения заявки")
	}
	if req != nil {
		data.RequestTitle = req.Title
		data.RequestedBy = req.Username
	}
	lab, err := i.labStore(i.db).GetByID(rec.LabID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if lab != nil {
		data.LabName = lab.LabName
	}
	pdfFile, err = pdfexport.GenerateApprovalReport(data)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка формирования отчета по выдаче")
	}
	return pdfFile, "", nil
}

// lockPending блокирует заявку и проверяет, что ее можно перевести в статус to
func (i impl) lockPending(tx *gorm.DB, requestID string, to models.RequestStatus) (req *dbmodels.Request, hMsg string, err error) {
	req, err = i.requestStore(tx).GetByIDForUpdate(requestID)
	if err != nil {
		return nil, "", err
	}
	if req == nil {
		return nil, msgRequestNotFound, nil
	}
	if !req.Status.IsAllowChange(to) {
		return nil, msgAlreadyDecided, nil
	}
	return req, "", nil
}

// decideItems утвержденные количества по позициям заявки.
// Не указанная позиция утверждается в объеме min(запрошено, остаток), как в Review
func decideItems(req dbmodels.Request, data approvalapimodels.ApproveData, equipment map[string]dbmodels.Equipment) (items dbmodels.ApprovedItems, status models.ApprovalStatus, hMsg string) {
	requested := make(map[string]bool, len(req.Equipment))
	for _, line := range req.Equipment {
		requested[line.EquipmentID] = true
	}
	approvedMap := make(map[string]int, len(data.Items))
	for _, approved := range data.Items {
		if !requested[approved.EquipmentID] {
			return nil, "", fmt.Sprintf("equipment %q is not part of this request", approved.EquipmentID)
		}
		approvedMap[approved.EquipmentID] = approved.ApprovedQuantity
	}
	status = models.ApprovalStatusApproved
	items = dbmodels.ApprovedItems{}
	for _, line := range req.Equipment {
		quantity, ok := approvedMap[line.EquipmentID]
		if !ok {
			quantity = defaultApproved(line.Quantity, equipment[line.EquipmentID].Quantity)
		}
		if quantity < line.Quantity {
			status = models.ApprovalStatusPartiallyApproved
		}
		if quantity <= 0 {
			continue
		}
		items = append(items, dbmodels.ApprovedItem{
			EquipmentID:       line.EquipmentID,
			Name:              line.Name,
			RequestedQuantity: line.Quantity,
			ApprovedQuantity:  quantity,
		})
	}
	if len(items) == 0 {
		return nil, "", msgNothingApproved
	}
	return items, status, ""
}

func defaultApproved(requested, onHand int) int {
	return max(min(requested, onHand), 0)
}

// lockEquipment блокирует строки оборудования заявки в порядке идентификаторов.
// Удаленного оборудования в результате нет
func (i impl) lockEquipment(tx *gorm.DB, lines []dbmodels.RequestItem) (map[string]dbmodels.Equipment, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.EquipmentID)
	}
	sort.Strings(ids)
	store := i.equipmentStore(tx)
	equipment := make(map[string]dbmodels.Equipment, len(ids))
	for _, id := range ids {
		if _, ok := equipment[id]; ok {
			continue
		}
		rec, err := store.GetByIDForUpdate(id)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения оборудования")
		}
		if rec != nil {
			equipment[id] = *rec
		}
	}
	return equipment, nil
}

func checkStock(items dbmodels.ApprovedItems, equipment map[string]dbmodels.Equipment) (hMsg string) {
	for _, item := range items {
		rec, ok := equipment[item.EquipmentID]
		if !ok {
			return fmt.Sprintf("equipment %q no longer exists", item.EquipmentID)
		}
		if item.ApprovedQuantity > rec.Quantity {
			return fmt.Sprintf("not enough %q in stock: approved %d, available %d", item.Name, item.ApprovedQuantity, rec.Quantity)
		}
	}
	return ""
}

func (i impl) issueStock(tx *gorm.DB, session models.Session, req dbmodels.Request, items dbmodels.ApprovedItems, equipment map[string]dbmodels.Equipment, now time.Time) error {
	store := i.equipmentStore(tx)
	historyStore := i.historyStore(tx)
	for _, item := range items {
		previous := equipment[item.EquipmentID].Quantity
		newQuantity := max(previous-item.ApprovedQuantity, 0)
		err := store.Update(item.EquipmentID, map[string]interface{}{
			"quantity":   newQuantity,
			"updated_at": now,
		})
		if err != nil {
			return errors.Wrapf(err, "ошибка списания остатка оборудования %v", item.EquipmentID)
		}
		_, err = historyStore.Create(dbmodels.EquipmentHistory{
			EquipmentID:      item.EquipmentID,
			Date:             now,
			PreviousQuantity: previous,
			NewQuantity:      newQuantity,
			Notes:            fmt.Sprintf("issued for request %q (%s)", req.Title, req.ID),
			UpdatedBy:        session.Name,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка записи журнала остатков")
		}
	}
	return nil
}
