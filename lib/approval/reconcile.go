package approvalhandler

import (
	"bytes"
	"context"
	"fmt"
	"labstock-backend/lib/media"
	"labstock-backend/lib/metrics"
	"labstock-backend/models"
	approvalapimodels "labstock-backend/models/api/approval"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (i impl) Complete(ctx context.Context, session models.Session, id string, data approvalapimodels.CompleteData, files []approvalapimodels.InvoiceFile) (item approvalapimodels.ApprovedRequestView, hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("approval_id", id)
	rec, err := i.approvalStore(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения записи о выдаче")
	}
	if rec == nil {
		return item, msgApprovalNotFound, nil
	}
	if rec.Status.IsCompleted() {
		return item, msgReadOnly, nil
	}
	expenses, total, hMsg := ParseExpenses(rec.Equipment, data.Expenses)
	if hMsg != "" {
		return item, hMsg, nil
	}
	itemNames := make([]string, 0, len(rec.Equipment))
	for _, approved := range rec.Equipment {
		itemNames = append(itemNames, approved.Name)
	}
	hMsg = CheckCoverage(itemNames, data.Invoices)
	if hMsg != "" {
		return item, hMsg, nil
	}
	hMsg = checkInvoiceFiles(data.Invoices, files)
	if hMsg != "" {
		return item, hMsg, nil
	}

	urls, err := i.uploadInvoices(ctx, files)
	if err != nil {
		i.cleanupInvoices(urls)
		return item, "", err
	}

	now := time.Now()
	invoices := make([]dbmodels.ApprovalInvoice, 0, len(urls))
	for idx, url := range urls {
		invoices = append(invoices, dbmodels.ApprovalInvoice{
			ApprovedRequestID: id,
			ImageUrl:          url,
			ItemIndexes:       toInt64Array(data.Invoices[idx].ItemIndexes),
		})
	}
	err = i.runTx(func(tx *gorm.DB) error {
		store := i.approvalStore(tx)
		locked, err := store.GetByIDForUpdate(id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения записи о выдаче")
		}
		if locked == nil {
			hMsg = msgApprovalNotFound
			return errRefused
		}
		updated, err := store.Complete(id, map[string]interface{}{
			"equipment_expenses": expenses,
			"status":             models.ApprovalStatusCompleted,
			"total_amount_spent": total,
			"completed_at":       now,
		})
		if err != nil {
			return errors.Wrap(err, "ошибка закрытия выдачи")
		}
		if !updated {
			hMsg = msgReadOnly
			return errRefused
		}
		err = store.AddInvoices(invoices)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения счетов")
		}
		return i.budgetStore(tx).AddCompletion(locked.LabID, total)
	})
	if err != nil {
		i.cleanupInvoices(urls)
		if hMsg != "" {
			return item, hMsg, nil
		}
		return item, "", err
	}
	rec.EquipmentExpenses = expenses
	rec.Invoices = invoices
	rec.Status = models.ApprovalStatusCompleted
	rec.TotalAmountSpent = total
	rec.CompletedAt = &now
	metrics.ApprovalCompleted(total.InexactFloat64())
	logger.
		WithField("total_amount_spent", total.StringFixed(2)).
		WithField("invoices", len(invoices)).
		Info("выдача закрыта, счета сохранены")
	return approvalapimodels.ApprovedRequestConvert(*rec), "", nil
}

func checkInvoiceFiles(invoices []approvalapimodels.InvoiceData, files []approvalapimodels.InvoiceFile) string {
	if len(files) != len(invoices) {
		return fmt.Sprintf("attach one file per invoice: %d invoices, %d files", len(invoices), len(files))
	}
	for idx, file := range files {
		if len(file.Body) == 0 {
			return fmt.Sprintf("invoice %d file is empty", idx+1)
		}
		if !strings.HasPrefix(file.ContentType, "image/") && file.ContentType != "application/pdf" {
			return fmt.Sprintf("invoice %d must be an image or a pdf", idx+1)
		}
	}
	return ""
}

// uploadInvoices загружает файлы по очереди; при ошибке возвращает уже загруженные ссылки для очистки
func (i impl) uploadInvoices(ctx context.Context, files []approvalapimodels.InvoiceFile) (urls []string, err error) {
	urls = make([]string, 0, len(files))
	for idx, file := range files {
		url, err := i.media.Upload(ctx, media.InvoiceFolder, file.FileName, file.ContentType, bytes.NewReader(file.Body), int64(len(file.Body)))
		if err != nil {
			return urls, errors.Wrapf(err, "ошибка загрузки счета %d", idx+1)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (i impl) cleanupInvoices(urls []string) {
	for _, url := range urls {
		err := i.media.Delete(context.Background(), url)
		if err != nil {
			log.WithError(err).WithField("url", url).Warn("не удалось удалить загруженный счет")
		}
	}
}
