package notify

import (
	"sync"
	"testing"
	"time"

	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, message string
}

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []sentMail
	// release если задан, отправка ждет его закрытия
	release chan struct{}
}

func (m *fakeMailer) Enabled() bool {
	return m.enabled
}

func (m *fakeMailer) SendEMail(to, subject, message string) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, message: message})
	return m.err
}

func (m *fakeMailer) sentMails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail{}, m.sent...)
}

func (m *fakeMailer) waitSent(t *testing.T, count int) []sentMail {
	require.Eventually(t, func() bool {
		return len(m.sentMails()) == count
	}, 2*time.Second, 10*time.Millisecond)
	return m.sentMails()
}

func seedUser(t *testing.T, d *memstore.DB, role models.UserRole, email string) string {
	rec := dbmodels.User{Role: role}
	rec.Personal.Name = email
	rec.Personal.Email = email
	id, err := d.UsersStore(nil).Create(rec)
	require.NoError(t, err)
	return id
}

func TestRequestDecidedPartial(t *testing.T) {
	d := memstore.New()
	mailer := &fakeMailer{enabled: true}
	userID := seedUser(t, d, models.LabUserRole, "chemist@lab.local")
	i := NewInstance(d.UsersStore(nil), mailer)

	request := dbmodels.Request{UserID: userID, Title: "Glassware", Status: models.RequestStatusPartiallyApproved}
	i.RequestDecided(request, dbmodels.ApprovedItems{
		{EquipmentID: "eq-1", Name: "Beaker", RequestedQuantity: 10, ApprovedQuantity: 4},
	})

	sent := mailer.waitSent(t, 1)
	require.Equal(t, "chemist@lab.local", sent[0].to)
	require.Equal(t, "Request partially approved", sent[0].subject)
	require.Contains(t, sent[0].message, "- Beaker: 4 of 10")
}

func TestRequestDecidedRejected(t *testing.T) {
	d := memstore.New()
	mailer := &fakeMailer{enabled: true, err: errors.New("smtp down")}
	userID := seedUser(t, d, models.LabUserRole, "chemist@lab.local")
	i := NewInstance(d.UsersStore(nil), mailer)

	request := dbmodels.Request{
		UserID:          userID,
		Title:           "Glassware",
		Status:          models.RequestStatusRejected,
		RejectionReason: "out of budget",
	}
	require.NotPanics(t, func() { i.RequestDecided(request, nil) })
	sent := mailer.waitSent(t, 1)
	require.Equal(t, "Request rejected", sent[0].subject)
	require.Contains(t, sent[0].message, "Reason: out of budget")
}

func TestRequestDecidedDoesNotWaitForMailer(t *testing.T) {
	d := memstore.New()
	mailer := &fakeMailer{enabled: true, release: make(chan struct{})}
	userID := seedUser(t, d, models.LabUserRole, "chemist@lab.local")
	i := NewInstance(d.UsersStore(nil), mailer)

	done := make(chan struct{})
	go func() {
		i.RequestDecided(dbmodels.Request{UserID: userID, Title: "Glassware", Status: models.RequestStatusApproved}, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestDecided is blocked by the mail server")
	}
	require.Empty(t, mailer.sentMails())

	close(mailer.release)
	sent := mailer.waitSent(t, 1)
	require.Equal(t, "Request approved", sent[0].subject)
}

func TestLowStockGoesToManagers(t *testing.T) {
	d := memstore.New()
	mailer := &fakeMailer{enabled: true}
	seedUser(t, d, models.AdminRole, "admin@lab.local")
	seedUser(t, d, models.StockManagerRole, "stock@lab.local")
	seedUser(t, d, models.LabUserRole, "chemist@lab.local")
	i := NewInstance(d.UsersStore(nil), mailer)

	i.LowStock([]dbmodels.Equipment{{Name: "Pipette tips", Quantity: 2, LowStockAlert: 5}})

	recipients := []string{}
	for _, mail := range mailer.sent {
		recipients = append(recipients, mail.to)
		require.Contains(t, mail.message, "- Pipette tips: 2 (alert at 5)")
	}
	require.ElementsMatch(t, []string{"admin@lab.local", "stock@lab.local"}, recipients)
}

func TestLowStockSkippedWhenMailDisabled(t *testing.T) {
	d := memstore.New()
	mailer := &fakeMailer{}
	seedUser(t, d, models.AdminRole, "admin@lab.local")
	i := NewInstance(d.UsersStore(nil), mailer)

	i.LowStock([]dbmodels.Equipment{{Name: "Pipette tips", Quantity: 2, LowStockAlert: 5}})
	require.Empty(t, mailer.sent)
}
