package memstore

import (
	"context"
	"fmt"
	"io"
	"labstock-backend/lib/media"
	dbmodels "labstock-backend/models/db"
	"sync"

	"github.com/pkg/errors"
)

// Media хранилище файлов в памяти. FailOnUpload номер загрузки (с 1), на которой вернуть ошибку
type Media struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	Deleted      []string
	Uploads      int
	FailOnUpload int
}

func NewMedia() *Media {
	return &Media{Objects: map[string][]byte{}}
}

func (m *Media) Upload(_ context.Context, folder media.Folder, fileName, _ string, body io.Reader, _ int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads++
	if m.FailOnUpload != 0 && m.Uploads == m.FailOnUpload {
		return "", errors.New("upload failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("mem://%s/%d-%s", folder, m.Uploads, fileName)
	m.Objects[url] = data
	return url, nil
}

func (m *Media) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

// Notifier запоминает отправленные уведомления
type Notifier struct {
	mu        sync.Mutex
	Decisions []dbmodels.Request
	LowStocks [][]dbmodels.Equipment
}

func (n *Notifier) RequestDecided(request dbmodels.Request, _ dbmodels.ApprovedItems) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Decisions = append(n.Decisions, request)
}

func (n *Notifier) LowStock(items []dbmodels.Equipment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.LowStocks = append(n.LowStocks, items)
}
