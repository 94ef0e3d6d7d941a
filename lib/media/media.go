package media

import (
	"context"
	"fmt"
	"io"
	"labstock-backend/config"
	s3client "labstock-backend/s3"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Folder string

const (
	EquipmentFolder Folder = "equipment"
	InvoiceFolder   Folder = "invoices"
	ProfileFolder   Folder = "profiles"
)

type Provider interface {
	// Upload сохраняет объект и возвращает его публичную ссылку
	Upload(ctx context.Context, folder Folder, fileName, contentType string, body io.Reader, size int64) (url string, err error)
	// Delete удаляет объект по публичной ссылке
	Delete(ctx context.Context, url string) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(s3client.Client, config.Conf.S3.BucketName, config.Conf.S3.PublicBaseUrl)
}

func NewInstance(client *minio.Client, bucket, publicBaseUrl string) Provider {
	return &impl{
		client:        client,
		bucket:        bucket,
		publicBaseUrl: strings.TrimRight(publicBaseUrl, "/"),
	}
}

type impl struct {
	client        *minio.Client
	bucket        string
	publicBaseUrl string
}

func (i impl) Upload(ctx context.Context, folder Folder, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if i.client == nil {
		return "", errors.New("хранилище файлов не настроено")
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), strings.ToLower(path.Ext(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.client.PutObject(ctx, i.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка загрузки файла %v", fileName)
	}
	log.WithField("object_key", key).Debug("файл загружен")
	return i.objectUrl(key), nil
}

func (i impl) Delete(ctx context.Context, url string) error {
	if i.client == nil {
		return errors.New("хранилище файлов не настроено")
	}
	key, ok := i.objectKey(url)
	if !ok {
		return errors.Errorf("ссылка не принадлежит хранилищу: %v", url)
	}
	err := i.client.RemoveObject(ctx, i.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "ошибка удаления файла %v", key)
	}
	return nil
}

func (i impl) objectUrl(key string) string {
	return fmt.Sprintf("%s/%s/%s", i.publicBaseUrl, i.bucket, key)
}

func (i impl) objectKey(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", i.publicBaseUrl, i.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
