package s3client

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var Client *minio.Client

const location = "us-east-1"

// публичное чтение объектов: ссылки на фото оборудования и счетов отдаются клиенту напрямую
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// MakeBucket создает бакет, если его нет, и открывает его на чтение
func MakeBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки бакета")
	}
	if exists {
		return nil
	}
	err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return errors.Wrap(err, "ошибка создания бакета")
	}
	err = client.SetBucketPolicy(ctx, bucketName, fmt.Sprintf(publicReadPolicy, bucketName))
	if err != nil {
		return errors.Wrap(err, "ошибка установки политики бакета")
	}
	return nil
}
