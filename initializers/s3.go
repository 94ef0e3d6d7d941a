package initializers

import (
	"context"
	"labstock-backend/config"
	s3client "labstock-backend/s3"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		panic(err.Error())
	}
	s3client.Client = minioClient

	// без бакета сервис работает, но загрузка фото и счетов будет возвращать ошибку
	err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName)
	if err != nil {
		log.WithError(err).
			WithField("bucket", config.Conf.S3.BucketName).
			Error("S3 бакет недоступен")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
