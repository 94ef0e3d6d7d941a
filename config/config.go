package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"25" env:"APP_BODY_LIMIT_MB"`
		// ErrNotifyAddr вебхук для ответов 5xx, пусто - не отправлять
		ErrNotifyAddr string `default:"" env:"APP_ERR_NOTIFY_ADDR"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"labstock" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		// пул соединений, 0 - значение драйвера по умолчанию
		MaxOpenConns       int `default:"20" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns       int `default:"5" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetimeMin int `default:"30" env:"DB_CONN_MAX_LIFETIME_MIN"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"labstock" env:"S3_BUCKET_NAME"`
		PublicBaseUrl   string `default:"http://127.0.0.1:9000" env:"S3_PUBLIC_BASE_URL"`
	}
	Admin struct {
		Email    string `default:"" env:"ADMIN_EMAIL"`
		Password string `default:"" env:"ADMIN_PASSWORD"`
		Name     string `default:"Administrator" env:"ADMIN_NAME"`
	}
	Auth struct {
		JWTSecret             string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec        int    `default:"3600" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int    `default:"2592000" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"labstock@localhost" env:"SMTP_FROM"`
	}
	Approval struct {
		LockWaitSec int `default:"5" env:"APPROVAL_LOCK_WAIT_SEC"`
	}
	Worker struct {
		LowStockEnabled     *bool `default:"true" env:"WORKER_LOW_STOCK_ENABLED"`
		LowStockIntervalMin int   `default:"720" env:"WORKER_LOW_STOCK_INTERVAL_MIN"`
	}
	Metrics struct {
		Enabled *bool `default:"true" env:"METRICS_ENABLED"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
