package db

import (
	"fmt"
	"time"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// TxRunner выполняет fc в одной транзакции, при ошибке все изменения откатываются
type TxRunner func(fc func(tx *gorm.DB) error) error

// ConnectOptions параметры подключения и пула соединений
type ConnectOptions struct {
	Host, Port, Database, User, Password string
	DebugMode, Migrate                   bool
	MaxOpenConns, MaxIdleConns           int
	ConnMaxLifetime                      time.Duration
}

func (o ConnectOptions) dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
		o.Host, o.Port, o.User, o.Database, o.Password)
}

func Connect(opts ConnectOptions) (err error) {
	if DB != nil {
		return nil
	}
	db, err := gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return errors.Wrap(err, "Ошибка подключения к БД")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "Ошибка получения пула соединений БД")
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		DB = db.Debug()
	} else {
		DB = db
	}
	if opts.Migrate {
		err = AutoMigrateDB()
		if err != nil {
			return err
		}
	}
	log.
		WithField("host", opts.Host).
		WithField("database", opts.Database).
		Info("Сервис успешно подключен к БД")
	return nil
}

// Transaction TxRunner поверх общего подключения
func Transaction(fc func(tx *gorm.DB) error) error {
	return DB.Transaction(fc)
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}
