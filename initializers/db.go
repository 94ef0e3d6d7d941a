package initializers

import (
	"labstock-backend/config"
	"labstock-backend/db"
	"time"
)

func InitDBConnection() {
	conf := config.Conf.Database
	err := db.Connect(db.ConnectOptions{
		Host:            conf.Host,
		Port:            conf.Port,
		Database:        conf.Name,
		User:            conf.User,
		Password:        conf.Password,
		DebugMode:       *conf.DebugMode,
		Migrate:         *conf.MigrateOnStart,
		MaxOpenConns:    conf.MaxOpenConns,
		MaxIdleConns:    conf.MaxIdleConns,
		ConnMaxLifetime: time.Duration(conf.ConnMaxLifetimeMin) * time.Minute,
	})
	if err != nil {
		panic(err.Error())
	}

	db.InitPreload()
}
