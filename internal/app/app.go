package app

import (
	"go-welfare/internal/shared/config"
	"go-welfare/internal/shared/connection"
	"go-welfare/internal/shared/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on the
// router. The API process does not open Kafka connections; the outbox worker
// and consumers run as their own binaries.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	files, err := storage.NewFileStorage(cfg.Storage.Root)
	if err != nil {
		return err
	}

	return registerModules(router, db, gormDB, rdb, files, cfg)
}
