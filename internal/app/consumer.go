package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-welfare/internal/document"
	"go-welfare/internal/employee"
	"go-welfare/internal/events"
	"go-welfare/internal/messaging/kafka/consumer"
	"go-welfare/internal/notification"
	"go-welfare/internal/shared/config"
	"go-welfare/internal/shared/connection"
	"go-welfare/internal/shared/storage"
	"go-welfare/internal/welfare"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer drives the two status-event consumer groups: notifications on
// every transition and form generation on finalization.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		return err
	}

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("kafka broker is required")
	}

	files, err := storage.NewFileStorage(cfg.Storage.Root)
	if err != nil {
		return err
	}

	employeeRepo := employee.NewRepository(gormDB)
	welfareRepo := welfare.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)

	var linePusher notification.LinePusher
	if cfg.Line.ChannelSecret != "" && cfg.Line.ChannelToken != "" {
		linePusher, err = notification.NewLinePusher(cfg.Line.ChannelSecret, cfg.Line.ChannelToken)
		if err != nil {
			return err
		}
	}

	// Websocket connections live in the API process; pushes cross over
	// through the redis bridge.
	notificationService := notification.NewService(
		notificationRepo,
		notification.NewEmployeeDirectory(employeeRepo),
		notification.NewRedisBroadcaster(rdb),
		linePusher,
		rdb,
	)
	documentService := document.NewService(welfareRepo, files)

	statusReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.WelfareStatusChangedTopic,
		GroupID:        "go-welfare-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer statusReader.Close()

	formReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.WelfareRequestFinalizedTopic,
		GroupID:        "go-welfare-forms",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer formReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeWelfareStatusChanged(ctx, statusReader, notificationService, logger)
	go consumer.ConsumeWelfareFinalized(ctx, formReader, documentService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
