package consumer

import (
	"context"
	"encoding/json"

	"go-welfare/internal/events"
	"go-welfare/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeWelfareStatusChanged(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.welfare_status")
	log.Info("welfare status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("welfare status consumer stopped")
				return
			}
			log.Error("fetch welfare status message failed", zap.Error(err))
			continue
		}

		var event events.WelfareStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode welfare status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.Dispatch(ctx, event); err != nil {
			// Left uncommitted so the event is redelivered; notification rows
			// are idempotent on replay.
			log.Error("dispatch welfare status event failed",
				zap.String("welfare_id", event.RequestID),
				zap.String("to_status", event.ToStatus),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit welfare status message failed", zap.Error(err))
			continue
		}

		log.Info("welfare status event handled",
			zap.String("welfare_id", event.RequestID),
			zap.String("to_status", event.ToStatus),
		)
	}
}
