package consumer

import (
	"context"
	"encoding/json"

	"go-welfare/internal/document"
	"go-welfare/internal/events"
	"go-welfare/internal/welfare"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeWelfareFinalized renders the approval form once a request reaches a
// terminal status. Only completed requests get a form.
func ConsumeWelfareFinalized(
	ctx context.Context,
	reader *kafkago.Reader,
	documentService document.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.welfare_form")
	log.Info("welfare form consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("welfare form consumer stopped")
				return
			}
			log.Error("fetch welfare finalized message failed", zap.Error(err))
			continue
		}

		var event events.WelfareRequestFinalizedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode welfare finalized event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if welfare.Status(event.FinalStatus) != welfare.StatusCompleted {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := documentService.GenerateForm(ctx, event.CompanyID, event.RequestID); err != nil {
			log.Error("generate welfare form failed",
				zap.String("welfare_id", event.RequestID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit welfare finalized message failed", zap.Error(err))
			continue
		}

		log.Info("welfare form generated",
			zap.String("welfare_id", event.RequestID),
			zap.String("request_number", event.RequestNumber),
		)
	}
}
