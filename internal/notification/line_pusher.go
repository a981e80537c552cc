package notification

import (
	"context"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// LinePusher sends a push message to a linked LINE account.
type LinePusher interface {
	PushText(ctx context.Context, lineUserID, text string) error
}

type linePusher struct {
	bot    *linebot.Client
	logger *zap.Logger
}

func NewLinePusher(channelSecret, channelToken string, logger ...*zap.Logger) (LinePusher, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, err
	}
	l := zap.L().Named("notification.line")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.line")
	}
	return &linePusher{bot: bot, logger: l}, nil
}

func (p *linePusher) PushText(ctx context.Context, lineUserID, text string) error {
	_, err := p.bot.PushMessage(lineUserID, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		p.logger.Warn("line push failed", zap.Error(err))
		return err
	}
	return nil
}
