package notification

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Broadcaster pushes a payload towards the open websocket connections of one
// employee. *Hub satisfies it in-process; the redis broadcaster crosses
// process boundaries.
type Broadcaster interface {
	SendTo(employeeID string, payload []byte)
}

const wsBridgeChannel = "notification:ws"

type bridgeEnvelope struct {
	EmployeeID string          `json:"employee_id"`
	Payload    json.RawMessage `json:"payload"`
}

type redisBroadcaster struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisBroadcaster publishes payloads on a redis channel instead of a
// local hub. The status consumer runs in its own process, so pushes have to
// travel through redis to reach the websocket connections the API holds.
func NewRedisBroadcaster(rdb *redis.Client, logger ...*zap.Logger) Broadcaster {
	l := zap.L().Named("notification.bridge")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.bridge")
	}
	return &redisBroadcaster{rdb: rdb, logger: l}
}

func (b *redisBroadcaster) SendTo(employeeID string, payload []byte) {
	msg, err := json.Marshal(bridgeEnvelope{EmployeeID: employeeID, Payload: payload})
	if err != nil {
		return
	}
	if err := b.rdb.Publish(context.Background(), wsBridgeChannel, msg).Err(); err != nil {
		b.logger.Warn("publish websocket payload failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

// RunBridge subscribes to the bridge channel and fans incoming payloads out
// to the local hub. Blocks until ctx is cancelled.
func RunBridge(ctx context.Context, rdb *redis.Client, hub *Hub, logger ...*zap.Logger) {
	l := zap.L().Named("notification.bridge")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.bridge")
	}

	sub := rdb.Subscribe(ctx, wsBridgeChannel)
	defer sub.Close()

	l.Info("websocket bridge started", zap.String("channel", wsBridgeChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			l.Info("websocket bridge stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				l.Warn("malformed bridge message", zap.Error(err))
				continue
			}
			hub.SendTo(env.EmployeeID, env.Payload)
		}
	}
}
