package bootstrap

import "context"

// AuditLog is a single operational audit entry. Handlers and lifecycle hooks
// record coarse-grained events through it, separate from debug logging.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
