package listener

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

const serverFullMessage = "The server is full, try again later.\n"

// SessionRunner serves a single connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager hands accepted connections to a SessionRunner, turning
// away connections over the configured limit.
type ConnectionManager struct {
	runner   SessionRunner
	maxConns int
	active   atomic.Int64
}

// NewConnectionManager creates a ConnectionManager. A maxConns of zero means
// no limit.
func NewConnectionManager(runner SessionRunner, maxConns int) *ConnectionManager {
	return &ConnectionManager{
		runner:   runner,
		maxConns: maxConns,
	}
}

// Active returns the number of connections currently being served.
func (m *ConnectionManager) Active() int {
	return int(m.active.Load())
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	n := m.active.Add(1)
	defer m.active.Add(-1)

	if m.maxConns > 0 && int(n) > m.maxConns {
		slog.WarnContext(ctx, "rejecting connection, server full", "limit", m.maxConns)
		_, _ = conn.Write([]byte(serverFullMessage))
		return
	}

	if err := m.runner.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
