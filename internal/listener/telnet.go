package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

// Acceptor serves one accepted connection until it ends.
type Acceptor interface {
	AcceptConnection(ctx context.Context, conn io.ReadWriter)
}

type TelnetListener struct {
	addr     string
	acceptor Acceptor
}

func NewTelnetListener(addr string, acceptor Acceptor) *TelnetListener {
	return &TelnetListener{
		addr:     addr,
		acceptor: acceptor,
	}
}

// Start serves telnet until ctx ends. Open connections are cancelled and
// waited for before it returns.
func (l *TelnetListener) Start(ctx context.Context) error {
	connCtx, cancelConns := context.WithCancel(context.Background())
	h := &telnetHandler{ctx: connCtx, acceptor: l.acceptor}
	svr := telnet.NewServer(l.addr, h)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		svr.Stop()
		cancelConns()
		h.wg.Wait()
	}()

	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr)

	err := svr.ListenAndServe()
	if ctx.Err() != nil {
		<-stopped
		return nil
	}

	cancelConns()
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("telnet address %s is already in use", l.addr)
	case err != nil:
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
	return nil
}

type telnetHandler struct {
	ctx      context.Context
	acceptor Acceptor
	wg       sync.WaitGroup
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()

	h.acceptor.AcceptConnection(h.ctx, newLineConn(conn))

	if err := conn.Close(); err != nil {
		slog.Debug("closing telnet connection", "error", err)
	}
}
