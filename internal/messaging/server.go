package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var ErrNotStarted = errors.New("nats server not started")

// NatsServer runs an embedded NATS server as a worker and holds the
// in-process client connection used to publish and subscribe.
type NatsServer struct {
	ns    *server.Server
	nc    *nats.Conn
	ready chan struct{}

	startTimeout time.Duration
	host         string
	port         int
	clientName   string
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	n := &NatsServer{
		ready:        make(chan struct{}),
		startTimeout: 10 * time.Second,
		host:         "127.0.0.1",
		clientName:   "gamemode",
	}
	for _, opt := range opts {
		opt(n)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   n.host,
		Port:   n.port,
		NoSigs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	n.ns = ns

	return n, nil
}

// Start serves until ctx ends, then drains the client and shuts down.
func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready within %s", n.startTimeout)
	}

	nc, err := nats.Connect(n.ns.ClientURL(), nats.Name(n.clientName), nats.InProcessServer(n.ns))
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("connecting to nats server: %w", err)
	}
	n.nc = nc
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "url", n.ns.ClientURL())

	<-ctx.Done()

	if err := n.nc.Drain(); err != nil {
		slog.Warn("draining nats connection", "error", err)
	}
	n.ns.Shutdown()
	n.ns.WaitForShutdown()
	return nil
}

// Ready is closed once Publish and Subscribe may be used.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// Subscribe calls handler with the payload of every message on subject until
// the returned function is called.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if !n.started() {
		return nil, ErrNotStarted
	}

	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (n *NatsServer) Publish(subject string, data []byte) error {
	if !n.started() {
		return ErrNotStarted
	}
	return n.nc.Publish(subject, data)
}

// Flush blocks until the server has processed everything sent so far.
func (n *NatsServer) Flush() error {
	if !n.started() {
		return ErrNotStarted
	}
	return n.nc.Flush()
}

func (n *NatsServer) started() bool {
	select {
	case <-n.ready:
		return true
	default:
		return false
	}
}
