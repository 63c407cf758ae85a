package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/driver"
	"github.com/pixil98/go-gamemode/internal/listener"
	"github.com/pixil98/go-gamemode/internal/messaging"
	"github.com/pixil98/go-gamemode/internal/session"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	logger, err := cfg.Logging.BuildLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	slog.SetDefault(logger)

	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}

	// Accounts
	places, err := cfg.Storage.BuildPlaces()
	if err != nil {
		return nil, err
	}
	store, err := cfg.Accounts.BuildStore(places)
	if err != nil {
		return nil, fmt.Errorf("creating account store: %w", err)
	}
	if err := cfg.Accounts.SeedStore(store); err != nil {
		return nil, err
	}
	slog.Info("accounts ready", "seeded", store.PoolSize(), "max", store.MaxAccounts())

	// Messaging
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	publisher := messaging.NewNatsPublisher(natsServer)
	binder := session.NewBinder(store, session.WithNotifier(session.MultiNotifier{
		publisher,
		session.NotifierFunc(logEvent),
	}))

	detector, err := cfg.Pause.BuildDetector(tick)
	if err != nil {
		return nil, fmt.Errorf("creating pause detector: %w", err)
	}

	pm, err := cfg.Players.BuildPlayerManager(binder, detector, publisher)
	if err != nil {
		return nil, fmt.Errorf("creating player manager: %w", err)
	}
	cm := listener.NewConnectionManager(pm, cfg.Players.MaxConnections)

	// Create Listeners; they accept nothing until the bus is up
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d-%s", i, l.Protocol)] = &gatedWorker{ready: natsServer.Ready(), worker: w}
	}

	drv := driver.NewDriver([]driver.Ticker{detector},
		driver.WithName("gamemode"),
		driver.WithTickLength(tick),
	)

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    drv,
		"players":   pm,
		"accounts":  &accountsWorker{store: store},
		"listeners": &listeners,
	}, nil
}

func logEvent(e session.Event) error {
	attrs := []any{"type", e.Type, "player", e.PlayerName, "account", e.AccountName}
	if e.Paused > 0 {
		attrs = append(attrs, "paused", e.Paused)
	}
	slog.Info("session event", attrs...)
	return nil
}

// gatedWorker starts worker once ready is closed.
type gatedWorker struct {
	ready  <-chan struct{}
	worker service.Worker
}

func (w *gatedWorker) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-w.ready:
	}
	return w.worker.Start(ctx)
}

// accountsWorker releases every account at shutdown, logging out whoever is
// still bound.
type accountsWorker struct {
	store *account.Store
}

func (w *accountsWorker) Start(ctx context.Context) error {
	<-ctx.Done()

	n := w.store.PoolSize()
	w.store.Clear()
	slog.Info("accounts released", "count", n)
	return nil
}
