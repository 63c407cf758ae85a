package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const defaultTickInterval = "30ms"

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Logging      LoggingConfig    `json:"logging"`
	Accounts     AccountsConfig   `json:"accounts"`
	Pause        PauseConfig      `json:"pause"`
	Players      PlayersConfig    `json:"players"`
	Listeners    []ListenerConfig `json:"listeners"`
	Nats         NatsConfig       `json:"nats"`
	Storage      StorageConfig    `json:"storage"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := c.tickInterval(); err != nil {
		el.Add(err)
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Logging.validate())
	el.Add(c.Accounts.validate())
	el.Add(c.Pause.validate())
	el.Add(c.Players.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}

func (c *Config) tickInterval() (time.Duration, error) {
	s := c.TickInterval
	if s == "" {
		s = defaultTickInterval
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < time.Millisecond {
		return 0, fmt.Errorf("tick_interval must be at least 1ms")
	}
	return d, nil
}
