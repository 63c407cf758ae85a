package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gamemode/internal/messaging"
)

// NatsConfig configures the embedded NATS server that carries session events
// and player messages. A port of -1 picks a random free port.
type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	ClientName   string `json:"client_name,omitempty"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if c.Port < -1 || c.Port > 65535 {
		el.Add(fmt.Errorf("nats port must be between -1 and 65535"))
	}
	if _, err := c.options(); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *NatsConfig) options() ([]messaging.NatsServerOpt, error) {
	var opts []messaging.NatsServerOpt

	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing nats start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}
	if c.ClientName != "" {
		opts = append(opts, messaging.WithClientName(c.ClientName))
	}

	return opts, nil
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	return messaging.NewNatsServer(opts...)
}
