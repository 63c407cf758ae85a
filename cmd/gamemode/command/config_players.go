package command

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gamemode/internal/pause"
	"github.com/pixil98/go-gamemode/internal/player"
	"github.com/pixil98/go-gamemode/internal/session"
)

type PlayersConfig struct {
	MaxConnections int               `json:"max_connections"`
	ANSI           bool              `json:"ansi"`
	Messages       map[string]string `json:"messages,omitempty"`
}

func (c *PlayersConfig) validate() error {
	el := errors.NewErrorList()

	if c.MaxConnections < 0 {
		el.Add(fmt.Errorf("max_connections must not be negative"))
	}

	known := player.MessageNames()
	unknown := make([]string, 0)
	for name := range c.Messages {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		el.Add(fmt.Errorf("unknown message %q, expected one of: %s", name, strings.Join(known, ", ")))
	}
	if len(unknown) == 0 {
		if _, err := player.NewMessages(c.Messages); err != nil {
			el.Add(fmt.Errorf("messages: %w", err))
		}
	}

	return el.Err()
}

func (c *PlayersConfig) BuildPlayerManager(binder *session.Binder, detector *pause.Detector, bus player.Bus) (*player.PlayerManager, error) {
	msgs, err := player.NewMessages(c.Messages)
	if err != nil {
		return nil, fmt.Errorf("parsing messages: %w", err)
	}

	return player.NewPlayerManager(binder,
		player.WithDetector(detector),
		player.WithBus(bus),
		player.WithMessages(msgs),
		player.WithANSI(c.ANSI),
	)
}
