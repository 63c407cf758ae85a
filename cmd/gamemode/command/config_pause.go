package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gamemode/internal/pause"
)

type PauseConfig struct {
	TickPeriod string `json:"tick_period,omitempty"`
	Threshold  int    `json:"threshold"`
}

func (c *PauseConfig) validate() error {
	el := errors.NewErrorList()

	if c.TickPeriod != "" {
		d, err := time.ParseDuration(c.TickPeriod)
		if err != nil {
			el.Add(fmt.Errorf("parsing pause tick_period: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("pause tick_period must be positive"))
		}
	}
	if c.Threshold < 0 {
		el.Add(fmt.Errorf("pause threshold must not be negative"))
	}

	return el.Err()
}

// BuildDetector creates the pause detector. The tick period defaults to the
// driver's tick interval.
func (c *PauseConfig) BuildDetector(tick time.Duration) (*pause.Detector, error) {
	if c.TickPeriod != "" {
		d, err := time.ParseDuration(c.TickPeriod)
		if err != nil {
			return nil, fmt.Errorf("parsing pause tick_period: %w", err)
		}
		tick = d
	}

	return pause.NewDetector(
		pause.WithTickPeriod(tick),
		pause.WithThreshold(c.Threshold),
		pause.WithResumeHandler(func(id string, paused time.Duration) {
			slog.Debug("player resumed", "player", id, "paused", paused)
		}),
	), nil
}
