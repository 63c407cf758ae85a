package session

import (
	"errors"
	"time"
)

type EventType string

const (
	EventLoggedIn     EventType = "logged_in"
	EventLoggedOut    EventType = "logged_out"
	EventRegistered   EventType = "registered"
	EventUnregistered EventType = "unregistered"
	EventResumed      EventType = "resumed"
)

// Event describes a change in a player's account lifecycle.
type Event struct {
	Type        EventType     `json:"type"`
	SessionId   string        `json:"session_id,omitempty"`
	PlayerId    string        `json:"player_id"`
	PlayerName  string        `json:"player_name"`
	AccountId   int           `json:"account_id"`
	AccountName string        `json:"account_name,omitempty"`
	Paused      time.Duration `json:"paused,omitempty"`
	Time        time.Time     `json:"time"`
}

// Notifier receives lifecycle events. Notify is called synchronously from the
// operation that raised the event.
type Notifier interface {
	Notify(Event) error
}

type NotifierFunc func(Event) error

func (f NotifierFunc) Notify(e Event) error {
	return f(e)
}

// MultiNotifier delivers every event to each notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
