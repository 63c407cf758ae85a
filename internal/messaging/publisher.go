package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-gamemode/internal/session"
)

const BroadcastSubject = "broadcast"

// PlayerSubject is the subject a connected player listens on.
func PlayerSubject(playerId string) string {
	return fmt.Sprintf("player-%s", playerId)
}

// EventSubject is the subject lifecycle events of type t are published on.
func EventSubject(t session.EventType) string {
	return fmt.Sprintf("session.%s", t)
}

// NatsPublisher publishes session events and carries player text over NATS.
type NatsPublisher struct {
	server *NatsServer
}

func NewNatsPublisher(server *NatsServer) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// Notify publishes e as JSON on its event subject.
func (p *NatsPublisher) Notify(e session.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", e.Type, err)
	}
	return p.server.Publish(EventSubject(e.Type), data)
}

// PublishToPlayer sends text to one player's subject.
func (p *NatsPublisher) PublishToPlayer(playerId string, data []byte) error {
	return p.server.Publish(PlayerSubject(playerId), data)
}

// Broadcast sends text to every subscribed player.
func (p *NatsPublisher) Broadcast(data []byte) error {
	return p.server.Publish(BroadcastSubject, data)
}

// Subscribe calls handler for every message published on subject.
func (p *NatsPublisher) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(subject, handler)
}
