package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/messaging"
	"github.com/pixil98/go-gamemode/internal/pause"
	"github.com/pixil98/go-gamemode/internal/session"
)

// Bus carries text between players. *messaging.NatsPublisher satisfies it.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
	PublishToPlayer(playerId string, data []byte) error
	Broadcast(data []byte) error
}

type PlayerManager struct {
	binder   *session.Binder
	detector *pause.Detector
	bus      Bus
	msgs     *Messages
	flow     *loginFlow
	ansi     bool

	nextId atomic.Uint64

	mu      sync.Mutex
	players map[string]*Player
}

type ManagerOpt func(*PlayerManager)

// WithDetector reports player input to d and announces resumes.
func WithDetector(d *pause.Detector) ManagerOpt {
	return func(m *PlayerManager) {
		m.detector = d
	}
}

// WithBus routes chat and per-player messages through b instead of
// delivering them in process.
func WithBus(b Bus) ManagerOpt {
	return func(m *PlayerManager) {
		m.bus = b
	}
}

func WithMessages(msgs *Messages) ManagerOpt {
	return func(m *PlayerManager) {
		m.msgs = msgs
	}
}

// WithANSI enables colored output.
func WithANSI(on bool) ManagerOpt {
	return func(m *PlayerManager) {
		m.ansi = on
	}
}

func NewPlayerManager(binder *session.Binder, opts ...ManagerOpt) (*PlayerManager, error) {
	m := &PlayerManager{
		binder:  binder,
		players: map[string]*Player{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.msgs == nil {
		msgs, err := NewMessages(nil)
		if err != nil {
			return nil, fmt.Errorf("parsing default messages: %w", err)
		}
		m.msgs = msgs
	}
	m.flow = &loginFlow{binder: binder, msgs: m.msgs}

	return m, nil
}

// Start waits for shutdown and then kicks every connected player.
func (m *PlayerManager) Start(ctx context.Context) error {
	<-ctx.Done()

	for _, p := range m.Players() {
		p.Kick()
	}
	return nil
}

// Players returns the connected players ordered by id.
func (m *PlayerManager) Players() []*Player {
	m.mu.Lock()
	players := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, p)
	}
	m.mu.Unlock()

	sort.Slice(players, func(i, j int) bool { return players[i].Id() < players[j].Id() })
	return players
}

// RunSession serves one connection until the player quits, is kicked or the
// connection drops.
func (m *PlayerManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	p := newPlayer(strconv.FormatUint(m.nextId.Add(1), 10), conn, m.ansi)
	if h, ok := conn.(NameHinter); ok && session.ValidName(h.PlayerName()) {
		p.setName(h.PlayerName())
	}

	done := make(chan struct{})
	defer close(done)
	go p.listen(done)

	if err := m.binder.Connect(p); err != nil {
		return fmt.Errorf("connecting player %s: %w", p.Id(), err)
	}
	defer m.binder.Disconnect(p)

	m.mu.Lock()
	m.players[p.Id()] = p
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.players, p.Id())
		m.mu.Unlock()
	}()

	if m.detector != nil {
		if err := m.detector.Track(p.Id()); err != nil {
			return err
		}
		defer m.detector.Untrack(p.Id())
		p.onInput = func() { m.inputFrom(p) }
	}

	if m.bus != nil {
		unsubscribe, err := m.subscribe(p)
		if err != nil {
			return err
		}
		defer unsubscribe()
	}

	slog.InfoContext(ctx, "player connected", "player", p.Id())
	defer slog.InfoContext(ctx, "player disconnected", "player", p.Id(), "name", p.Name())

	if err := m.send(p, MsgWelcome, messageData{}); err != nil {
		return err
	}

	for {
		err := m.flow.Run(ctx, p)
		if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrTooManyTries) || errors.Is(err, session.ErrAccountInUse) {
			_ = p.SendMessage(account.ColorWhite, fmt.Sprintf("Goodbye: %s.", err))
			slog.InfoContext(ctx, "login refused", "player", p.Id(), "name", p.Name(), "reason", err)
			return nil
		}
		if err == nil {
			var again bool
			again, err = m.play(ctx, p)
			if err == nil && again {
				continue
			}
		}
		return sessionError(err)
	}
}

// play handles a logged in player's input. It returns true when the player
// logged out and should go through the login flow again.
func (m *PlayerManager) play(ctx context.Context, p *Player) (bool, error) {
	for {
		line, err := p.ReadLine(ctx)
		if err != nil {
			return false, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "/quit":
			return false, nil
		case "/logout":
			if err := m.binder.LogOut(p); err != nil {
				return false, err
			}
			return true, m.send(p, MsgLoggedOut, messageData{Name: p.Name()})
		case "/unregister":
			if err := m.binder.Unregister(p); err != nil {
				return false, err
			}
			return true, m.send(p, MsgLoggedOut, messageData{Name: p.Name()})
		case "/stats":
			err = m.stats(p)
		case "/who":
			err = m.who(p)
		case "/color":
			err = m.color(p, arg)
		case "/tell":
			err = m.tell(p, arg)
		default:
			err = m.chat(p, line)
		}
		if err != nil {
			return false, err
		}
	}
}

func (m *PlayerManager) stats(p *Player) error {
	acc := m.binder.AccountOf(p)
	if acc == nil {
		return session.ErrNotBound
	}
	a := acc.Attributes()
	return p.SendMessage(a.Color, fmt.Sprintf("%s (#%d) team %d, skin %d, money %d, score %d, health %.0f, armour %.0f, spawn %s",
		acc.Name(), acc.Id(), a.Team, a.Skin, a.Money, a.Score, a.Health, a.Armour, a.Spawn))
}

func (m *PlayerManager) who(p *Player) error {
	sessions := m.binder.Sessions()
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Account.Name())
	}
	return p.SendMessage(account.ColorWhite, fmt.Sprintf("%d online: %s", len(names), strings.Join(names, ", ")))
}

func (m *PlayerManager) color(p *Player, hex string) error {
	acc := m.binder.AccountOf(p)
	if acc == nil {
		return session.ErrNotBound
	}

	var c account.Color
	if err := c.UnmarshalText([]byte(strings.TrimSpace(hex))); err != nil {
		return p.SendMessage(account.ColorWhite, "Usage: /color RRGGBB")
	}
	acc.SetColor(c)
	return p.SendMessage(c, "Your color has been changed.")
}

func (m *PlayerManager) chat(p *Player, text string) error {
	line := fmt.Sprintf("%s: %s", p.Name(), text)
	if m.bus != nil {
		return m.bus.Broadcast([]byte(line))
	}

	for _, other := range m.Players() {
		if err := other.SendMessage(p.Attributes().Color, line); err != nil {
			slog.Warn("delivering chat", "player", other.Id(), "error", err)
		}
	}
	return nil
}

func (m *PlayerManager) tell(p *Player, arg string) error {
	name, text, _ := strings.Cut(strings.TrimSpace(arg), " ")
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		return p.SendMessage(account.ColorWhite, "Usage: /tell Firstname_Lastname message")
	}

	var target session.Player
	if acc := m.binder.Store().Find(name); acc != nil {
		target = m.binder.PlayerOf(acc)
	}
	if target == nil {
		return p.SendMessage(account.ColorWhite, fmt.Sprintf("%s is not online.", name))
	}

	err := m.SendTo(target.Id(), fmt.Sprintf("%s tells you: %s", p.Name(), text))
	if errors.Is(err, session.ErrNotConnected) {
		return p.SendMessage(account.ColorWhite, fmt.Sprintf("%s is not online.", name))
	}
	if err != nil {
		return err
	}
	return p.SendMessage(account.ColorWhite, fmt.Sprintf("You tell %s: %s", name, text))
}

// SendTo delivers text to the player with the given id.
func (m *PlayerManager) SendTo(playerId, text string) error {
	if m.bus != nil {
		return m.bus.PublishToPlayer(playerId, []byte(text))
	}

	m.mu.Lock()
	p, ok := m.players[playerId]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("player %s: %w", playerId, session.ErrNotConnected)
	}
	return p.SendMessage(account.ColorWhite, text)
}

func (m *PlayerManager) subscribe(p *Player) (func(), error) {
	deliver := func(data []byte) {
		if err := p.SendMessage(account.ColorWhite, string(data)); err != nil {
			slog.Warn("delivering message", "player", p.Id(), "error", err)
		}
	}

	unsubPlayer, err := m.bus.Subscribe(messaging.PlayerSubject(p.Id()), deliver)
	if err != nil {
		return nil, fmt.Errorf("subscribing player %s: %w", p.Id(), err)
	}
	unsubBroadcast, err := m.bus.Subscribe(messaging.BroadcastSubject, deliver)
	if err != nil {
		unsubPlayer()
		return nil, fmt.Errorf("subscribing player %s to broadcasts: %w", p.Id(), err)
	}

	return func() {
		unsubPlayer()
		unsubBroadcast()
	}, nil
}

// inputFrom records liveness for p and announces a resume if it was paused.
func (m *PlayerManager) inputFrom(p *Player) {
	resumed, paused, err := m.detector.Update(p.Id())
	if err != nil || !resumed {
		return
	}

	e := session.Event{
		Type:       session.EventResumed,
		PlayerId:   p.Id(),
		PlayerName: p.Name(),
		Paused:     paused,
	}
	if s, ok := m.binder.Session(p); ok {
		e.SessionId = s.Id
		e.AccountId = s.Account.Id()
		e.AccountName = s.Account.Name()
	}
	m.binder.Notify(e)

	if err := m.send(p, MsgResumed, messageData{Name: p.Name(), Paused: paused}); err != nil {
		slog.Warn("sending resume message", "player", p.Id(), "error", err)
	}
}

func (m *PlayerManager) send(p *Player, name string, data messageData) error {
	text, err := m.msgs.Render(name, data)
	if err != nil {
		return err
	}
	return p.SendMessage(account.ColorWhite, text)
}

// sessionError drops the errors that mean the player simply went away.
func sessionError(err error) error {
	switch {
	case err == nil,
		errors.Is(err, ErrKicked),
		errors.Is(err, ErrCancelled),
		errors.Is(err, ErrDisconnected),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.EOF):
		return nil
	}
	return err
}
