package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-gamemode/internal/account"
)

// Session is the binding between a connected player and an account.
type Session struct {
	Id      string
	Player  Player
	Account *account.Account
	Started time.Time
}

// Binder associates connected players with accounts. A player is bound to at
// most one account and an account to at most one player.
type Binder struct {
	store    *account.Store
	notifier Notifier

	mu        sync.Mutex
	players   map[string]Player
	sessions  map[string]*Session
	byAccount map[*account.Account]*Session
}

type BinderOpt func(*Binder)

func WithNotifier(n Notifier) BinderOpt {
	return func(b *Binder) {
		b.notifier = n
	}
}

// NewBinder creates a Binder over store. Accounts destroyed in the store are
// logged out of first.
func NewBinder(store *account.Store, opts ...BinderOpt) *Binder {
	b := &Binder{
		store:     store,
		players:   make(map[string]Player),
		sessions:  make(map[string]*Session),
		byAccount: make(map[*account.Account]*Session),
	}
	for _, opt := range opts {
		opt(b)
	}

	store.OnDestroy(b.release)
	return b
}

// Store returns the account store the binder operates on.
func (b *Binder) Store() *account.Store {
	return b.store
}

// Connect starts tracking p.
func (b *Binder) Connect(p Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.players[p.Id()]; ok {
		return ErrAlreadyConnected
	}
	b.players[p.Id()] = p
	return nil
}

// Disconnect logs p out if needed and stops tracking it.
func (b *Binder) Disconnect(p Player) {
	err := b.LogOut(p)
	if err != nil && !errors.Is(err, ErrNotBound) && !errors.Is(err, ErrNotConnected) {
		slog.Warn("logging out disconnecting player", "player", p.Name(), "error", err)
	}

	b.mu.Lock()
	delete(b.players, p.Id())
	b.mu.Unlock()
}

// LogIn binds p to the account called name when password matches. On success
// the account's attributes are copied onto p. No state changes on failure.
func (b *Binder) LogIn(p Player, name, password string) error {
	if err := b.checkUnbound(p); err != nil {
		return err
	}

	acc := b.store.Find(name)
	if acc == nil {
		slog.Debug("login for unknown account", "player", p.Name(), "account", name)
		return ErrInvalidCredentials
	}
	if !acc.CheckPassword(password) {
		slog.Debug("login with wrong password", "player", p.Name(), "account", name)
		return ErrInvalidCredentials
	}

	b.mu.Lock()
	if _, ok := b.players[p.Id()]; !ok {
		b.mu.Unlock()
		return ErrNotConnected
	}
	if _, ok := b.sessions[p.Id()]; ok {
		b.mu.Unlock()
		return ErrAlreadyBound
	}
	if _, ok := b.byAccount[acc]; ok {
		b.mu.Unlock()
		return ErrAccountInUse
	}
	// The account may have been destroyed since it was found.
	if b.store.Get(acc.Id()) != acc {
		b.mu.Unlock()
		return ErrInvalidCredentials
	}
	if !acc.Bind(p) {
		b.mu.Unlock()
		return ErrAccountInUse
	}

	s := &Session{
		Id:      uuid.New().String(),
		Player:  p,
		Account: acc,
		Started: time.Now(),
	}
	b.sessions[p.Id()] = s
	b.byAccount[acc] = s
	b.mu.Unlock()

	b.notify(s, EventLoggedIn)
	return nil
}

// LogOut clears p's binding and resets p to the logged out baseline. The
// account itself is left untouched.
func (b *Binder) LogOut(p Player) error {
	b.mu.Lock()
	if _, ok := b.players[p.Id()]; !ok {
		b.mu.Unlock()
		return ErrNotConnected
	}
	s, ok := b.sessions[p.Id()]
	if !ok {
		b.mu.Unlock()
		return ErrNotBound
	}
	b.unbindLocked(s)
	b.mu.Unlock()

	account.LoggedOut.ApplyTo(p)
	b.notify(s, EventLoggedOut)
	return nil
}

// Register creates an account for p. It does not log p in.
func (b *Binder) Register(p Player, name, password string) (*account.Account, error) {
	if b.store.Exists(name) {
		return nil, account.ErrDuplicateName
	}

	acc, err := b.store.Create(name, password)
	if err != nil {
		return nil, err
	}

	slog.Info("account registered", "player", p.Name(), "account", acc.Name(), "id", acc.Id())
	b.notifyAccount(p, acc, EventRegistered)
	return acc, nil
}

// Unregister destroys the account named after p. Whoever is logged into that
// account is logged out first.
func (b *Binder) Unregister(p Player) error {
	acc := b.store.Find(p.Name())
	if acc == nil {
		return account.ErrAccountNotFound
	}

	if err := b.store.Destroy(acc); err != nil {
		return fmt.Errorf("destroying account %q: %w", acc.Name(), err)
	}

	slog.Info("account unregistered", "player", p.Name(), "account", acc.Name(), "id", acc.Id())
	b.notifyAccount(p, acc, EventUnregistered)
	return nil
}

// IsLoggedIn reports whether p is bound to an account.
func (b *Binder) IsLoggedIn(p Player) bool {
	_, ok := b.Session(p)
	return ok
}

// AccountOf returns the account p is logged into, or nil.
func (b *Binder) AccountOf(p Player) *account.Account {
	s, ok := b.Session(p)
	if !ok {
		return nil
	}
	return s.Account
}

// PlayerOf returns the player logged into acc, or nil.
func (b *Binder) PlayerOf(acc *account.Account) Player {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.byAccount[acc]; ok {
		return s.Player
	}
	return nil
}

// Session returns a copy of p's session.
func (b *Binder) Session(p Player) (Session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[p.Id()]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Sessions returns every active session ordered by account id.
func (b *Binder) Sessions() []Session {
	b.mu.Lock()
	sessions := make([]Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, *s)
	}
	b.mu.Unlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Account.Id() < sessions[j].Account.Id() })
	return sessions
}

// Connected returns the number of tracked players.
func (b *Binder) Connected() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.players)
}

// Notify forwards an externally raised event to the binder's notifier.
func (b *Binder) Notify(e Event) {
	if b.notifier == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if err := b.notifier.Notify(e); err != nil {
		slog.Warn("delivering session event", "type", e.Type, "player", e.PlayerName, "error", err)
	}
}

func (b *Binder) checkUnbound(p Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.players[p.Id()]; !ok {
		return ErrNotConnected
	}
	if _, ok := b.sessions[p.Id()]; ok {
		return ErrAlreadyBound
	}
	return nil
}

// release is the store's destroy hook; it logs out the account's player.
func (b *Binder) release(acc *account.Account) {
	b.mu.Lock()
	s, ok := b.byAccount[acc]
	if !ok {
		b.mu.Unlock()
		return
	}
	b.unbindLocked(s)
	b.mu.Unlock()

	account.LoggedOut.ApplyTo(s.Player)
	b.notify(s, EventLoggedOut)
}

func (b *Binder) unbindLocked(s *Session) {
	s.Account.Unbind(s.Player)
	delete(b.sessions, s.Player.Id())
	delete(b.byAccount, s.Account)
}

func (b *Binder) notify(s *Session, t EventType) {
	b.Notify(Event{
		Type:        t,
		SessionId:   s.Id,
		PlayerId:    s.Player.Id(),
		PlayerName:  s.Player.Name(),
		AccountId:   s.Account.Id(),
		AccountName: s.Account.Name(),
	})
}

func (b *Binder) notifyAccount(p Player, acc *account.Account, t EventType) {
	b.Notify(Event{
		Type:        t,
		PlayerId:    p.Id(),
		PlayerName:  p.Name(),
		AccountId:   acc.Id(),
		AccountName: acc.Name(),
	})
}
