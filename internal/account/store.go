package account

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultMaxAccounts       = 10000
	DefaultMaxPasswordLength = 32
)

// Store is the pool of live accounts. Names are unique among live accounts and
// the pool never holds more than its configured maximum.
type Store struct {
	mu    sync.RWMutex
	slots map[int]*Account
	names map[string]*Account
	free  []int
	next  int
	hooks []func(*Account)

	maxAccounts       int
	maxPasswordLength int
	defaultSpawn      Place
	hashCost          int
}

type StoreOpt func(*Store)

func NewStore(opts ...StoreOpt) *Store {
	s := &Store{
		slots:             make(map[int]*Account),
		names:             make(map[string]*Account),
		maxAccounts:       DefaultMaxAccounts,
		maxPasswordLength: DefaultMaxPasswordLength,
		defaultSpawn:      Origin,
		hashCost:          bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithMaxAccounts(n int) StoreOpt {
	return func(s *Store) {
		s.maxAccounts = n
	}
}

func WithMaxPasswordLength(n int) StoreOpt {
	return func(s *Store) {
		s.maxPasswordLength = n
	}
}

func WithDefaultSpawn(p Place) StoreOpt {
	return func(s *Store) {
		s.defaultSpawn = p
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) StoreOpt {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// OnDestroy registers fn to run whenever an account leaves the pool.
func (s *Store) OnDestroy(fn func(*Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// MaxAccounts returns the pool capacity.
func (s *Store) MaxAccounts() int {
	return s.maxAccounts
}

// MaxPasswordLength returns the longest password, in runes, Create accepts.
func (s *Store) MaxPasswordLength() int {
	return s.maxPasswordLength
}

// PoolSize returns the number of live accounts.
func (s *Store) PoolSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Exists reports whether a live account has exactly this name.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok
}

// Find returns the account with this name, or nil.
func (s *Store) Find(name string) *Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[name]
}

// Get returns the account in slot id, or nil.
func (s *Store) Get(id int) *Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[id]
}

// All returns the live accounts ordered by id.
func (s *Store) All() []*Account {
	s.mu.RLock()
	accounts := make([]*Account, 0, len(s.slots))
	for _, a := range s.slots {
		accounts = append(accounts, a)
	}
	s.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].id < accounts[j].id })
	return accounts
}

// Create adds a new account with default attributes.
func (s *Store) Create(name, password string) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	// Checked again under the lock once the password is hashed.
	if s.PoolSize() >= s.maxAccounts {
		return nil, ErrCapacityExceeded
	}
	if s.Exists(name) {
		return nil, ErrDuplicateName
	}
	if utf8.RuneCountInString(password) > s.maxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.slots) >= s.maxAccounts {
		return nil, ErrCapacityExceeded
	}
	if _, exists := s.names[name]; exists {
		return nil, ErrDuplicateName
	}

	a := &Account{
		id:           s.allocate(),
		name:         name,
		passwordHash: hash,
		attrs:        NewAccountAttributes(s.defaultSpawn),
	}
	s.slots[a.id] = a
	s.names[name] = a

	return a, nil
}

// Destroy releases a's slot, then runs the destroy hooks. Once the hooks run
// the account can no longer be found.
func (s *Store) Destroy(a *Account) error {
	s.mu.Lock()
	if s.slots[a.id] != a {
		s.mu.Unlock()
		return ErrAccountNotFound
	}
	delete(s.slots, a.id)
	delete(s.names, a.name)
	s.free = append(s.free, a.id)
	hooks := append([]func(*Account){}, s.hooks...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(a)
	}
	return nil
}

// Clear destroys every live account.
func (s *Store) Clear() {
	for _, a := range s.All() {
		// Already gone means another caller destroyed it first.
		_ = s.Destroy(a)
	}
}

// allocate picks the lowest released slot, or the next unused one.
func (s *Store) allocate() int {
	if len(s.free) == 0 {
		id := s.next
		s.next++
		return id
	}

	lowest := 0
	for i := range s.free {
		if s.free[i] < s.free[lowest] {
			lowest = i
		}
	}
	id := s.free[lowest]
	s.free = append(s.free[:lowest], s.free[lowest+1:]...)
	return id
}
