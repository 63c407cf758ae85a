package account

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Account is an identity with credentials and the gameplay attributes that are
// mirrored onto whichever player is logged into it.
type Account struct {
	id           int
	name         string
	passwordHash []byte

	// push is held from an attribute change until the mirror has it, so the
	// mirror sees changes in the order the account applied them.
	push   sync.Mutex
	mu     sync.Mutex
	attrs  Attributes
	mirror Mirror
}

func (a *Account) Id() int {
	return a.id
}

func (a *Account) Name() string {
	return a.name
}

// CheckPassword reports whether raw matches the account password exactly.
func (a *Account) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(raw)) == nil
}

// Attributes returns a snapshot of the account's mirrored attributes.
func (a *Account) Attributes() Attributes {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attrs
}

func (a *Account) Team() int { return a.Attributes().Team }
func (a *Account) Skin() int { return a.Attributes().Skin }
func (a *Account) Money() int { return a.Attributes().Money }
func (a *Account) Score() int { return a.Attributes().Score }
func (a *Account) Health() float32 { return a.Attributes().Health }
func (a *Account) Armour() float32 { return a.Attributes().Armour }
func (a *Account) Color() Color { return a.Attributes().Color }
func (a *Account) Spawn() Place { return a.Attributes().Spawn }
func (a *Account) IsBound() bool { return a.Mirror() != nil }

// Mirror returns the currently bound mirror, or nil.
func (a *Account) Mirror() Mirror {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mirror
}

// Bind attaches m to the account and copies every attribute onto it. It
// returns false without touching m if the account is already bound.
func (a *Account) Bind(m Mirror) bool {
	a.push.Lock()
	defer a.push.Unlock()

	a.mu.Lock()
	if a.mirror != nil {
		a.mu.Unlock()
		return false
	}
	a.mirror = m
	attrs := a.attrs
	a.mu.Unlock()

	attrs.ApplyTo(m)
	return true
}

// Unbind detaches m if it is the bound mirror. The mirror's values are left as
// is. A push already under way completes before Unbind returns.
func (a *Account) Unbind(m Mirror) bool {
	a.push.Lock()
	defer a.push.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mirror == nil || a.mirror != m {
		return false
	}
	a.mirror = nil
	return true
}

// update applies fn to the attributes and then pushes to the bound mirror.
func (a *Account) update(set func(*Attributes), push func(Mirror)) {
	a.push.Lock()
	defer a.push.Unlock()

	a.mu.Lock()
	set(&a.attrs)
	m := a.mirror
	a.mu.Unlock()

	if m != nil {
		push(m)
	}
}

func (a *Account) SetTeam(team int) {
	a.update(func(at *Attributes) { at.Team = team }, func(m Mirror) { m.SetTeam(team) })
}

func (a *Account) SetSkin(skin int) {
	a.update(func(at *Attributes) { at.Skin = skin }, func(m Mirror) { m.SetSkin(skin) })
}

func (a *Account) SetMoney(money int) {
	a.update(func(at *Attributes) { at.Money = money }, func(m Mirror) { m.SetMoney(money) })
}

// GiveMoney adds delta (which may be negative) to the account's money.
func (a *Account) GiveMoney(delta int) {
	a.push.Lock()
	defer a.push.Unlock()

	a.mu.Lock()
	a.attrs.Money += delta
	money := a.attrs.Money
	m := a.mirror
	a.mu.Unlock()

	if m != nil {
		m.SetMoney(money)
	}
}

func (a *Account) SetScore(score int) {
	a.update(func(at *Attributes) { at.Score = score }, func(m Mirror) { m.SetScore(score) })
}

func (a *Account) SetHealth(health float32) {
	a.update(func(at *Attributes) { at.Health = health }, func(m Mirror) { m.SetHealth(health) })
}

func (a *Account) SetArmour(armour float32) {
	a.update(func(at *Attributes) { at.Armour = armour }, func(m Mirror) { m.SetArmour(armour) })
}

func (a *Account) SetColor(color Color) {
	a.update(func(at *Attributes) { at.Color = color }, func(m Mirror) { m.SetColor(color) })
}

func (a *Account) SetSpawn(spawn Place) {
	a.update(func(at *Attributes) { at.Spawn = spawn }, func(m Mirror) { m.SetSpawn(spawn) })
}
