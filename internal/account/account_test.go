package account

import (
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type recordingMirror struct {
	attrs Attributes
	sets  int
}

func (m *recordingMirror) SetTeam(v int) { m.attrs.Team = v; m.sets++ }
func (m *recordingMirror) SetSkin(v int) { m.attrs.Skin = v; m.sets++ }
func (m *recordingMirror) SetMoney(v int) { m.attrs.Money = v; m.sets++ }
func (m *recordingMirror) SetScore(v int) { m.attrs.Score = v; m.sets++ }
func (m *recordingMirror) SetHealth(v float32) { m.attrs.Health = v; m.sets++ }
func (m *recordingMirror) SetArmour(v float32) { m.attrs.Armour = v; m.sets++ }
func (m *recordingMirror) SetColor(v Color) { m.attrs.Color = v; m.sets++ }
func (m *recordingMirror) SetSpawn(v Place) { m.attrs.Spawn = v; m.sets++ }

func TestAccount_BindCopiesAttributes(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("Delvis", "Qwerty")
	a.SetMoney(500)
	a.SetTeam(3)

	m := &recordingMirror{}
	testutil.AssertEqual(t, "bound", a.Bind(m), true)
	testutil.AssertEqual(t, "mirrored", m.attrs, a.Attributes())

	other := &recordingMirror{}
	testutil.AssertEqual(t, "second bind refused", a.Bind(other), false)
	testutil.AssertEqual(t, "other untouched", other.sets, 0)
}

// interleavingMirror changes the account's color from another goroutine
// while the account is still copying its attributes over.
type interleavingMirror struct {
	recordingMirror
	acc  *Account
	once sync.Once
	done chan struct{}
}

func (m *interleavingMirror) SetSpawn(v Place) {
	m.recordingMirror.SetSpawn(v)
	m.once.Do(func() {
		started := make(chan struct{})
		go func() {
			close(started)
			m.acc.SetColor(RGBA(255, 0, 0, 255))
			close(m.done)
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
	})
}

func TestAccount_BindOrdersConcurrentSetter(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("Delvis", "Qwerty")

	m := &interleavingMirror{acc: a, done: make(chan struct{})}
	testutil.AssertEqual(t, "bound", a.Bind(m), true)

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("setter never finished")
	}
	testutil.AssertEqual(t, "account color", a.Color(), RGBA(255, 0, 0, 255))
	testutil.AssertEqual(t, "mirror color", m.attrs.Color, a.Color())
}

func TestAccount_SettersPushToMirror(t *testing.T) {
	spawn := Place{Position: Vector3{X: 10, Y: 20, Z: 3}, Angle: 90}

	tests := map[string]struct {
		set   func(*Account)
		check func(*testing.T, Attributes)
	}{
		"team": {
			set:   func(a *Account) { a.SetTeam(2) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "team", at.Team, 2) },
		},
		"skin": {
			set:   func(a *Account) { a.SetSkin(42) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "skin", at.Skin, 42) },
		},
		"money": {
			set:   func(a *Account) { a.SetMoney(1000) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "money", at.Money, 1000) },
		},
		"give money": {
			set: func(a *Account) {
				a.SetMoney(100)
				a.GiveMoney(-30)
			},
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "money", at.Money, 70) },
		},
		"score": {
			set:   func(a *Account) { a.SetScore(7) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "score", at.Score, 7) },
		},
		"health": {
			set:   func(a *Account) { a.SetHealth(55.5) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "health", at.Health, float32(55.5)) },
		},
		"armour": {
			set:   func(a *Account) { a.SetArmour(25) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "armour", at.Armour, float32(25)) },
		},
		"color": {
			set:   func(a *Account) { a.SetColor(RGBA(255, 0, 0, 255)) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "color", at.Color, Color(0xFF0000FF)) },
		},
		"spawn": {
			set:   func(a *Account) { a.SetSpawn(spawn) },
			check: func(t *testing.T, at Attributes) { testutil.AssertEqual(t, "spawn", at.Spawn, spawn) },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestStore()
			a, _ := s.Create("Delvis", "Qwerty")
			m := &recordingMirror{}
			a.Bind(m)

			tt.set(a)

			tt.check(t, a.Attributes())
			tt.check(t, m.attrs)
		})
	}
}

func TestAccount_UnboundSettersDoNotPush(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("Delvis", "Qwerty")
	m := &recordingMirror{}
	a.Bind(m)

	testutil.AssertEqual(t, "unbind other", a.Unbind(&recordingMirror{}), false)
	testutil.AssertEqual(t, "unbind", a.Unbind(m), true)
	testutil.AssertEqual(t, "is bound", a.IsBound(), false)

	before := m.sets
	a.SetMoney(999)

	testutil.AssertEqual(t, "no push", m.sets, before)
	testutil.AssertEqual(t, "account updated", a.Money(), 999)
}

func TestColor_Text(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    Color
		expErr string
	}{
		"full rgba":  {in: "#FF000080", exp: Color(0xFF000080)},
		"rgb only":   {in: "00FF00", exp: Color(0x00FF00FF)},
		"bad length": {in: "#FFF", expErr: "invalid color"},
		"not hex":    {in: "ZZZZZZ", expErr: "invalid color"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var c Color
			err := c.UnmarshalText([]byte(tt.in))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "color", c, tt.exp)
		})
	}

	testutil.AssertEqual(t, "hex", ColorWhite.Hex(), "FFFFFF")
	testutil.AssertEqual(t, "alpha", ColorNone.Alpha(), uint8(0))
}

func TestPlace_Validate(t *testing.T) {
	tests := map[string]struct {
		place  Place
		expErr string
	}{
		"origin":         {place: Origin},
		"valid":          {place: Place{Position: Vector3{X: 1, Y: 2, Z: 3}, Angle: 359.9}},
		"negative angle": {place: Place{Angle: -1}, expErr: "angle must be in"},
		"full turn":      {place: Place{Angle: 360}, expErr: "angle must be in"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.place.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}
