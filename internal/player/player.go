package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/display"
)

const cancelCommand = "/cancel"

var (
	ErrCancelled    = errors.New("prompt cancelled")
	ErrKicked       = errors.New("player was kicked")
	ErrDisconnected = errors.New("connection closed")
)

// EchoController is implemented by connections that can turn remote echo off
// for masked input.
type EchoController interface {
	SetEcho(on bool) error
}

// NameHinter is implemented by connections that already know the name of the
// player connecting, such as an ssh login.
type NameHinter interface {
	PlayerName() string
}

// Dialog is a text prompt shown to a player.
type Dialog struct {
	Title  string
	Body   string
	Masked bool
}

// Player is a connected player on a line based connection. It holds the
// mirrored attributes the game would otherwise keep on the entity.
type Player struct {
	id      string
	conn    io.ReadWriter
	wmu     sync.Mutex
	ansi    bool
	onInput func()

	mu    sync.Mutex
	name  string
	attrs account.Attributes

	lines   chan string
	readErr error
	kicked  chan struct{}
	once    sync.Once
}

func newPlayer(id string, conn io.ReadWriter, ansi bool) *Player {
	return &Player{
		id:     id,
		conn:   conn,
		ansi:   ansi,
		attrs:  account.LoggedOut,
		lines:  make(chan string),
		kicked: make(chan struct{}),
	}
}

// listen reads input lines into the lines channel until the connection ends
// or done is closed.
func (p *Player) listen(done <-chan struct{}) {
	defer close(p.lines)

	scanner := bufio.NewScanner(p.conn)
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-done:
			return
		}
	}
	p.readErr = scanner.Err()
}

func (p *Player) Id() string {
	return p.id
}

func (p *Player) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func (p *Player) setName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
}

// Ping is always zero; line based connections have no latency estimate.
func (p *Player) Ping() int {
	return 0
}

// Attributes returns the player's current mirrored attributes.
func (p *Player) Attributes() account.Attributes {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attrs
}

func (p *Player) set(fn func(*account.Attributes)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.attrs)
}

func (p *Player) SetTeam(v int) { p.set(func(a *account.Attributes) { a.Team = v }) }
func (p *Player) SetSkin(v int) { p.set(func(a *account.Attributes) { a.Skin = v }) }
func (p *Player) SetMoney(v int) { p.set(func(a *account.Attributes) { a.Money = v }) }
func (p *Player) SetScore(v int) { p.set(func(a *account.Attributes) { a.Score = v }) }
func (p *Player) SetHealth(v float32) { p.set(func(a *account.Attributes) { a.Health = v }) }
func (p *Player) SetArmour(v float32) { p.set(func(a *account.Attributes) { a.Armour = v }) }
func (p *Player) SetColor(v account.Color) { p.set(func(a *account.Attributes) { a.Color = v }) }
func (p *Player) SetSpawn(v account.Place) { p.set(func(a *account.Attributes) { a.Spawn = v }) }

// SendMessage writes text on its own line, colored when ANSI output is on.
func (p *Player) SendMessage(color account.Color, text string) error {
	if p.ansi && color.Alpha() > 0 {
		r, g, b := uint8(color>>24), uint8(color>>16), uint8(color>>8)
		text = fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
	}
	return p.write(text + "\n")
}

// Kick ends the player's session. It is safe to call more than once.
func (p *Player) Kick() {
	p.once.Do(func() { close(p.kicked) })
}

// Kicked is closed once the player has been kicked.
func (p *Player) Kicked() <-chan struct{} {
	return p.kicked
}

// Prompt shows d and waits for one line of input. Typing /cancel returns
// ErrCancelled.
func (p *Player) Prompt(ctx context.Context, d Dialog) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n")
	if d.Title != "" {
		sb.WriteString(fmt.Sprintf("== %s ==\n", d.Title))
	}
	if d.Body != "" {
		sb.WriteString(display.Wrap(d.Body))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("(type %s to cancel)\n> ", cancelCommand))

	if err := p.write(sb.String()); err != nil {
		return "", err
	}

	if d.Masked {
		p.setEcho(false)
		defer func() {
			p.setEcho(true)
			_ = p.write("\n")
		}()
	}

	line, err := p.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == cancelCommand {
		return "", ErrCancelled
	}
	return line, nil
}

// ReadLine waits for the next line of input.
func (p *Player) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.kicked:
		return "", ErrKicked
	case line, ok := <-p.lines:
		if !ok {
			if p.readErr != nil {
				return "", p.readErr
			}
			return "", ErrDisconnected
		}
		if p.onInput != nil {
			p.onInput()
		}
		return line, nil
	}
}

func (p *Player) setEcho(on bool) {
	if ec, ok := p.conn.(EchoController); ok {
		_ = ec.SetEcho(on)
	}
}

func (p *Player) write(s string) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	_, err := p.conn.Write([]byte(s))
	return err
}
