package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/session"
)

const (
	maxNameTries     = 3
	maxPasswordTries = 3
)

var (
	ErrInvalidName  = errors.New("no valid name given")
	ErrTooManyTries = errors.New("too many wrong passwords")
)

// loginFlow walks a connected player through choosing a name and logging in,
// registering the name first when it is unknown.
type loginFlow struct {
	binder *session.Binder
	msgs   *Messages
}

func (f *loginFlow) Run(ctx context.Context, p *Player) error {
	if p.Name() == "" {
		name, err := f.askName(ctx, p)
		if err != nil {
			return err
		}
		p.setName(name)
	}

	if f.binder.Store().Exists(p.Name()) {
		return f.login(ctx, p)
	}
	return f.register(ctx, p)
}

func (f *loginFlow) askName(ctx context.Context, p *Player) (string, error) {
	for tries := 1; tries <= maxNameTries; tries++ {
		body, err := f.msgs.Render(MsgNameBody, messageData{})
		if err != nil {
			return "", err
		}

		name, err := p.Prompt(ctx, Dialog{Title: "Name", Body: body})
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(name)

		if session.ValidName(name) {
			return name, nil
		}
		if err := f.send(p, MsgInvalidName, messageData{Name: name}); err != nil {
			return "", err
		}
	}
	return "", ErrInvalidName
}

func (f *loginFlow) login(ctx context.Context, p *Player) error {
	data := f.data(p)
	body, err := f.msgs.Render(MsgLoginBody, data)
	if err != nil {
		return err
	}

	for tries := 1; ; tries++ {
		password, err := p.Prompt(ctx, Dialog{Title: "Login", Body: body, Masked: true})
		if err != nil {
			return err
		}

		err = f.binder.LogIn(p, p.Name(), password)
		if err == nil {
			return f.loggedIn(p)
		}
		if !errors.Is(err, session.ErrInvalidCredentials) {
			return err
		}
		if tries >= maxPasswordTries {
			return ErrTooManyTries
		}

		data.Tries = tries
		if err := f.send(p, MsgWrongPassword, data); err != nil {
			return err
		}
	}
}

func (f *loginFlow) register(ctx context.Context, p *Player) error {
	data := f.data(p)
	body, err := f.msgs.Render(MsgRegisterBody, data)
	if err != nil {
		return err
	}
	confirmBody, err := f.msgs.Render(MsgConfirmBody, data)
	if err != nil {
		return err
	}

	for {
		password, err := p.Prompt(ctx, Dialog{Title: "Register", Body: body, Masked: true})
		if err != nil {
			return err
		}
		confirm, err := p.Prompt(ctx, Dialog{Title: "Register", Body: confirmBody, Masked: true})
		if err != nil {
			return err
		}
		if password != confirm {
			if err := f.send(p, MsgMismatch, data); err != nil {
				return err
			}
			continue
		}

		_, err = f.binder.Register(p, p.Name(), password)
		if errors.Is(err, account.ErrPasswordTooLong) {
			if err := f.send(p, MsgTooLong, data); err != nil {
				return err
			}
			continue
		}
		if errors.Is(err, account.ErrDuplicateName) {
			// Someone else registered the name while this player was typing.
			return f.login(ctx, p)
		}
		if err != nil {
			return fmt.Errorf("registering %s: %w", p.Name(), err)
		}

		if err := f.send(p, MsgRegistered, data); err != nil {
			return err
		}
		if err := f.binder.LogIn(p, p.Name(), password); err != nil {
			return fmt.Errorf("logging in %s after registering: %w", p.Name(), err)
		}
		return f.loggedIn(p)
	}
}

func (f *loginFlow) loggedIn(p *Player) error {
	data := f.data(p)
	if acc := f.binder.AccountOf(p); acc != nil {
		data.Money = acc.Money()
		data.Score = acc.Score()
	}
	return f.send(p, MsgLoggedIn, data)
}

func (f *loginFlow) data(p *Player) messageData {
	return messageData{
		Name:        p.Name(),
		MaxPassword: f.binder.Store().MaxPasswordLength(),
		MaxTries:    maxPasswordTries,
	}
}

func (f *loginFlow) send(p *Player, name string, data messageData) error {
	text, err := f.msgs.Render(name, data)
	if err != nil {
		return err
	}
	return p.SendMessage(account.ColorWhite, text)
}
