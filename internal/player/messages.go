package player

import (
	"fmt"
	"sort"
	"time"

	"github.com/pixil98/go-gamemode/internal/display"
)

// Message template names, usable as config overrides.
const (
	MsgWelcome       = "welcome"
	MsgNameBody      = "name_body"
	MsgInvalidName   = "invalid_name"
	MsgLoginBody     = "login_body"
	MsgRegisterBody  = "register_body"
	MsgConfirmBody   = "confirm_body"
	MsgMismatch      = "password_mismatch"
	MsgTooLong       = "password_too_long"
	MsgWrongPassword = "wrong_password"
	MsgLoggedIn      = "logged_in"
	MsgRegistered    = "registered"
	MsgLoggedOut     = "logged_out"
	MsgResumed       = "resumed"
)

var defaultMessages = map[string]string{
	MsgWelcome:       "Welcome to the server!",
	MsgNameBody:      "By what name do you wish to be known? Use the form Firstname_Lastname.",
	MsgInvalidName:   `"{{ .Name }}" is not a valid name. Try a name like John_Smith.`,
	MsgLoginBody:     "Welcome back, {{ .Name | replace \"_\" \" \" }}. This name is registered; enter its password to log in.",
	MsgRegisterBody:  "{{ .Name | replace \"_\" \" \" }} is not registered yet. Choose a password of at most {{ .MaxPassword }} characters.",
	MsgConfirmBody:   "Type the same password again to confirm it.",
	MsgMismatch:      "The passwords do not match, try again.",
	MsgTooLong:       "That password is too long; use at most {{ .MaxPassword }} characters.",
	MsgWrongPassword: "Wrong password ({{ .Tries }}/{{ .MaxTries }}).",
	MsgLoggedIn:      "Logged in as {{ .Name }}. Money: {{ money .Money }}, score: {{ .Score }}.",
	MsgRegistered:    "Account {{ .Name }} registered.",
	MsgLoggedOut:     "You have been logged out.",
	MsgResumed:       "Welcome back! You were paused for {{ .Paused }}.",
}

// messageData is the data every message template is expanded with.
type messageData struct {
	Name        string
	MaxPassword int
	Tries       int
	MaxTries    int
	Money       int
	Score       int
	Paused      time.Duration
}

// Messages holds the parsed templates used for text sent to players.
type Messages struct {
	tmpls map[string]*display.Template
}

// NewMessages parses the default templates with overrides applied.
func NewMessages(overrides map[string]string) (*Messages, error) {
	m := &Messages{tmpls: make(map[string]*display.Template, len(defaultMessages))}

	for name, tmpl := range defaultMessages {
		if o, ok := overrides[name]; ok {
			tmpl = o
		}
		t, err := display.ParseTemplate(name, tmpl)
		if err != nil {
			return nil, err
		}
		m.tmpls[name] = t
	}

	for name := range overrides {
		if _, ok := defaultMessages[name]; !ok {
			return nil, fmt.Errorf("unknown message %q", name)
		}
	}

	return m, nil
}

// MessageNames lists every message that can be overridden.
func MessageNames() []string {
	names := make([]string, 0, len(defaultMessages))
	for name := range defaultMessages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render expands the named message with data.
func (m *Messages) Render(name string, data any) (string, error) {
	t, ok := m.tmpls[name]
	if !ok {
		return "", fmt.Errorf("unknown message %q", name)
	}
	return t.Expand(data)
}
