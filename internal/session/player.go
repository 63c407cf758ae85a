package session

import (
	"regexp"

	"github.com/pixil98/go-gamemode/internal/account"
)

// Player is a connected entity. Besides receiving mirrored account attributes
// it can be messaged and disconnected.
type Player interface {
	account.Mirror

	// Id is stable for the lifetime of the connection.
	Id() string
	Name() string
	Ping() int
	SendMessage(color account.Color, text string) error
	Kick()
}

var namePattern = regexp.MustCompile(`^[A-Z][a-z]+_[A-Z][a-z]+$`)

// ValidName reports whether name has the Firstname_Lastname form required to
// log in or register.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
