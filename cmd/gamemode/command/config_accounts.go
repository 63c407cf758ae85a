package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// SeedAccount is an account created at startup.
type SeedAccount struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Team     int    `json:"team"`
	Skin     int    `json:"skin"`
	Money    int    `json:"money"`
	Score    int    `json:"score"`
}

type AccountsConfig struct {
	MaxAccounts       int                                     `json:"max_accounts"`
	MaxPasswordLength int                                     `json:"max_password_length"`
	BcryptCost        int                                     `json:"bcrypt_cost"`
	DefaultSpawn      storage.SmartIdentifier[*account.Place] `json:"default_spawn"`
	Seed              []SeedAccount                           `json:"seed"`
}

func (c *AccountsConfig) validate() error {
	el := errors.NewErrorList()

	if c.MaxAccounts < 0 {
		el.Add(fmt.Errorf("max_accounts must not be negative"))
	}
	if c.MaxPasswordLength < 0 {
		el.Add(fmt.Errorf("max_password_length must not be negative"))
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		el.Add(fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	max := c.MaxAccounts
	if max == 0 {
		max = account.DefaultMaxAccounts
	}
	if len(c.Seed) > max {
		el.Add(fmt.Errorf("%d seed accounts exceed max_accounts %d", len(c.Seed), max))
	}

	seen := map[string]bool{}
	for i, s := range c.Seed {
		if s.Name == "" {
			el.Add(fmt.Errorf("seed %d: name is required", i))
		}
		if seen[s.Name] {
			el.Add(fmt.Errorf("seed %d: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}

	return el.Err()
}

// BuildStore creates the account store, resolving the default spawn against
// places.
func (c *AccountsConfig) BuildStore(places storage.Storer[*account.Place]) (*account.Store, error) {
	var opts []account.StoreOpt
	if c.MaxAccounts > 0 {
		opts = append(opts, account.WithMaxAccounts(c.MaxAccounts))
	}
	if c.MaxPasswordLength > 0 {
		opts = append(opts, account.WithMaxPasswordLength(c.MaxPasswordLength))
	}
	if c.BcryptCost > 0 {
		opts = append(opts, account.WithHashCost(c.BcryptCost))
	}

	if c.DefaultSpawn.IsSet() {
		if places == nil {
			return nil, fmt.Errorf("default_spawn %q set but no places are configured", c.DefaultSpawn.Key())
		}
		if err := c.DefaultSpawn.Resolve(places); err != nil {
			return nil, fmt.Errorf("resolving default_spawn: %w", err)
		}
		opts = append(opts, account.WithDefaultSpawn(*c.DefaultSpawn.Get()))
	}

	return account.NewStore(opts...), nil
}

// SeedStore creates the configured seed accounts.
func (c *AccountsConfig) SeedStore(store *account.Store) error {
	for _, s := range c.Seed {
		acc, err := store.Create(s.Name, s.Password)
		if err != nil {
			return fmt.Errorf("seeding account %q: %w", s.Name, err)
		}
		if s.Team != 0 {
			acc.SetTeam(s.Team)
		}
		if s.Skin != 0 {
			acc.SetSkin(s.Skin)
		}
		if s.Money != 0 {
			acc.SetMoney(s.Money)
		}
		if s.Score != 0 {
			acc.SetScore(s.Score)
		}
	}
	return nil
}
