package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-gamemode/internal/storage"
)

type StorageConfig struct {
	Places AssetConfig[*account.Place] `json:"places"`
}

func (c *StorageConfig) validate() error {
	if c.Places.Path == "" {
		return nil
	}
	return c.Places.Validate("places")
}

// BuildPlaces loads the named places, or returns nil when none are configured.
func (c *StorageConfig) BuildPlaces() (storage.Storer[*account.Place], error) {
	if c.Places.Path == "" {
		return nil, nil
	}

	places, err := c.Places.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating place store: %w", err)
	}
	return places, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
