package backend

import (
	"errors"
	"fmt"

	"timesheet/internal/config"
)

// Types lists the backends CreateBackend knows, in the order they are documented.
var Types = []BackendType{SQLiteBackend, MemoryBackend}

// FromAppConfig picks the backend fields out of the application config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, errors.New("backend: nil app config")
	}
	c := Config{
		Type:          BackendType(cfg.DataBackend),
		SQLiteDBPath:  cfg.SQLiteDBPath,
		DataDirectory: cfg.DataDirectory,
	}
	if !c.Type.IsValid() {
		return Config{}, fmt.Errorf("backend: unknown type %q, want one of %v", cfg.DataBackend, Types)
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("backend: sqlite needs a database path")
		}
		return nil
	case MemoryBackend:
		// An empty DataDirectory means "data".
		return nil
	default:
		return fmt.Errorf("backend: unknown type %q, want one of %v", c.Type, Types)
	}
}
