// Package backend selects and opens the persistence layer behind the
// services: SQLite for real use, memory for tests and throwaway sessions.
package backend

import (
	"context"
	"slices"

	"timesheet/internal/ports"
)

// Backend is everything the services need from persistence.
type Backend interface {
	ports.AccountCatalog
	ports.AccountWriter
	ports.SlotReader
	ports.SlotWriter
	ports.WeekStatusStore
	ports.WeekNoteStore
	ports.CareerStore
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult is an opened backend and what releases it.
type BackendResult struct {
	Backend Backend
	Cleanup func() error
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string
	// DataDirectory holds the memory backend seed files.
	DataDirectory string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(Types, bt)
}
