package jotter

import (
	"log/slog"
	"time"

	"github.com/aretw0/jotter/internal/platform"
	"github.com/aretw0/jotter/pkg/app"
	"github.com/aretw0/jotter/pkg/kv"
)

// --- Types ---

// Service is the public alias for the application service.
type Service = app.Service

// Result is the boundary outcome shape.
type Result = app.Result

// ResultOf converts an operation error into a Result.
func ResultOf(err error) Result {
	return app.ResultOf(err)
}

// --- Configuration ---

// Option defines a functional option for configuring jotter.
type Option = platform.Option

// Adapter names.
const (
	AdapterJSON   = platform.AdapterJSON
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the store and the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage backend by name ("json" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore injects an already opened store.
func WithStore(store kv.Store) Option {
	return platform.WithStore(store)
}

// WithMustExist fails instead of creating a missing store.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithIterations sets the PBKDF2 work factor for new passwords.
func WithIterations(n int) Option {
	return platform.WithIterations(n)
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithForceTemp forces the data directory into the temp directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEventBuffer sets the size of the watch channel of the JSON store.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New opens the data directory and returns a ready Service.
func New(dir string, opts ...Option) (*Service, error) {
	return platform.New(dir, opts...)
}

// Open opens only the store of the data directory.
func Open(dir string, opts ...Option) (kv.Store, error) {
	return platform.Open(dir, opts...)
}

// --- Safety & Utils ---

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
