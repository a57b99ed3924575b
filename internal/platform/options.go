package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/jotter/pkg/kv"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterJSON   = "json"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for a jotter Service.
type options struct {
	store       kv.Store
	logger      *slog.Logger
	adapter     string
	mustExist   bool
	iterations  int
	now         func() time.Time
	forceTemp   bool
	devSafety   bool
	eventBuffer int
}

// Option defines a functional option for configuring jotter.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterJSON,
		devSafety: true,
	}
}

// WithLogger sets the logger for the store and the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage backend by name ("json" or "sqlite").
// Defaults to "json".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStore injects an already opened store (e.g. kv.NewMemory()).
// When set, the adapter and the path are ignored.
func WithStore(store kv.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMustExist fails instead of creating a missing data directory or store file.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithIterations sets the PBKDF2 work factor for new passwords.
// Zero means the default.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithForceTemp forces the data directory into the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true), jotter keeps its data in a temporary directory so a
// development build never touches the real notes.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithEventBuffer sets the size of the FileStore watch channel.
// Zero means default.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}
