package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/jotter/pkg/kv"
)

// Open opens the store selected by the options inside the data directory
// dir. An injected store (WithStore) is returned as is.
func Open(dir string, opts ...Option) (kv.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(dir, o)
}

func open(dir string, o *options) (kv.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	useTemp := o.forceTemp || (o.devSafety && IsDevRun())
	resolved := ResolveDataDir(dir, useTemp)
	if useTemp && resolved != filepath.Clean(dir) {
		logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", dir, "resolved_path", resolved)
	}

	switch o.adapter {
	case AdapterJSON, "":
		return kv.OpenFile(kv.FileConfig{
			Path:        filepath.Join(resolved, kv.DefaultFileName),
			MustExist:   o.mustExist,
			Logger:      logger.With("component", "store"),
			EventBuffer: o.eventBuffer,
		})
	case AdapterSQLite:
		return kv.OpenSQLite(kv.SQLiteConfig{
			Path:      filepath.Join(resolved, kv.DefaultSQLiteFileName),
			MustExist: o.mustExist,
			Logger:    logger.With("component", "store"),
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
