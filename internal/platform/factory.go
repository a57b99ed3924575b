package platform

import (
	"fmt"

	"github.com/aretw0/jotter/pkg/app"
	"github.com/aretw0/jotter/pkg/credentials"
)

// New opens the store in dir and wires a Service on top of it.
//
//	svc, err := jotter.New("./data", jotter.WithAdapter("sqlite"))
func New(dir string, opts ...Option) (*app.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	hasher, err := credentials.NewPBKDF2Hasher(o.iterations)
	if err != nil {
		return nil, err
	}

	store, err := open(dir, o)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	appOpts := []app.Option{app.WithHasher(hasher)}
	if o.logger != nil {
		appOpts = append(appOpts, app.WithLogger(o.logger))
	}
	if o.now != nil {
		appOpts = append(appOpts, app.WithClock(o.now))
	}
	return app.New(store, appOpts...), nil
}
