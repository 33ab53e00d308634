package platform

import (
	"github.com/aretw0/vidnote/pkg/core"
)

// New builds the note store over the adapter selected by opts.
//
//	svc, err := vidnote.New("./notes.json", vidnote.WithReadOnly(true))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Initialize storage (path resolution, directories, schema)
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	// 2. Initialize Domain Service
	isReadOnly, _ := o.config["read_only"].(bool)
	svcOpts := []core.ServiceOption{
		core.WithReadOnly(isReadOnly),
		core.WithURLCheck(o.urlCheck),
	}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	return core.NewService(repo, svcOpts...), nil
}
