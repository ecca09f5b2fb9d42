// Package handlers implements the HTTP surface of the render service.
package handlers

import (
	"context"

	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/plan"
	"github.com/josmany3000/Render-videos04/internal/registry"
)

// JobDispatcher starts asynchronous processing of a render request.
type JobDispatcher interface {
	Dispatch(ctx context.Context, req plan.Request) (string, error)
}

// Deps carries the collaborators the handlers need.
type Deps struct {
	Registry     registry.Store
	Dispatcher   JobDispatcher
	ProviderName string
	Log          *logger.Logger
}

// Handlers bundles the route implementations.
type Handlers struct {
	registry     registry.Store
	dispatcher   JobDispatcher
	providerName string
	log          *logger.Logger
}

func New(d Deps) *Handlers {
	return &Handlers{
		registry:     d.Registry,
		dispatcher:   d.Dispatcher,
		providerName: d.ProviderName,
		log:          d.Log.WithComponent("httpapi"),
	}
}
