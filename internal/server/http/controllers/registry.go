package controllers

import (
	"net/http"

	"github.com/proger/faeton/internal/runtime"
	eventsvc "github.com/proger/faeton/internal/services/events"
	logpkg "github.com/proger/faeton/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general *GeneralController
	events  *EventsController
	state   *StateController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *eventsvc.Service, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt),
		events:  NewEventsController(svc, logger),
		state:   NewStateController(svc, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.events.RegisterRoutes(mux)
	r.state.RegisterRoutes(mux)
}
