package cart

import (
	"log/slog"
	"sync"

	"github.com/prashant0268/shamyraweb/internal/identity"
)

// Registry hands out one engine per device and feeds it session
// transitions. A request carrying a different session than the engine
// last saw is treated as a login/logout for that device.
type Registry struct {
	remote RemoteStore
	local  LocalStore
	log    *slog.Logger

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewRegistry(remote RemoteStore, local LocalStore, log *slog.Logger) *Registry {
	return &Registry{
		remote:  remote,
		local:   local,
		log:     log,
		engines: make(map[string]*Engine),
	}
}

func (r *Registry) EngineFor(deviceID string, s identity.Session) *Engine {
	r.mu.Lock()
	e, ok := r.engines[deviceID]
	if !ok {
		e = NewEngine(deviceID, r.remote, r.local, r.log)
		r.engines[deviceID] = e
	}
	r.mu.Unlock()

	if !ok || e.Session() != s {
		e.OnSessionChange(s)
	}
	return e
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.engines {
		e.Close()
	}
	r.engines = make(map[string]*Engine)
}
