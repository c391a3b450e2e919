// Package tasks implements the task registry described in spec.md §4.3:
// a background operation that may block (filesystem walk, atomic file
// write, accept loop) runs off the reactor thread and reports its result
// by posting a Msg, never by touching shared state directly. At most one
// task of a given Kind may run at a time.
package tasks

import (
	"sync"

	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/msgbus"
)

// Registry tracks which TaskKinds currently have a task in flight.
type Registry struct {
	mu      sync.Mutex
	running map[msgbus.TaskKind]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{running: make(map[msgbus.TaskKind]bool)}
}

// Start marks kind as running, returning errs.InvalidOperation if a task
// of that kind is already in flight (spec.md §4.3, §7 "InvalidOperation").
func (r *Registry) Start(kind msgbus.TaskKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running[kind] {
		return errs.New(errs.InvalidOperation, "task already running for this kind")
	}
	r.running[kind] = true
	return nil
}

// Finish clears kind's running flag. Run calls it just before the task's
// goroutine posts its completion Msg.
func (r *Registry) Finish(kind msgbus.TaskKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, kind)
}

// Running reports whether a task of kind is currently in flight.
func (r *Registry) Running(kind msgbus.TaskKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running[kind]
}

// AnyRunningExcept reports whether any task other than except is
// currently running — used by the reactor's pending_close check (spec.md
// §4.1 item 1: "no non-Server task is running").
func (r *Registry) AnyRunningExcept(except msgbus.TaskKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, running := range r.running {
		if running && k != except {
			return true
		}
	}
	return false
}

// Run starts kind, runs fn on a new goroutine, and posts its result onto
// bus as a TaskMsg once fn completes, clearing the registry slot before
// the message is posted. Returns the Start error immediately without
// spawning if a task of this kind is already running.
func Run(r *Registry, bus *msgbus.Bus, kind msgbus.TaskKind, fn func() msgbus.TaskResult) error {
	if err := r.Start(kind); err != nil {
		return err
	}
	go func() {
		result := fn()
		result.Kind = kind
		r.Finish(kind)
		bus.Send(msgbus.FromTask(result))
	}()
	return nil
}
