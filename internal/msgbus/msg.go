// Package msgbus implements the single-consumer message bus at the heart
// of the reactor (spec.md §4.1): one unbounded channel carrying a closed
// Msg sum, drained by exactly one goroutine. Every emitter — the signal
// stream, accepted sockets, task completions, player callbacks, the
// ticker — posts onto the same channel rather than mutating state
// directly, which is what makes the single-consumer serialization hold.
package msgbus

import (
	"time"

	"github.com/famish99/uampd/internal/config"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
)

// Kind identifies a Msg variant.
type Kind int

const (
	// None carries no payload; used as a terminator for follow-up chains.
	None Kind = iota
	ControlMsg
	DataControlMsg
	PlayerMsg
	ConfigMsg
	DelegateMsg
	TickMsg
	TaskMsg
)

// PlayerEvent is the payload of a Msg posted by the player or sink
// callbacks, marshalled back onto the reactor thread per spec.md §5
// ("callbacks post messages rather than mutating").
type PlayerEvent struct {
	Kind PlayerEventKind

	Err error // PlayerEventFailed
}

// PlayerEventKind enumerates what a PlayerEvent reports.
type PlayerEventKind int

const (
	PlayerEventPrefetchTime PlayerEventKind = iota
	PlayerEventSourceEnded
	PlayerEventFailed
)

// TaskKind identifies which task registry slot a TaskMsg completion is for.
type TaskKind int

const (
	TaskLibraryLoad TaskKind = iota
	TaskLibrarySave
	TaskServer
)

// TaskResult is the payload of a completed background task, its concrete
// shape depending on which TaskKind produced it.
type TaskResult struct {
	Kind TaskKind

	LoadResult library.LoadResult
	SaveResult library.SaveResult
	Err        error
}

// DelegateEvent carries an arbitrary reactor-thread callback, used by
// connection handlers and streams that need to run a small closure under
// the single-consumer serialization without defining a dedicated Kind.
type DelegateEvent struct {
	Run func()
}

// Msg is the closed sum type flowing through the bus. Exactly one of the
// typed payload fields is meaningful, selected by Kind — the same
// tagged-struct idiom used by control.Control, chosen over an interface
// so follow-up chaining (§4.1) can build a plain slice without boxing.
type Msg struct {
	Kind Kind

	Control  control.Control
	Data     control.DataControl
	Player   PlayerEvent
	Task     TaskResult
	Delegate DelegateEvent
	Tick     time.Time
	Config   config.Config
}

// FromControl wraps c as a Msg.
func FromControl(c control.Control) Msg { return Msg{Kind: ControlMsg, Control: c} }

// FromData wraps d as a Msg.
func FromData(d control.DataControl) Msg { return Msg{Kind: DataControlMsg, Data: d} }

// FromPlayer wraps a PlayerEvent as a Msg.
func FromPlayer(e PlayerEvent) Msg { return Msg{Kind: PlayerMsg, Player: e} }

// FromTask wraps a TaskResult as a Msg.
func FromTask(r TaskResult) Msg { return Msg{Kind: TaskMsg, Task: r} }

// FromDelegate wraps a closure as a Msg.
func FromDelegate(run func()) Msg { return Msg{Kind: DelegateMsg, Delegate: DelegateEvent{Run: run}} }

// FromTick wraps a housekeeping tick as a Msg.
func FromTick(t time.Time) Msg { return Msg{Kind: TickMsg, Tick: t} }

// FromConfig wraps a reloaded Config as a Msg.
func FromConfig(c config.Config) Msg { return Msg{Kind: ConfigMsg, Config: c} }
