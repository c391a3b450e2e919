package app

import (
	"time"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/proto"
)

// Dispatch is the server.Dispatch implementation: it bridges a
// connection goroutine's synchronous request into the reactor's
// single-consumer serialization. Control and DataControl requests run to
// completion (including their full follow-up chain) on the reactor
// goroutine before Dispatch returns, satisfying spec.md §5's ordering
// guarantee that a subscription emission happens strictly after the
// state transition that caused it. Info and Query only read state
// through Player.Snapshot/Library.Resolve, both of which lock
// internally, so they answer without a reactor round trip.
func (a *App) Dispatch(req proto.Message) proto.Message {
	switch req.Kind {
	case proto.KindPing:
		return proto.Success()

	case proto.KindWaitExit:
		return a.waitExit(req.WaitExitMs)

	case proto.KindControl:
		a.runOnReactor(msgbus.FromControl(req.Control))
		return proto.Success()

	case proto.KindDataControl:
		a.runOnReactor(msgbus.FromData(req.Data))
		return proto.Success()

	case proto.KindInfo:
		return proto.InfoMsg(a.buildInfo())

	case proto.KindQuery:
		return proto.SongListMsg(a.resolveQuery(req.Query))
	}

	return proto.ErrorMsg(errs.InvalidOperation, "unsupported request")
}

// runOnReactor posts msg as a Delegate Msg and blocks until the reactor
// has processed it (and every follow-up it produces), so the caller
// observes the completed state transition before replying to the client.
func (a *App) runOnReactor(msg msgbus.Msg) {
	done := make(chan struct{})
	a.bus.Send(msgbus.FromDelegate(func() {
		a.runChain(msg)
		close(done)
	}))
	<-done
}

// waitExit replies once the reactor has actually stopped or ms has
// elapsed, whichever comes first — it must not block the reactor thread
// itself, so it only ever waits on Done() and a timer from the
// connection goroutine.
func (a *App) waitExit(ms uint64) proto.Message {
	if ms == 0 {
		<-a.Done()
		return proto.Success()
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-a.Done():
	case <-timer.C:
	}
	return proto.Success()
}

// resolveQuery answers the protocol's Query request directly off the
// library, since Resolve/Get both lock internally and need no
// reactor-thread serialization (spec.md §6).
func (a *App) resolveQuery(q control.Query) []library.Song {
	ids := a.lib.Resolve(q)
	songs := make([]library.Song, len(ids))
	for i, id := range ids {
		songs[i] = a.lib.Get(id)
	}
	return songs
}
