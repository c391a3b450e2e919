// Package app implements the reactor (spec.md §4.1): the single
// goroutine that owns every piece of mutable state — the message bus,
// the task registry, the library, the player and the TCP server — and
// is the only thing ever allowed to mutate them. Grounded on the
// teacher's cmd/direttampd/main.go runDaemon wiring ("start server,
// block on signal channel"), generalized into the full drain-and-
// housekeep loop spec.md §4.1 requires.
package app

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/famish99/uampd/internal/config"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/player"
	"github.com/famish99/uampd/internal/server"
	"github.com/famish99/uampd/internal/tasks"
)

// App owns the bus, the task registry, the library, the player and the
// control server, and runs the reactor loop (spec.md §4.1). Nothing
// outside this package ever mutates App, Library or Player state
// directly — every external actor posts a Msg (or a Delegate closure)
// onto the bus instead, per spec.md §5.
type App struct {
	log *logrus.Logger
	bus *msgbus.Bus
	cfg *config.Config

	lib         *library.Library
	player      *player.Player
	decode      player.DecodeFunc
	taskReg     *tasks.Registry
	broadcaster *server.Broadcaster
	srv         *server.Server
	listener    net.Listener
	aliases     control.Table

	libraryPath string
	statePath   string

	pendingClose  bool
	closeStarted  bool
	lastSave      time.Time
	restartExe    string
	exitRequested bool

	stops []func()
	done  chan struct{}
}

// Deps bundles the pieces New needs, most of which cmd/uampd builds at
// startup (config, logger, library, player, sink-backed decode func).
type Deps struct {
	Log         *logrus.Logger
	Bus         *msgbus.Bus
	Config      *config.Config
	Library     *library.Library
	Player      *player.Player
	Decode      player.DecodeFunc
	LibraryPath string
}

// New builds an App over already-constructed collaborators. Run starts
// the reactor loop; callers register streams (signal, ticker, accept,
// watch) against Bus before or after calling Run, since the bus queues
// freely before a consumer attaches.
func New(d Deps) *App {
	return &App{
		log:         d.Log,
		bus:         d.Bus,
		cfg:         d.Config,
		lib:         d.Library,
		player:      d.Player,
		decode:      d.Decode,
		taskReg:     tasks.NewRegistry(),
		broadcaster: server.NewBroadcaster(),
		aliases:     control.Table(d.Config.Aliases),
		libraryPath: d.LibraryPath,
		lastSave:    time.Now(),
		done:        make(chan struct{}),
	}
}

// ListenAndServe binds addr, wires the accept loop as the Server task
// and starts it (spec.md §4.3, §4.7). Call before Run.
func (a *App) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	a.listener = ln
	a.srv = server.New(a.log, a.broadcaster, a.Dispatch)

	return tasks.Run(a.taskReg, a.bus, msgbus.TaskServer, func() msgbus.TaskResult {
		err := a.srv.Serve(ln)
		return msgbus.TaskResult{Err: err}
	})
}

// RegisterStop records a stream's stop func so Run can unwind it once
// the reactor exits.
func (a *App) RegisterStop(stop func()) {
	a.stops = append(a.stops, stop)
}

// Done is closed once Run's loop has returned, used by the WaitExit
// request handler to report actual process shutdown rather than a fixed
// delay.
func (a *App) Done() <-chan struct{} { return a.done }

// RestartExe returns the executable path recorded by a prior
// DataControl(Restart), empty if none was requested, so cmd/uampd can
// re-exec after Run returns.
func (a *App) RestartExe() string { return a.restartExe }

// Run drains the bus until a committed Close decides to exit, running
// housekeeping after each external Msg's full follow-up chain settles
// (spec.md §4.1). It returns once the reactor has stopped.
func (a *App) Run() {
	defer close(a.done)
	defer a.stopStreams()

	for {
		msg, ok := a.bus.Recv()
		if !ok {
			return
		}
		a.runChain(msg)
		a.housekeeping()
		if a.exitRequested {
			return
		}
	}
}

func (a *App) stopStreams() {
	for _, stop := range a.stops {
		stop()
	}
}

// runChain processes msg and then, depth-first, every follow-up Msg it
// returns before control returns to Run's bus loop — ordering guarantee
// (2) of spec.md §5 ("a follow-up message ... is processed before the
// next external Msg").
func (a *App) runChain(msg msgbus.Msg) {
	queue := []msgbus.Msg{msg}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if follow := a.handle(m); len(follow) > 0 {
			queue = append(follow, queue...)
		}
	}
}

func (a *App) handle(m msgbus.Msg) []msgbus.Msg {
	switch m.Kind {
	case msgbus.ControlMsg:
		return a.handleControl(m.Control)
	case msgbus.DataControlMsg:
		return a.handleDataControl(m.Data)
	case msgbus.PlayerMsg:
		return a.handlePlayerEvent(m.Player)
	case msgbus.TaskMsg:
		return a.handleTaskResult(m.Task)
	case msgbus.DelegateMsg:
		m.Delegate.Run()
		return nil
	case msgbus.ConfigMsg:
		a.applyConfig(m.Config)
		return nil
	case msgbus.TickMsg:
		return nil
	}
	return nil
}

func (a *App) applyConfig(cfg config.Config) {
	a.cfg = &cfg
	a.aliases = control.Table(cfg.Aliases)
	a.player.SetOptions(PlayerOptions(&cfg))
}

// housekeeping runs the four checks of spec.md §4.1 in order, once per
// drained Msg (including its follow-up chain).
func (a *App) housekeeping() {
	if a.pendingClose && !a.taskReg.AnyRunningExcept(msgbus.TaskServer) {
		a.pendingClose = false
		a.bus.Send(msgbus.FromControl(control.CloseMsg()))
	}

	a.player.CheckHardPause(time.Now())

	if a.lib.Dirty() && time.Since(a.lastSave) >= a.cfg.SaveTimeout() {
		a.startSave()
	}

	if level := a.lib.PendingUpdate(); level > library.UpdateNone {
		if level >= library.UpdateRemoveData {
			a.player.ReconcileLibrary(a.reconcileDeleted)
		}
	}
}
