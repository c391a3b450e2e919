// Command uampd runs the headless player daemon: it loads configuration
// and the song library, wires the sink/player/reactor, binds the control
// listener and blocks until a client (or a termination signal) closes it.
// Flag and startup-logging style grounded on the teacher's
// cmd/direttampd/main.go.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/famish99/uampd/internal/app"
	"github.com/famish99/uampd/internal/config"
	"github.com/famish99/uampd/internal/decode"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/logging"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/player"
	"github.com/famish99/uampd/internal/sink"
	"github.com/famish99/uampd/internal/streams"
)

var (
	stateDir = flag.String("state-dir", "", "Directory holding config.yaml/library.json (default: "+config.StateDirEnvVar+" or ~/.uampd)")
	logLevel = flag.String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	logJSON  = flag.Bool("log-json", false, "Emit structured JSON logs instead of text")
	addrFlag = flag.String("address", "", "Override the configured control listen address")
	portFlag = flag.Uint("port", 0, "Override the configured control listen port (0 keeps the config value)")
)

func main() {
	flag.Parse()

	logger := logging.New(logging.Options{JSON: *logJSON, Level: *logLevel})

	dir := config.ResolveStateDir(defaultStateDir())
	if *stateDir != "" {
		dir = *stateDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Fatalf("failed to create state directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg.StateDir = dir
	if *addrFlag != "" {
		cfg.Server.Address = *addrFlag
	}
	if *portFlag != 0 {
		cfg.Server.Port = uint16(*portFlag)
	}

	libraryPath := filepath.Join(dir, "library.json")
	lib, err := library.Load(libraryPath)
	if err != nil {
		logger.Fatalf("failed to load library: %v", err)
	}

	snk := sink.NewBeepSink()
	if err := snk.Init(); err != nil {
		logger.Fatalf("failed to initialize audio output: %v", err)
	}

	want := sink.Config{SampleRate: 44100, Channels: 2}
	if snk.PreferredConfig != nil {
		want = snk.PreferredConfig()
	}
	decodeFn := decode.New(want)

	bus := msgbus.New()
	p := player.New(logger, bus, lib, snk, app.PlayerOptions(cfg), library.ExtractMetadata)

	a := app.New(app.Deps{
		Log:         logger,
		Bus:         bus,
		Config:      cfg,
		Library:     lib,
		Player:      p,
		Decode:      decodeFn,
		LibraryPath: libraryPath,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	if err := a.ListenAndServe(addr); err != nil {
		logger.Fatalf("failed to bind control listener: %v", err)
	}
	logger.Infof("uampd listening on %s", addr)

	a.RegisterStop(streams.SignalStream(bus))
	a.RegisterStop(streams.TickerStream(bus, time.Second))
	if cfg.Library.Watch && len(cfg.Library.SearchPaths) > 0 {
		stop, werr := streams.WatchStream(bus, cfg.Library.SearchPaths, cfg.Library.RemoveMissing)
		if werr != nil {
			logger.WithError(werr).Warn("failed to start library watcher")
		} else {
			a.RegisterStop(stop)
		}
	}

	a.Run()

	if exe := a.RestartExe(); exe != "" {
		logger.Infof("restarting via %s", exe)
		if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
			logger.Fatalf("failed to re-exec %s: %v", exe, err)
		}
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".uampd"
	}
	return filepath.Join(home, ".uampd")
}
