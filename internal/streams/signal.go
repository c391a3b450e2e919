// Package streams implements the stream registry of spec.md §4.2: lazy,
// potentially infinite producers of Msgs that feed into the single bus.
// Fairness across streams is whatever os/net scheduling provides; no
// starvation guarantee is required.
package streams

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/msgbus"
)

// SignalStream posts Control(Close) onto bus on each of the first three
// termination signals it receives, and calls os.Exit(130) on the fourth —
// a hard escape hatch for a reactor wedged mid-shutdown (spec.md §4.2).
func SignalStream(bus *msgbus.Bus) (stop func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		count := 0
		for {
			select {
			case <-ch:
				count++
				if count >= 4 {
					os.Exit(130)
				}
				bus.Send(msgbus.FromControl(control.CloseMsg()))
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
