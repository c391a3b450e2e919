package streams

import (
	"time"

	"github.com/famish99/uampd/internal/msgbus"
)

// TickerStream posts a Tick Msg onto bus every interval, driving the
// reactor's periodic housekeeping checks (hard-pause completion,
// save_timeout) even when no other traffic arrives (spec.md §4.1, §4.2).
func TickerStream(bus *msgbus.Bus, interval time.Duration) (stop func()) {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case now := <-t.C:
				bus.Send(msgbus.FromTick(now))
			case <-done:
				return
			}
		}
	}()
	return func() {
		t.Stop()
		close(done)
	}
}
