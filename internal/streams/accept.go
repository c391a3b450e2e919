package streams

import (
	"net"

	"github.com/famish99/uampd/internal/msgbus"
)

// AcceptStream loops net.Listener.Accept and posts each accepted
// connection to handle via a Delegate Msg, so the connection hand-off
// runs under the reactor's single-consumer serialization rather than
// racing the reactor from the accept goroutine directly (spec.md §4.2
// "an optional accepted-connection stream for each bound listener").
// The accept loop itself runs on its own goroutine since Accept blocks;
// only the handoff crosses back onto the bus.
func AcceptStream(ln net.Listener, bus *msgbus.Bus, handle func(net.Conn)) (stop func()) {
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			c := conn
			bus.Send(msgbus.FromDelegate(func() { handle(c) }))
		}
	}()

	return func() { ln.Close() }
}
