package streams

import (
	"net"
	"testing"
	"time"

	"github.com/famish99/uampd/internal/msgbus"
)

func TestTickerStreamPostsTicks(t *testing.T) {
	bus := msgbus.New()
	stop := TickerStream(bus, 5*time.Millisecond)
	defer stop()

	msg, ok := bus.Recv()
	if !ok || msg.Kind != msgbus.TickMsg {
		t.Fatalf("expected a Tick message, got %+v ok=%v", msg, ok)
	}
}

func TestAcceptStreamDelegatesConnections(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	bus := msgbus.New()
	handled := make(chan struct{}, 1)
	stop := AcceptStream(ln, bus, func(net.Conn) { handled <- struct{}{} })
	defer stop()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msg, ok := bus.Recv()
	if !ok || msg.Kind != msgbus.DelegateMsg {
		t.Fatalf("expected a Delegate message, got %+v ok=%v", msg, ok)
	}
	msg.Delegate.Run()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatalf("handler was not invoked")
	}
}
