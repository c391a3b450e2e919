package msgbus

import (
	"sync"
	"testing"

	"github.com/famish99/uampd/internal/control"
)

func TestSendRecvPreservesOrder(t *testing.T) {
	b := New()
	b.Send(FromControl(control.StopMsg()))
	b.Send(FromControl(control.ShuffleMsg()))

	first, ok := b.Recv()
	if !ok || first.Control.Kind != control.Stop {
		t.Fatalf("expected Stop first, got %+v ok=%v", first, ok)
	}
	second, ok := b.Recv()
	if !ok || second.Control.Kind != control.Shuffle {
		t.Fatalf("expected Shuffle second, got %+v ok=%v", second, ok)
	}
}

func TestRecvUnblocksOnClose(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	wg.Add(1)
	var ok bool
	go func() {
		defer wg.Done()
		_, ok = b.Recv()
	}()
	b.Close()
	wg.Wait()
	if ok {
		t.Fatalf("expected Recv to report closed with ok=false")
	}
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()
	b.Send(FromControl(control.StopMsg()))
	_, ok := b.Recv()
	if ok {
		t.Fatalf("expected no message to be delivered after close")
	}
}

func TestConcurrentSendersPreserveFIFOPerSender(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	const n = 50
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b.Send(FromControl(control.Next(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b.Send(FromControl(control.Prev(i)))
		}
	}()
	wg.Wait()

	next := map[control.Kind]int{}
	for i := 0; i < 2*n; i++ {
		msg, ok := b.Recv()
		if !ok {
			t.Fatalf("expected message %d", i)
		}
		kind := msg.Control.Kind
		if msg.Control.Count != next[kind] {
			t.Fatalf("sender %v out of order: got %d, want %d", kind, msg.Control.Count, next[kind])
		}
		next[kind]++
	}
	if next[control.NextSong] != n || next[control.PrevSong] != n {
		t.Fatalf("expected %d messages from each sender, got %v", n, next)
	}
}
