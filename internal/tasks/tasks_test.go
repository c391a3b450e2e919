package tasks

import (
	"testing"

	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/msgbus"
)

func TestStartRejectsDuplicateKind(t *testing.T) {
	r := NewRegistry()
	if err := r.Start(msgbus.TaskLibrarySave); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	err := r.Start(msgbus.TaskLibrarySave)
	if errs.KindOf(err) != errs.InvalidOperation {
		t.Fatalf("expected InvalidOperation, got %v", err)
	}
}

func TestFinishClearsSlotForReuse(t *testing.T) {
	r := NewRegistry()
	r.Start(msgbus.TaskLibrarySave)
	r.Finish(msgbus.TaskLibrarySave)
	if err := r.Start(msgbus.TaskLibrarySave); err != nil {
		t.Fatalf("expected Start to succeed after Finish: %v", err)
	}
}

func TestAnyRunningExceptIgnoresNamedKind(t *testing.T) {
	r := NewRegistry()
	r.Start(msgbus.TaskServer)
	if r.AnyRunningExcept(msgbus.TaskServer) {
		t.Fatalf("expected no non-Server task running")
	}
	r.Start(msgbus.TaskLibrarySave)
	if !r.AnyRunningExcept(msgbus.TaskServer) {
		t.Fatalf("expected LibrarySave to count as a non-Server task")
	}
}

func TestRunPostsResultAndClearsSlot(t *testing.T) {
	r := NewRegistry()
	bus := msgbus.New()

	done := make(chan struct{})
	err := Run(r, bus, msgbus.TaskLibraryLoad, func() msgbus.TaskResult {
		close(done)
		return msgbus.TaskResult{}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-done

	msg, ok := bus.Recv()
	if !ok || msg.Kind != msgbus.TaskMsg || msg.Task.Kind != msgbus.TaskLibraryLoad {
		t.Fatalf("expected a TaskLibraryLoad completion message, got %+v ok=%v", msg, ok)
	}
	if r.Running(msgbus.TaskLibraryLoad) {
		t.Fatalf("expected slot cleared after completion")
	}
}
