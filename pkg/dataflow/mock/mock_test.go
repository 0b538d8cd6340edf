package mock

import (
	"errors"
	"testing"

	node "github.com/dogecoinfoundation/controlnode/pkg"
)

func TestScriptThenClosed(t *testing.T) {
	r := New(node.NewInput("tick", nil))
	h, err := r.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e, _ := h.Next(); e == nil || e.ID != "tick" {
		t.Fatalf("Next: wrong first event: %v", e)
	}
	if e, err := h.Next(); e != nil || err != nil {
		t.Fatalf("Next: expected closed graph, got %v %v", e, err)
	}
	if err := h.SendOutput(node.DirectionOutput, node.Command{1}); err != nil {
		t.Fatalf("SendOutput: %v", err)
	}
	if len(r.Sent) != 1 || r.Sent[0].Output != node.DirectionOutput {
		t.Fatalf("SendOutput: not recorded: %v", r.Sent)
	}
	h.Close()
	if r.Opened != 1 || r.Closed != 1 || r.Pulls != 2 {
		t.Fatalf("Runtime: wrong counters: opened %d closed %d pulls %d", r.Opened, r.Closed, r.Pulls)
	}
}

func TestDoubleOpen(t *testing.T) {
	r := New()
	if _, err := r.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.Open(); err == nil {
		t.Fatalf("Open: second open without Close should fail")
	}
}

func TestRepeatAndErrors(t *testing.T) {
	r := Repeat(node.NewInput("tick", nil))
	for i := 0; i < 3; i++ {
		if e, _ := r.Next(); e == nil {
			t.Fatalf("Next: Repeat ran dry on pull %d", i+1)
		}
	}
	boom := errors.New("boom")
	r.NextErr = boom
	if _, err := r.Next(); err != boom {
		t.Fatalf("Next: wrong error: %v", err)
	}
}
