package dataflow

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/arrowipc"
	"github.com/pebbe/zmq4"
)

var addrSeq atomic.Int32

// inprocAddr returns a fresh in-process endpoint so tests never share sockets.
func inprocAddr(name string) string {
	return fmt.Sprintf("inproc://%s-%d", name, addrSeq.Add(1))
}

func testConfig(t *testing.T) node.Config {
	t.Helper()
	conf := node.DefaultConfig()
	conf.Runtime.InputAddr = inprocAddr("input")
	conf.Runtime.OutputAddr = inprocAddr("output")
	conf.Runtime.PollMillis = 20
	return conf
}

// publish binds a PUB socket on addr and keeps sending frames until the
// returned stop func is called; SUB sockets miss whatever is sent before
// they have joined.
func publish(t *testing.T, addr string, frames [][]byte) func() {
	t.Helper()
	pub, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		t.Fatalf("NewSocket: %v", err)
	}
	if err := pub.Bind(addr); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	parts := make([]interface{}, len(frames))
	for i, f := range frames {
		parts[i] = f
	}
	done, finished := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(finished)
		defer pub.Close()
		for {
			select {
			case <-done:
				return
			case <-time.After(5 * time.Millisecond):
				pub.SendMessage(parts...)
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func openHandle(t *testing.T, conf node.Config, interrupt <-chan struct{}) node.Handle {
	t.Helper()
	h, err := NewZMQRuntime(conf, interrupt).Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return h
}

type nextResult struct {
	event *node.Event
	err   error
}

func nextWithin(t *testing.T, h node.Handle, d time.Duration) (*node.Event, error) {
	t.Helper()
	ch := make(chan nextResult, 1)
	go func() {
		e, err := h.Next()
		ch <- nextResult{e, err}
	}()
	select {
	case r := <-ch:
		return r.event, r.err
	case <-time.After(d):
		t.Fatalf("Next: no result within %v", d)
	}
	return nil, nil
}

func TestZMQNextTick(t *testing.T) {
	conf := testConfig(t)
	stop := publish(t, conf.Runtime.InputAddr, frames("INPUT", "tick", ""))
	defer stop()

	h := openHandle(t, conf, make(chan struct{}))
	defer h.Close()

	e, err := nextWithin(t, h, 3*time.Second)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e == nil || e.Kind != node.EventInput || node.ParseInputID(e.ID) != node.InputTick {
		t.Fatalf("Next: wrong event: %+v", e)
	}
}

func TestZMQNextClosed(t *testing.T) {
	conf := testConfig(t)
	stop := publish(t, conf.Runtime.InputAddr, frames(ClosedTag))
	defer stop()

	h := openHandle(t, conf, make(chan struct{}))
	defer h.Close()

	e, err := nextWithin(t, h, 3*time.Second)
	if e != nil || err != nil {
		t.Fatalf("Next: CLOSED should end the stream, got %+v %v", e, err)
	}
}

func TestZMQNextInterrupted(t *testing.T) {
	conf := testConfig(t)
	interrupt := make(chan struct{})
	h := openHandle(t, conf, interrupt)
	defer h.Close()

	// nothing is published, so Next sits in receive timeouts until interrupted
	go func() {
		time.Sleep(3 * conf.PollInterval())
		close(interrupt)
	}()
	e, err := nextWithin(t, h, 2*time.Second)
	if e != nil || err != nil {
		t.Fatalf("Next: interrupt should end the stream, got %+v %v", e, err)
	}
}

func TestZMQSendOutput(t *testing.T) {
	conf := testConfig(t)
	h := openHandle(t, conf, make(chan struct{}))
	defer h.Close()

	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		t.Fatalf("NewSocket: %v", err)
	}
	defer sub.Close()
	sub.SetRcvtimeo(10 * time.Millisecond)
	if err := sub.Connect(conf.Runtime.OutputAddr); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := sub.SetSubscribe(""); err != nil {
		t.Fatalf("SetSubscribe: %v", err)
	}

	cmd := node.Command{1.5, 0, 0, 0, 0, -2.25}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if err := h.SendOutput(node.DirectionOutput, cmd); err != nil {
			t.Fatalf("SendOutput: %v", err)
		}
		msg, err := sub.RecvMessageBytes(0)
		if err != nil {
			continue // not joined yet
		}
		if len(msg) != 2 {
			t.Fatalf("SendOutput: wrong frame count: %d vs 2", len(msg))
		}
		if string(msg[0]) != "turtle_control/direction" {
			t.Fatalf("SendOutput: wrong topic: %s", msg[0])
		}
		values, err := arrowipc.DecodeFloat64s(msg[1])
		if err != nil {
			t.Fatalf("DecodeFloat64s: %v", err)
		}
		if len(values) != 6 {
			t.Fatalf("SendOutput: wrong row count: %d vs 6", len(values))
		}
		out, err := arrowipc.DecodeCommand(msg[1])
		if err != nil {
			t.Fatalf("DecodeCommand: %v", err)
		}
		if out != cmd {
			t.Fatalf("SendOutput: wrong command: %v vs %v", out, cmd)
		}
		return
	}
	t.Fatalf("SendOutput: nothing received on %s", conf.Runtime.OutputAddr)
}

func TestTapReceivesCommands(t *testing.T) {
	conf := testConfig(t)
	h := openHandle(t, conf, make(chan struct{}))
	defer h.Close()

	cmd := node.Command{1.75, 0, 0, 0, 0, 0.5}
	done, finished := make(chan struct{}), make(chan struct{})
	defer func() {
		close(done)
		<-finished
	}()
	go func() {
		defer close(finished)
		for {
			select {
			case <-done:
				return
			case <-time.After(5 * time.Millisecond):
				h.SendOutput(node.DirectionOutput, cmd)
			}
		}
	}()

	var got []node.Command
	topic := OutputTopic(conf.Node.Name, node.DirectionOutput)
	err := Tap(conf.Runtime.OutputAddr, topic, conf.PollInterval(), make(chan struct{}), func(c node.Command) bool {
		got = append(got, c)
		return len(got) < 2
	})
	if err != nil {
		t.Fatalf("Tap: %v", err)
	}
	if len(got) != 2 || got[0] != cmd || got[1] != cmd {
		t.Fatalf("Tap: wrong commands: %v", got)
	}
}
