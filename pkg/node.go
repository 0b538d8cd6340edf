package node

import (
	"io"
	"log"
	"sync/atomic"
)

// EventSource delivers runtime events. Next blocks until an event is
// available and returns nil, nil once the graph is closed.
type EventSource interface {
	Next() (*Event, error)
}

// OutputSink sends a Command downstream on a named output.
type OutputSink interface {
	SendOutput(output OutputID, cmd Command) error
}

// Handle is the node's session with the dataflow runtime.
type Handle interface {
	EventSource
	OutputSink
	Close() error
}

// Opener acquires a Handle, it is called once per Run.
type Opener func() (Handle, error)

// Observer receives the node's human-readable log lines,
// *log.Logger satisfies it.
type Observer interface {
	Printf(format string, v ...any)
}

type State int32

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "TERMINATED"
}

// TerminationReason records why Run returned.
type TerminationReason string

const (
	SourceClosed    TerminationReason = "source-closed"
	BudgetExhausted TerminationReason = "budget-exhausted"
	StopRequested   TerminationReason = "stop-requested"
	Failed          TerminationReason = "failed"
)

// Summary is a snapshot of the loop's counters after Run.
type Summary struct {
	Pulls   int
	Ticks   int
	Poses   int
	Ignored int
	Reason  TerminationReason
}

type NodeOptions struct {
	MaxIterations int
	StopOnStop    bool
}

// OptionsFromConfig picks the loop settings out of a Config.
func OptionsFromConfig(conf Config) NodeOptions {
	return NodeOptions{
		MaxIterations: conf.Node.MaxIterations,
		StopOnStop:    conf.Node.StopOnStop,
	}
}

/*
 * Node is a reactive dataflow participant. Run pulls at most MaxIterations
 * events from its Handle and dispatches each one before the next pull:
 * turtle_pose inputs are logged as a single line, tick inputs produce a
 * Command on the direction output, everything else is dropped.
 */
type Node struct {
	open     Opener
	rng      RandomSource
	observer Observer
	opts     NodeOptions
	state    atomic.Int32
}

func NewNode(open Opener, rng RandomSource, observer Observer, opts NodeOptions) *Node {
	n := &Node{
		open:     open,
		rng:      rng,
		observer: observer,
		opts:     opts,
	}
	n.state.Store(int32(Terminated))
	return n
}

func (n *Node) State() State {
	return State(n.state.Load())
}

// Run acquires the runtime handle, drives the event loop and releases the
// handle on every exit path. A Close failure is only reported when the loop
// itself succeeded.
func (n *Node) Run() (summary Summary, err error) {
	h, err := n.open()
	if err != nil {
		summary.Reason = Failed
		return summary, WrapErr(SourceFailure, err, "failed to acquire runtime handle")
	}
	n.state.Store(int32(Running))
	defer func() {
		n.state.Store(int32(Terminated))
		if cerr := h.Close(); cerr != nil && err == nil {
			err = WrapErr(UnknownError, cerr, "failed to release runtime handle")
		}
	}()

	for summary.Pulls < n.opts.MaxIterations {
		event, err := h.Next()
		summary.Pulls++
		if err != nil {
			summary.Reason = Failed
			return summary, WrapErr(SourceFailure, err, "event source failed on pull %d", summary.Pulls)
		}
		if event == nil {
			summary.Reason = SourceClosed
			return summary, nil
		}
		stop, err := n.dispatch(h, event, &summary)
		if err != nil {
			summary.Reason = Failed
			return summary, err
		}
		if stop {
			summary.Reason = StopRequested
			return summary, nil
		}
	}
	summary.Reason = BudgetExhausted
	return summary, nil
}

// dispatch handles a single event, returning true if the loop should stop.
func (n *Node) dispatch(out OutputSink, event *Event, summary *Summary) (bool, error) {
	switch event.Kind {
	case EventInput:
		// handled below
	case EventStop:
		if n.opts.StopOnStop {
			return true, nil
		}
		summary.Ignored++
		return false, nil
	default:
		summary.Ignored++
		return false, nil
	}

	switch ParseInputID(event.ID) {
	case InputTurtlePose:
		line, err := FormatPoseLine(event.Value)
		if err != nil {
			return false, err
		}
		n.observer.Printf("%s", line)
		summary.Poses++
	case InputTick:
		cmd := Synthesize(n.rng)
		if err := out.SendOutput(DirectionOutput, cmd); err != nil {
			return false, WrapErr(SinkFailure, err, "failed to send %s output", DirectionOutput)
		}
		summary.Ticks++
	case InputUnknown:
		summary.Ignored++
	}
	return false, nil
}

// Discard is an Observer that drops every line.
var Discard Observer = log.New(io.Discard, "", 0)
