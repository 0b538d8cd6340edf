// Package mock is an in-memory dataflow runtime for tests. It has no
// transport dependencies, so it builds without libzmq.
package mock

import (
	"fmt"

	node "github.com/dogecoinfoundation/controlnode/pkg"
)

// interface guard ensures Runtime implements node.Handle
var _ node.Handle = &Runtime{}

// SentOutput is one SendOutput call recorded by Runtime.
type SentOutput struct {
	Output node.OutputID
	Cmd    node.Command
}

// Runtime is an in-memory runtime. It replays Script, then asks Then (if set)
// for further events by pull number, and reports the graph closed when both
// run out.
type Runtime struct {
	Script  []*node.Event
	Then    func(pull int) *node.Event
	NextErr error // returned instead of an event once Script is exhausted
	SendErr error
	OpenErr error

	Pulls  int
	Sent   []SentOutput
	Opened int
	Closed int
}

// New returns a Runtime that replays events and then closes.
func New(events ...*node.Event) *Runtime {
	return &Runtime{Script: events}
}

// Repeat returns a Runtime that delivers e on every pull, forever.
func Repeat(e *node.Event) *Runtime {
	return &Runtime{Then: func(int) *node.Event { return e }}
}

// Open implements node.Opener.
func (m *Runtime) Open() (node.Handle, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Opened > m.Closed {
		return nil, fmt.Errorf("mock runtime: handle already open")
	}
	m.Opened++
	return m, nil
}

func (m *Runtime) Next() (*node.Event, error) {
	m.Pulls++
	if m.Pulls <= len(m.Script) {
		return m.Script[m.Pulls-1], nil
	}
	if m.NextErr != nil {
		return nil, m.NextErr
	}
	if m.Then != nil {
		return m.Then(m.Pulls), nil
	}
	return nil, nil
}

func (m *Runtime) SendOutput(output node.OutputID, cmd node.Command) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SentOutput{output, cmd})
	return nil
}

func (m *Runtime) Close() error {
	m.Closed++
	return nil
}
