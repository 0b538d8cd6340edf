package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	node "github.com/dogecoinfoundation/controlnode/pkg"
)

// NodeRunner is the part of node.Node the service drives.
type NodeRunner interface {
	Run() (node.Summary, error)
}

/*
 * NodeService runs a control node once under the conductor.
 * A shutdown request closes Interrupt, which the runtime binding reports to
 * the node as a closed graph; the node then finishes its loop normally.
 * Done is closed when the node has returned, whatever the reason.
 */
type NodeService struct {
	node      NodeRunner
	interrupt chan struct{}
	done      chan struct{}
	stopOnce  sync.Once

	mu      sync.Mutex
	summary node.Summary
	err     error
}

func NewNodeService(n NodeRunner, interrupt chan struct{}) *NodeService {
	return &NodeService{
		node:      n,
		interrupt: interrupt,
		done:      make(chan struct{}),
	}
}

// Implements conductor.Service
func (s *NodeService) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		started <- true
		go s.runNode()

		select {
		case <-stop:
			s.requestStop()
			<-s.done
		case <-s.done:
			// finished on its own, wait for the conductor to stop us.
			<-stop
		}
		close(stopped)
	}()
	return nil
}

func (s *NodeService) runNode() {
	defer close(s.done)
	defer func() {
		// a panic in the loop is a fatal failure like any other
		if r := recover(); r != nil {
			s.setResult(node.Summary{Reason: node.Failed}, node.NewErr(node.UnknownError, "NodeService: panic: %v", r))
		}
	}()
	summary, err := s.node.Run()
	s.setResult(summary, err)
	if err != nil {
		log.Printf("NodeService: node failed after %d pulls: %v\n", summary.Pulls, err)
		return
	}
	log.Printf("NodeService: node finished (%s) after %d pulls, %d ticks, %d poses\n",
		summary.Reason, summary.Pulls, summary.Ticks, summary.Poses)
}

func (s *NodeService) requestStop() {
	s.stopOnce.Do(func() {
		close(s.interrupt)
	})
}

func (s *NodeService) setResult(summary node.Summary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary, s.err = summary, err
}

// Done is closed once the node has returned.
func (s *NodeService) Done() <-chan struct{} {
	return s.done
}

// Result reports the node's summary and error, valid after Done.
func (s *NodeService) Result() (node.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, s.err
}

func (s *NodeService) String() string {
	summary, err := s.Result()
	if err != nil {
		return fmt.Sprintf("NodeService{%s: %v}", summary.Reason, err)
	}
	return fmt.Sprintf("NodeService{%s}", summary.Reason)
}
