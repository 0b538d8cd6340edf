package conductor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	startupTimeout  time.Duration = time.Duration(5 * time.Second)
	shutdownTimeout time.Duration = time.Duration(5 * time.Second)
)

type Service interface {
	Run(chan bool, chan bool, chan context.Context) error
}

type serviceState struct {
	name     string
	service  Service
	ready    chan bool
	stopped  chan bool
	shutdown chan context.Context
}

type Conductor struct {
	started      bool          // Have we been started yet?
	noisy        bool          // Should we log?
	startTimeout time.Duration // How long should we wait for each service to start before we die?
	stopTimeout  time.Duration // How long should we wait for each service to stop before we kill it?
	shutdown     chan bool     // channel to block on, indicates everything has stopped, returned from Start()
	stopOnce     sync.Once
	services     []*serviceState
}

/* Create a new conductor instance, accepts Option funcs for changing
default behaviours */
func NewConductor(opts ...func(*Conductor)) *Conductor {
	c := Conductor{
		started:      false,
		noisy:        false,
		startTimeout: startupTimeout,
		stopTimeout:  shutdownTimeout,
		shutdown:     make(chan bool),
		services:     []*serviceState{},
	}

	for _, optFn := range opts {
		optFn(&c)
	}
	return &c
}

/* Add a Service with a name to be started in order when Start is called */
func (c *Conductor) Service(name string, service Service) {
	if c.started {
		panic("Cannot call Conductor.Service after Conductor.Start")
	}
	c.services = append(c.services,
		&serviceState{name, service, make(chan bool, 1), make(chan bool, 1), make(chan context.Context, 1)})
}

// StopWhen shuts the conductor down once done is closed, used by
// services that finish on their own.
func (c *Conductor) StopWhen(done <-chan struct{}) {
	go func() {
		select {
		case <-done:
			c.logf("Service finished, shutting down\n")
			c.Stop()
		case <-c.shutdown:
		}
	}()
}

/* Start the conductor, each service is started in turn */
func (c *Conductor) Start() chan bool {
	c.started = true

	// start each service one at a time, this gives us service dependency order.
	for _, srv := range c.services {
		c.logf("🔧 Starting '%s':\n", srv.name)
		err := srv.service.Run(srv.ready, srv.stopped, srv.shutdown)
		if err != nil {
			// Service has failed to start with an error, shutdown everything
			c.logf("⚠️  '%s' exited with: %s\n", srv.name, err)
			go c.Stop()
			break
		}
		select {
		case <-time.After(c.startTimeout):
			// Service has timed out, shutdown everything
			c.logf("⚠️  timed-out during startup %s\n", srv.name)
			go c.Stop()
		case <-srv.ready:
			// Service started up ok!
			c.logf(".. ok\n")
			continue
		}
		break
	}
	return c.shutdown
}

// Stop the conductor, begin shutting down services. Safe to call more
// than once, only the first call does anything.
func (c *Conductor) Stop() {
	c.stopOnce.Do(c.stop)
}

func (c *Conductor) stop() {
	// signal all services they should shutdown within timeout seconds
	ctx, cancel := context.WithTimeout(context.Background(), c.stopTimeout)
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(len(c.services))

	// create a done channel that gets closed when all services are shutdown
	done := make(chan bool)
	go func() {
		wg.Wait()
		close(done)
	}()

	// decrement our waitgroup when each service says it has stopped
	for _, state := range c.services {
		c.logf("Requesting shutdown: %s\n", state.name)
		state.shutdown <- ctx
		go func(s *serviceState) {
			<-s.stopped
			c.logf("Shutdown complete: %s\n", s.name)
			wg.Done()
		}(state)
	}

	// Wait for either all services to close, or the timeout to occur then signal shutdown.
	select {
	case <-done:
		c.logf("👋 All services stopped, goodbye!\n")
	case <-time.After(c.stopTimeout + time.Second):
		c.logf("Timeout exeeded waiting for services to stop, shutting down\n")
	}
	close(c.shutdown)
}

func (c *Conductor) logf(s string, v ...interface{}) {
	if c.noisy {
		fmt.Printf(s, v...)
	}
}
