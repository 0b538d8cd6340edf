package dataflow

import (
	"fmt"
	"log"
	"syscall"
	"time"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/arrowipc"
	"github.com/pebbe/zmq4"
)

// ZMQRuntime binds a Node to a ZeroMQ transport: inputs arrive on a SUB
// socket, outputs leave on a PUB socket as Arrow IPC payloads.
// CAUTION: the protocol is not authenticated!
type ZMQRuntime struct {
	nodeName   string
	inputAddr  string
	outputAddr string
	poll       time.Duration
	interrupt  <-chan struct{}
}

// NewZMQRuntime creates a runtime; closing interrupt makes the handle
// report the graph as closed at the next poll.
func NewZMQRuntime(conf node.Config, interrupt <-chan struct{}) *ZMQRuntime {
	return &ZMQRuntime{
		nodeName:   conf.Node.Name,
		inputAddr:  conf.Runtime.InputAddr,
		outputAddr: conf.Runtime.OutputAddr,
		poll:       conf.PollInterval(),
		interrupt:  interrupt,
	}
}

// Open implements node.Opener.
func (z *ZMQRuntime) Open() (node.Handle, error) {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, err
	}
	if err = sub.SetRcvtimeo(z.poll); err != nil {
		sub.Close()
		return nil, err
	}
	log.Println("ZMQ: connecting to:", z.inputAddr)
	if err = sub.Connect(z.inputAddr); err != nil {
		sub.Close()
		return nil, err
	}
	if err = sub.SetSubscribe(""); err != nil {
		sub.Close()
		return nil, err
	}

	pub, err := zmq4.NewSocket(zmq4.PUB)
	if err != nil {
		sub.Close()
		return nil, err
	}
	log.Println("ZMQ: publishing on:", z.outputAddr)
	if err = pub.Bind(z.outputAddr); err != nil {
		sub.Close()
		pub.Close()
		return nil, err
	}

	return &zmqHandle{
		nodeName:  z.nodeName,
		sub:       sub,
		pub:       pub,
		interrupt: z.interrupt,
	}, nil
}

type zmqHandle struct {
	nodeName  string
	sub       *zmq4.Socket
	pub       *zmq4.Socket
	interrupt <-chan struct{}
}

// interface guard ensures zmqHandle implements node.Handle
var _ node.Handle = &zmqHandle{}

func (h *zmqHandle) Next() (*node.Event, error) {
	for {
		// Handle shutdown
		select {
		case <-h.interrupt:
			log.Println("ZMQ: interrupted, closing input")
			return nil, nil
		default:
			// fall through to zmq recv
		}

		msg, err := h.sub.RecvMessageBytes(0)
		if err != nil {
			switch err := err.(type) {
			case zmq4.Errno:
				if err == zmq4.Errno(syscall.ETIMEDOUT) || err == zmq4.Errno(syscall.EAGAIN) {
					// receive timeout, poll the interrupt again
					continue
				}
				return nil, fmt.Errorf("zmq recv: %w", err)
			default:
				return nil, fmt.Errorf("zmq recv: %w", err)
			}
		}
		return DecodeFrames(msg), nil
	}
}

func (h *zmqHandle) SendOutput(output node.OutputID, cmd node.Command) error {
	payload, err := arrowipc.EncodeCommand(output, cmd)
	if err != nil {
		return err
	}
	_, err = h.pub.SendMessage(OutputTopic(h.nodeName, output), payload)
	return err
}

func (h *zmqHandle) Close() error {
	subErr := h.sub.Close()
	pubErr := h.pub.Close()
	if subErr != nil {
		return subErr
	}
	return pubErr
}

// Tap subscribes to a node output and calls fn with each decoded Command
// until fn returns false or interrupt is closed.
func Tap(addr string, topic string, poll time.Duration, interrupt <-chan struct{}, fn func(node.Command) bool) error {
	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return err
	}
	defer sub.Close()
	if err = sub.SetRcvtimeo(poll); err != nil {
		return err
	}
	if err = sub.Connect(addr); err != nil {
		return err
	}
	if err = sub.SetSubscribe(topic); err != nil {
		return err
	}
	for {
		select {
		case <-interrupt:
			return nil
		default:
		}
		msg, err := sub.RecvMessageBytes(0)
		if err != nil {
			if e, ok := err.(zmq4.Errno); ok && (e == zmq4.Errno(syscall.ETIMEDOUT) || e == zmq4.Errno(syscall.EAGAIN)) {
				continue
			}
			return fmt.Errorf("zmq recv: %w", err)
		}
		if len(msg) < 2 {
			log.Printf("Tap: short message with %d frames, skipping", len(msg))
			continue
		}
		cmd, err := arrowipc.DecodeCommand(msg[1])
		if err != nil {
			log.Printf("Tap: %v", err)
			continue
		}
		if !fn(cmd) {
			return nil
		}
	}
}
