package services

import (
	"math/rand"
	"time"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/conductor"
)

// StartNode builds the control node and registers it with the conductor,
// the conductor is stopped when the node finishes.
func StartNode(cond *conductor.Conductor, conf node.Config, open func(interrupt <-chan struct{}) node.Opener, observer node.Observer) *NodeService {
	interrupt := make(chan struct{})
	n := node.NewNode(open(interrupt), NewRandomSource(conf.Node.Seed), observer, node.OptionsFromConfig(conf))
	svc := NewNodeService(n, interrupt)
	cond.Service("ControlNode", svc)
	cond.StopWhen(svc.Done())
	return svc
}

// NewRandomSource seeds the command synthesizer, seed 0 means time based.
func NewRandomSource(seed int64) node.RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
