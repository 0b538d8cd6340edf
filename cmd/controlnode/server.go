package main

import (
	"fmt"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/conductor"
	"github.com/dogecoinfoundation/controlnode/pkg/dataflow"
	"github.com/dogecoinfoundation/controlnode/pkg/logging"
	"github.com/dogecoinfoundation/controlnode/pkg/services"
)

func Server(conf node.Config) error {

	c := conductor.NewConductor(
		conductor.HookSignals(),
		conductor.Noisy(),
	)

	// Pose lines go to stdout and the optional log file
	observer, logFile := logging.NewObserver(conf)
	defer logFile.Close()

	// The ZMQ runtime is opened by the node itself, once per run
	zmqRuntime := func(interrupt <-chan struct{}) node.Opener {
		return dataflow.NewZMQRuntime(conf, interrupt).Open
	}
	svc := services.StartNode(c, conf, zmqRuntime, observer)

	<-c.Start()

	summary, err := svc.Result()
	if err != nil {
		return fmt.Errorf("control node failed (%s): %w", summary.Reason, err)
	}
	return nil
}
