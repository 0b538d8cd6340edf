package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/dogecoinfoundation/controlnode/pkg/dataflow"
)

// Tap is a convenience tool that subscribes to a running node's
// direction output and prints each command, until count commands
// have been seen or SIGINT/SIGTERM.
func Tap(conf node.Config, addr string, count int) error {
	interrupt := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		close(interrupt)
	}()

	topic := dataflow.OutputTopic(conf.Node.Name, node.DirectionOutput)
	fmt.Println("Tapping", topic, "on", addr)
	seen := 0
	return dataflow.Tap(addr, topic, conf.PollInterval(), interrupt, func(cmd node.Command) bool {
		seen++
		fmt.Printf("%s #%d: linear=%.3f angular=%.3f %v\n", topic, seen, cmd[node.LinearX], cmd[node.AngularZ], cmd.Values())
		return count == 0 || seen < count
	})
}
