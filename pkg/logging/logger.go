package logging

import (
	"io"
	"log"
	"os"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewObserver builds the line logger the node writes pose reports to:
// stdout unless Log.Quiet, plus a rotating file when Log.Path is set.
// The returned io.Closer releases the file.
func NewObserver(conf node.Config) (*log.Logger, io.Closer) {
	var writers []io.Writer
	if !conf.Log.Quiet {
		writers = append(writers, os.Stdout)
	}
	var closer io.Closer = nopCloser{}
	if conf.Log.Path != "" {
		file := &lumberjack.Logger{
			Filename:   conf.Log.Path,
			MaxSize:    conf.Log.MaxSizeMB,
			MaxBackups: conf.Log.MaxBackups,
			Compress:   !conf.Log.Uncompressed,
		}
		writers = append(writers, file)
		closer = file
	}
	return log.New(io.MultiWriter(writers...), "", 0), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
