package node

import (
	"time"

	"github.com/jinzhu/configor"
)

// ENVPrefix is used by configor for environment overrides,
// ie: CONTROLNODE_NODE_MAXITERATIONS=20
const ENVPrefix = "CONTROLNODE"

type Config struct {
	Node struct {
		// name used to address this node's outputs
		Name string `default:"turtle_control"`
		// hard upper bound on loop passes
		MaxIterations int `default:"500"`
		// terminate cleanly when the runtime sends STOP
		StopOnStop bool `default:"false"`
		// seed for the command synthesizer, 0 means time based
		Seed int64
	}

	// dataflow runtime transport (ZMQ)
	Runtime struct {
		InputAddr  string `default:"tcp://localhost:5560"`
		OutputAddr string `default:"tcp://*:5561"`
		PollMillis int    `default:"500"`
	}

	// observability output, stdout plus optional rotating file
	Log struct {
		Path         string
		MaxSizeMB    int `default:"10"`
		MaxBackups   int `default:"3"`
		Uncompressed bool
		Quiet        bool
	}
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Runtime.PollMillis) * time.Millisecond
}

func (c Config) Validate() error {
	if c.Node.MaxIterations <= 0 {
		return NewErr(InvalidConfig, "Node.MaxIterations must be positive, got %d", c.Node.MaxIterations)
	}
	if c.Node.Name == "" {
		return NewErr(InvalidConfig, "Node.Name is required")
	}
	if c.Runtime.PollMillis <= 0 {
		return NewErr(InvalidConfig, "Runtime.PollMillis must be positive, got %d", c.Runtime.PollMillis)
	}
	if c.Runtime.InputAddr == "" || c.Runtime.OutputAddr == "" {
		return NewErr(InvalidConfig, "Runtime.InputAddr and Runtime.OutputAddr are required")
	}
	return nil
}

// LoadConfig reads the given TOML files (if any) over the defaults and
// applies CONTROLNODE_* environment overrides.
func LoadConfig(confPaths ...string) (Config, error) {
	c := Config{}
	loader := configor.New(&configor.Config{ENVPrefix: ENVPrefix})
	if err := loader.Load(&c, confPaths...); err != nil {
		return c, WrapErr(InvalidConfig, err, "failed to load config")
	}
	return c, nil
}

// DefaultConfig returns a Config with only the tag defaults applied.
func DefaultConfig() Config {
	c, err := LoadConfig()
	if err != nil {
		// defaults are static, a failure here is a programming error
		panic(err)
	}
	return c
}
