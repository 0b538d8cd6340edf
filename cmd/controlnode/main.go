package main

import (
	"encoding/json"
	"fmt"
	"os"

	node "github.com/dogecoinfoundation/controlnode/pkg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	// Load config
	config, err := LoadConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// define root command
	rootCmd := &cobra.Command{
		Use:   "controlnode",
		Short: "Turtle control node for a dataflow graph",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
			os.Exit(0)
		},
	}

	// Flags override the config file, so their defaults come from it
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.Node.Name, "name", config.Node.Name, "Node name, prefixes output topics")
	flags.IntVar(&config.Node.MaxIterations, "max-iterations", config.Node.MaxIterations, "Maximum events to pull before exiting")
	flags.BoolVar(&config.Node.StopOnStop, "stop-on-stop", config.Node.StopOnStop, "Exit when the runtime sends STOP")
	flags.Int64Var(&config.Node.Seed, "seed", config.Node.Seed, "Random seed, 0 for time based")
	flags.StringVar(&config.Runtime.InputAddr, "input-addr", config.Runtime.InputAddr, "ZMQ address to receive events from")
	flags.StringVar(&config.Runtime.OutputAddr, "output-addr", config.Runtime.OutputAddr, "ZMQ address to publish outputs on")
	flags.IntVar(&config.Runtime.PollMillis, "poll-millis", config.Runtime.PollMillis, "ZMQ receive timeout in milliseconds")
	flags.StringVar(&config.Log.Path, "log-file", config.Log.Path, "Also write pose lines to this rotating file")
	flags.BoolVar(&config.Log.Quiet, "quiet", config.Log.Quiet, "Do not print pose lines to stdout")
	// Bind flags so showconf can report which settings were overridden
	if err := viper.BindPFlags(flags); err != nil {
		fmt.Println("failed to bind flags:", err)
		os.Exit(1)
	}

	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the control node until the graph closes or the budget is spent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			return Server(config)
		},
	}

	configCmd := &cobra.Command{
		Use:   "showconf",
		Short: "Print the config state and exit",
		Run: func(cmd *cobra.Command, args []string) {
			if f := viper.ConfigFileUsed(); f != "" {
				fmt.Println("config file:", f)
			}
			for _, o := range flagOverrides(flags) {
				fmt.Println("flag override:", o)
			}
			o, _ := json.MarshalIndent(config, ">", " ")
			fmt.Println(string(o))
			os.Exit(0)
		},
	}

	var tapCount int
	tapCmd := &cobra.Command{
		Use:   "tap [address]",
		Short: "Print direction commands published by a running node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := "tcp://localhost:5561"
			if len(args) == 1 {
				addr = args[0]
			}
			return Tap(config, addr, tapCount)
		},
	}
	tapCmd.Flags().IntVar(&tapCount, "count", 0, "Exit after this many commands, 0 for no limit")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tapCmd)

	// Execute the Cobra command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// flagOverrides lists the bound flags that were given on the command line.
func flagOverrides(flags *pflag.FlagSet) []string {
	var set []string
	flags.VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) {
			set = append(set, fmt.Sprintf("--%s=%s", f.Name, f.Value))
		}
	})
	return set
}

// LoadConfig finds a config file with viper (CONTROLNODE_ENV names it,
// default "config") and loads it with configor. No file is fine, the
// defaults apply.
func LoadConfig() (node.Config, error) {
	configFileName, set := os.LookupEnv("CONTROLNODE_ENV")
	if set {
		viper.SetConfigName(configFileName)
	} else {
		viper.SetConfigName("config")
	}

	// Set config file name and search paths
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/controlnode/")
	viper.AddConfigPath("$HOME/.controlnode")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return node.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		return node.LoadConfig()
	}
	return node.LoadConfig(viper.ConfigFileUsed())
}
