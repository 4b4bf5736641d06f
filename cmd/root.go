package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/harlequix/hamrelay/log"
	"github.com/harlequix/hamrelay/relay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var logger = log.NewLogger("Cmd")

var rootCmd = &cobra.Command{
	Use:   "hamrelay",
	Short: "Relay documents over a simulated noisy channel",
	Long: `hamrelay encodes every payload with a Hamming single-error-correcting
code, pushes the bit stream through a channel that flips and drops bits
with configurable probabilities, and decodes what arrives.

Each traffic class (segment, receipt, ...) has its own channel profile
and its own downstream target.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.SetLevel(viper.GetString("LogLevel")); err != nil {
			return err
		}
		if logfile := viper.GetString("Logfile"); logfile != "" {
			log.AddTracer(logfile)
		}
		return nil
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "warn", "trace, debug, info, warn or error")
	flags.String("logfile", "", "write trace and warn entries to <logfile>.trace and <logfile>.warn")
	flags.Int64("seed", 0, "seed for the channel randomness, 0 picks one from the clock")
	flags.Int("block-size", 4, "data bits per Hamming block")
	flags.String("format", "json", "payload format: json, msgpack, cbor, text or raw")
	viper.BindPFlag("LogLevel", flags.Lookup("log-level"))
	viper.BindPFlag("Logfile", flags.Lookup("logfile"))
	viper.BindPFlag("Seed", flags.Lookup("seed"))
	viper.BindPFlag("BlockSize", flags.Lookup("block-size"))
	viper.BindPFlag("PayloadFormat", flags.Lookup("format"))
}

func initConfig() {
	if err := relay.SetConfig(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRelay builds a relay from the merged flags, file and environment.
func newRelay() (*relay.Relay, *relay.Config, error) {
	config, err := relay.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	r, err := relay.NewRelay(config, nil)
	if err != nil {
		return nil, nil, err
	}
	return r, config, nil
}
