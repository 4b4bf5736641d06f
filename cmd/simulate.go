package cmd

import (
	"context"
	"fmt"

	"github.com/harlequix/hamrelay/backends"
	"github.com/harlequix/hamrelay/relay"
	"github.com/harlequix/hamrelay/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <class>",
	Short: "Measure a class profile over many transmissions",
	Long: `simulate pushes the same payload through a traffic class many times and
reports how often it was lost, corrupted, corrected or undecodable.
Payloads are only forwarded to the class's backend with --forward.`,
	Args: cobra.ExactArgs(1),
	RunE: simulate,
}

var (
	trials     int
	simPayload string
	forward    bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	flags := simulateCmd.Flags()
	flags.IntVar(&trials, "trials", 1000, "number of transmissions")
	flags.StringVar(&simPayload, "payload", `{"seq":1,"data":"hamrelay"}`, "payload in the configured format")
	flags.BoolVar(&forward, "forward", false, "deliver decoded payloads to the class backend")
	flags.Int("workers", 4, "concurrent transmissions")
	viper.BindPFlag("Workers", flags.Lookup("workers"))
}

func simulate(cmd *cobra.Command, args []string) error {
	r, config, err := newRelay()
	if err != nil {
		return err
	}
	class := args[0]
	c, ok := r.Class(class)
	if !ok {
		return fmt.Errorf("%w: %q", relay.ErrUnknownClass, class)
	}
	if !forward {
		if err := r.SetConsumer(class, backends.NewLogBackend()); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	manager := stats.NewStatsManager(ctx)
	r.SetStats(manager)

	jobs := make(chan *relay.Job)
	results := make(chan *relay.Result, config.Workers)
	r.RunWorkers(ctx, config.Workers, jobs, results)
	go func() {
		defer close(jobs)
		for it := 0; it < trials; it++ {
			select {
			case jobs <- &relay.Job{Class: class, Payload: []byte(simPayload)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	for result := range results {
		if result.Outcome == relay.DecodeFailed {
			logger.WithError(result.Err).Debug("Decode failed")
		}
	}

	summary := manager.Summary()
	profile := c.Simulator.Profile()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "class:            %s (bit error %.3f, loss %.3f)\n", class, profile.BitErrorProbability, profile.LossProbability)
	fmt.Fprintf(out, "transmissions:    %d\n", summary.Transmissions)
	for _, outcome := range []relay.Outcome{relay.Delivered, relay.Dropped, relay.DecodeFailed, relay.DeliveryFailed} {
		fmt.Fprintf(out, "%-17s %d (%.3f)\n", outcome.String()+":", summary.Outcomes[outcome.String()], summary.Rate(outcome.String()))
	}
	fmt.Fprintf(out, "corrupted:        %d (%.3f)\n", summary.Corrupted, summary.CorruptionRate())
	fmt.Fprintf(out, "corrected blocks: %d\n", summary.CorrectedBlocks)
	fmt.Fprintf(out, "avg latency:      %s\n", summary.AvgLatency)
	return nil
}
