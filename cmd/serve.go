package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harlequix/hamrelay/relay"
	"github.com/harlequix/hamrelay/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept JSON documents over HTTP and relay them",
	Long: `serve listens for POST requests on the route of every configured
traffic class, for example /CodeSegment and /CodeReceipt, and answers with
the document the far side reconstructed. Lost or undecodable messages are
answered with null.`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":3050", "address to listen on")
	viper.BindPFlag("Listen", serveCmd.Flags().Lookup("listen"))
}

func serve(cmd *cobra.Command, args []string) error {
	r, config, err := newRelay()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	manager := stats.NewStatsManager(statsCtx)
	r.SetStats(manager)

	server := &http.Server{
		Addr:              config.Listen,
		Handler:           relay.NewServer(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	logger.WithField("listen", config.Listen).WithField("classes", r.ClassNames()).Info("Relay listening")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	summary := manager.Summary()
	logger.WithField("transmissions", summary.Transmissions).WithField("outcomes", summary.Outcomes).WithField("latency", summary.AvgLatency).Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
