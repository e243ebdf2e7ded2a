package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	"udemy-coupons/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose  *bool
	dumpHttp *string
)

var tel telemetry.Telemetry

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logging.")
	dumpHttp = rootCmd.PersistentFlags().String("dump-http", "", "A directory to dump every http exchange to.")
}

var rootCmd = &cobra.Command{
	Use:          "udemy-coupons",
	Short:        "udemy-coupons collects free Udemy course coupons from a coupon listing site.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		t, err := telemetry.SetupFromEnv(cmd.Context(), "udemy-coupons")
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("telemetry.json5 not found, telemetry is disabled")
			return
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
			return
		}
		tel = t
		telemetry.InstrumentPerfStats(cmd.Context(), 15*time.Second)
	},
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
