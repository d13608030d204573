package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/voxport/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voxport",
	Short: "Voxport exports and imports large voxel regions cell by cell",
	Long: `Voxport splits a box of a world into cells no longer than a maximum edge,
exports every cell as a schematic and records the grid in a manifest so the
same cells can be imported back later, in any range, from any process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	world, _ := flags.GetString("world")
	metricsAddr, _ := flags.GetString("metrics-addr")
	debug, _ := flags.GetBool("debug")
	return cli.GlobalOptions{ConfigPath: configPath, World: world, MetricsAddr: metricsAddr, Debug: debug}
}

// withRuntime bootstraps the runtime, runs fn under a signal-aware context
// and releases every backend afterwards.
func withRuntime(cmd *cobra.Command, fn func(ctx *cli.SignalContext, rt *cli.Runtime) error) error {
	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	rt, err := cli.Bootstrap(ctx, globalOptions(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.Logger.Warn("closing backends", "err", err)
		}
	}()

	cli.StartMetrics(ctx, rt)
	return fn(ctx, rt)
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ./voxport.yaml when present)")
	rootCmd.PersistentFlags().String("world", "", "World name manifests and schematics are keyed by")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
