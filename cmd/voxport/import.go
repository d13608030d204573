package main

import (
	"fmt"

	"github.com/aretw0/voxport/internal/cli"
	"github.com/aretw0/voxport/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [from] [to]",
	Short: "Import the schematics of the last export",
	Long: `Replays the manifest saved by the last export of the world and pastes
the cells from..to back at their original positions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, err := cli.ParseImportArgs(args)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.ImportUsage)
			return err
		}
		return withRuntime(cmd, func(ctx *cli.SignalContext, rt *cli.Runtime) error {
			return cli.RunImport(ctx, cli.RunOptions{Runtime: rt, Out: tui.NewProgressWriter(cmd.OutOrStdout())}, rng)
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
