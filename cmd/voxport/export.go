package main

import (
	"fmt"

	"github.com/aretw0/voxport/internal/cli"
	"github.com/aretw0/voxport/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export x1 y1 z1 x2 y2 z2 max_block_length [from] [to]",
	Short: "Export a box as a grid of schematics",
	Long: `Partitions the box between the two corners into cells no longer than
max_block_length, saves the manifest and exports the cells from..to
(1-based, inclusive; to defaults to the last cell).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := cli.ParseExportArgs(args)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.ExportUsage)
			return err
		}
		return withRuntime(cmd, func(ctx *cli.SignalContext, rt *cli.Runtime) error {
			return cli.RunExport(ctx, cli.RunOptions{Runtime: rt, Out: tui.NewProgressWriter(cmd.OutOrStdout())}, parsed)
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
