package main

import (
	"fmt"

	"github.com/aretw0/voxport/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan x1 y1 z1 x2 y2 z2 max_block_length [from] [to]",
	Short: "Print how a box would be partitioned",
	Long: `Prints the cells export would produce for the box, in traversal order,
with each cell's offset from the first corner. A range highlights the
cells a run would select in the mermaid output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := cli.ParsePlanArgs(args)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.PlanUsage)
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return cli.RunPlan(cmd.OutOrStdout(), parsed, format)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("format", "f", cli.PlanFormatText, "Output format: text, markdown or mermaid")
}
