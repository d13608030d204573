package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/voxport"
	"github.com/aretw0/voxport/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voxport",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Fprintf(cmd.OutOrStdout(), "voxport version %s\n", strings.TrimSpace(voxport.Version))
			return
		}
		tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(voxport.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version line")
}
