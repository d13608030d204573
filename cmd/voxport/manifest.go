package main

import (
	"github.com/aretw0/voxport/internal/cli"
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and remove saved manifests",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [world]",
	Short: "Print the manifest of a world (default: the configured world)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx *cli.SignalContext, rt *cli.Runtime) error {
			return cli.ShowManifest(ctx, rt, cmd.OutOrStdout(), worldArg(rt, args))
		})
	},
}

var manifestListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the worlds that have a manifest",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx *cli.SignalContext, rt *cli.Runtime) error {
			return cli.ListManifests(ctx, rt, cmd.OutOrStdout())
		})
	},
}

var manifestRemoveCmd = &cobra.Command{
	Use:     "rm [world]",
	Aliases: []string{"remove"},
	Short:   "Delete the manifest of a world (default: the configured world)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx *cli.SignalContext, rt *cli.Runtime) error {
			return cli.RemoveManifest(ctx, rt, cmd.OutOrStdout(), worldArg(rt, args))
		})
	},
}

func worldArg(rt *cli.Runtime, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return rt.Config.World.Name
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.AddCommand(manifestShowCmd, manifestListCmd, manifestRemoveCmd)
}
