package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/raybrush"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of raybrush",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "raybrush version %s\n", strings.TrimSpace(raybrush.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
