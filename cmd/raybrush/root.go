package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/raybrush/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "raybrush",
	Short: "Raybrush paints strokes onto scene geometry with tracked controllers",
	Long: `Raybrush resolves controller rays against scene surfaces and turns grabs
into trail strokes. Scripts can be replayed, streamed live, or driven remotely
over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default raybrush.yaml)")
	rootCmd.PersistentFlags().String("scenes", "", "Directory of scene documents")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle logs")
}

// setup builds the app from the global flags.
func setup(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	scenesDir, _ := cmd.Flags().GetString("scenes")
	debug, _ := cmd.Flags().GetBool("debug")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cli.Setup(ctx, cli.Options{
		ConfigPath: configPath,
		ScenesDir:  scenesDir,
		Debug:      debug,
	})
}
