package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/raybrush/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Replay a script against a scene",
	Long: `Replays every step of a script file on a fresh stage and prints a summary.
The scene comes from --scene, then the script's scene field, then the built-in studio.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := app.ServeMetrics(ctx); err != nil {
			return err
		}

		_, err = app.RunReplay(ctx, args[0], runOptions(cmd))
		return cli.HandleExecutionError(err)
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Tick a stage in real time, reading steps from stdin",
	Long: `Runs a stage at the configured frame rate. Each stdin line is one JSON step.
Interrupt or end of input prints the summary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := app.ServeMetrics(ctx); err != nil {
			return err
		}

		opts := runOptions(cmd)
		opts.In = cmd.InOrStdin()
		_, err = app.RunLive(ctx, opts)
		return cli.HandleExecutionError(err)
	},
}

func runOptions(cmd *cobra.Command) cli.RunOptions {
	sceneRef, _ := cmd.Flags().GetString("scene")
	jsonMode, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return cli.RunOptions{
		Scene:   sceneRef,
		JSON:    jsonMode,
		Verbose: verbose,
		Quiet:   quiet,
		Out:     cmd.OutOrStdout(),
	}
}

func init() {
	for _, c := range []*cobra.Command{runCmd, liveCmd} {
		c.Flags().String("scene", "", "Scene file or catalog name")
		c.Flags().Bool("json", false, "Emit NDJSON frames and summary")
		c.Flags().BoolP("verbose", "v", false, "Print every frame")
		c.Flags().BoolP("quiet", "q", false, "Skip the banner")
		rootCmd.AddCommand(c)
	}
}
