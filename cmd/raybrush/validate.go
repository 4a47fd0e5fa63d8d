package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/raybrush/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check scene and script files",
	Long:  `Parses each file as a script (when it has steps) or a scene and reports what is wrong.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		for _, path := range args {
			kind, err := cli.ValidateFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s\n", path, kind)
		}
		if len(errs) > 0 {
			return fmt.Errorf("validation failed:\n%w", errors.Join(errs...))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
