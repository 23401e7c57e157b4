package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"visiostar-nodes/backend/internal/composer"
	"visiostar-nodes/backend/internal/constants"
)

func newParseCmd(a *app) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Recover the two prompts from a model answer read on stdin",
		Long: `Parse runs only the normalizer: no request is sent. Useful for checking
how a saved model answer would be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case constants.FormatModeAutoJSONFirst, constants.FormatModeLabelsOnly:
			default:
				return fmt.Errorf("unknown mode %q", mode)
			}

			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.outputFormat, composer.Normalize(string(raw), mode))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", constants.FormatModeAutoJSONFirst, "auto_json_first or labels_only")
	return cmd
}
