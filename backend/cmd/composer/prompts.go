package main

import (
	"github.com/spf13/cobra"

	"visiostar-nodes/backend/internal/constants"
	"visiostar-nodes/backend/internal/promptlist"
)

func newPromptsCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "prompts [prompt...]",
		Short: "Collect up to ten prompts into a list, dropping blank ones",
		Args:  cobra.MaximumNArgs(constants.MaxPromptSlots),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), a.outputFormat, promptlist.Process(count, args))
		},
	}

	cmd.Flags().IntVar(&count, "count", constants.DefaultListCount, "number of leading slots to collect (1-10)")
	return cmd
}
