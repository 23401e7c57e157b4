package main

import (
	"github.com/spf13/cobra"

	"visiostar-nodes/backend/internal/adapter"
	"visiostar-nodes/backend/internal/composer"
	"visiostar-nodes/backend/pkg/config"
	"visiostar-nodes/backend/pkg/logger"
)

// app holds what the subcommands need from the environment
type app struct {
	loadConfig   func() (*config.Config, error)
	newCompleter func(cfg *config.Config) composer.Completer

	outputFormat string
	verbose      bool
}

func defaultApp() *app {
	return &app{
		loadConfig: config.Load,
		newCompleter: func(cfg *config.Config) composer.Completer {
			return adapter.NewLLMAdapter(adapter.Providers{
				DeepSeek:    adapter.ProviderConfig{BaseURL: cfg.DeepSeekBaseURL, APIKey: cfg.DeepSeekAPIKey},
				SiliconFlow: adapter.ProviderConfig{BaseURL: cfg.SiliconFlowBaseURL, APIKey: cfg.SiliconFlowAPIKey},
			}, cfg.RequestTimeout)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "composer",
		Short: "Compose background and typography prompts with DeepSeek or SiliconFlow",
		Long: `Composer asks a language model for two prompts at once: a background
image prompt and a typography layout prompt for a title, and recovers them
from whatever the model returns.

Examples:
  composer compose --topic "misty harbor at dawn" --title "LOW TIDE"
  echo '{"bg": "sea", "typo": "bold"}' | composer parse
  composer prompts --count 3 "first" "" "third"`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(
		&a.outputFormat, "output", "o", outputText, "output format: text, json or yaml",
	)
	root.PersistentFlags().BoolVarP(
		&a.verbose, "verbose", "v", false, "log to stderr",
	)

	root.AddCommand(newComposeCmd(a))
	root.AddCommand(newParseCmd(a))
	root.AddCommand(newPromptsCmd(a))
	return root
}

// setupLogging enables the global logger only when asked, so stdout stays
// clean for piping.
func (a *app) setupLogging(env string) error {
	if !a.verbose {
		return nil
	}
	return logger.Init(env)
}
