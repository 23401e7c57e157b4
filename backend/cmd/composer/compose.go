package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visiostar-nodes/backend/internal/composer"
)

type composeFlags struct {
	instruction     string
	instructionFile string
	topic           string
	title           string
	provider        string
	model           string
	apiKey          string
	mode            string
	lang            string
	temperature     float64
	maxTokens       int
	topP            float64
	topK            int
	freqPenalty     float64
	seed            int64
	diversify       bool
	noSystemRole    bool
	noStrictJSON    bool
}

func newComposeCmd(a *app) *cobra.Command {
	d := composer.DefaultRequest()
	f := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Ask the model for a background prompt and a typography prompt",
		Long: `Compose sends one chat-completions request and prints the background
prompt and the typography prompt on two lines.

Provider and model default to DEFAULT_PROVIDER and DEFAULT_MODEL; the API key
defaults to DEEPSEEK_API_KEY or SILICONFLOW_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := a.setupLogging(cfg.Env); err != nil {
				return err
			}

			req := f.request(d)
			if !cmd.Flags().Changed("provider") {
				req.Provider = cfg.DefaultProvider
			}
			if !cmd.Flags().Changed("model") {
				req.Model = cfg.DefaultModel
			}
			if cmd.Flags().Changed("seed") {
				seed := f.seed
				req.Seed = &seed
			}
			if f.instructionFile != "" {
				b, err := os.ReadFile(f.instructionFile)
				if err != nil {
					return fmt.Errorf("failed to read instruction file: %w", err)
				}
				req.Instruction = string(b)
			}

			comp := composer.NewComposer(a.newCompleter(cfg))
			result := comp.Compose(cmd.Context(), req)

			if err := writeOutput(cmd.OutOrStdout(), a.outputFormat, result); err != nil {
				return err
			}
			if result.Source == composer.SourceError {
				return fmt.Errorf("compose failed")
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.instruction, "instruction", "", "system instruction (default: built-in designer instruction)")
	fl.StringVar(&f.instructionFile, "instruction-file", "", "read the system instruction from a file")
	fl.StringVar(&f.topic, "topic", d.Topic, "theme of the image")
	fl.StringVar(&f.title, "title", d.Title, "title text to lay out")
	fl.StringVar(&f.provider, "provider", d.Provider, "deepseek or siliconflow")
	fl.StringVar(&f.model, "model", d.Model, "model name")
	fl.StringVar(&f.apiKey, "api-key", "", "API key overriding the configured one")
	fl.StringVar(&f.mode, "mode", d.FormatMode, "auto_json_first or labels_only")
	fl.StringVar(&f.lang, "lang", d.Language, "label language: en or zh")
	fl.Float64Var(&f.temperature, "temperature", d.Temperature, "sampling temperature [0, 2]")
	fl.IntVar(&f.maxTokens, "max-tokens", d.MaxTokens, "maximum tokens [1, 4096]")
	fl.Float64Var(&f.topP, "top-p", d.TopP, "nucleus sampling [0, 1]")
	fl.IntVar(&f.topK, "top-k", d.TopK, "top-k sampling [1, 100], SiliconFlow only")
	fl.Float64Var(&f.freqPenalty, "frequency-penalty", d.FrequencyPenalty, "frequency penalty [0, 2], SiliconFlow only")
	fl.Int64Var(&f.seed, "seed", 0, "seed for reproducible diversification")
	fl.BoolVar(&f.diversify, "diversify", false, "add random style hints to vary repeated calls")
	fl.BoolVar(&f.noSystemRole, "no-system-role", false, "merge the instruction into the user message")
	fl.BoolVar(&f.noStrictJSON, "no-strict-json", false, "do not request a JSON response format")

	return cmd
}

func (f *composeFlags) request(d composer.Request) composer.Request {
	req := d
	req.Instruction = f.instruction
	req.Topic = f.topic
	req.Title = f.title
	req.Provider = f.provider
	req.Model = f.model
	req.APIKey = f.apiKey
	req.FormatMode = f.mode
	req.Language = f.lang
	req.Temperature = f.temperature
	req.MaxTokens = f.maxTokens
	req.TopP = f.topP
	req.TopK = f.topK
	req.FrequencyPenalty = f.freqPenalty
	req.Diversify = f.diversify
	req.UseSystemRole = !f.noSystemRole
	req.StrictJSON = !f.noStrictJSON
	return req
}
