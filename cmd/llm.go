package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frostline/holidayquest/internal/greeting"
	"github.com/frostline/holidayquest/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the greeting generator",
}

var llmPingCmd = &cobra.Command{
	Use:   "ping [name]",
	Short: "Generate one greeting with the configured provider",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Verbose)

		if !cfg.LLM.Discover() {
			fmt.Fprintln(cmd.OutOrStdout(), "No provider configured; greetings use the built-in texts.")
		}
		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, logger)
		if err != nil {
			return err
		}

		name := "Santa"
		if len(args) == 1 {
			name = args[0]
		}
		g := greeting.New(provider, cfg.LLM.Timeout, logger).For(cmd.Context(), greeting.Recipient{
			Name:           name,
			TotalScore:     540,
			GamesCompleted: 6,
		})

		out := cmd.OutOrStdout()
		if provider != nil {
			fmt.Fprintf(out, "provider: %s (%s)\n", cfg.LLM.Provider, provider.Model())
		}
		fmt.Fprintf(out, "source:   %s\n", g.Source)
		fmt.Fprintf(out, "greeting: %s %s\n", g.Emoji, g.Text)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmPingCmd)
}
