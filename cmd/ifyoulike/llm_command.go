package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ifyoulike/internal/services"
	"ifyoulike/internal/services/llm"
)

func newLLMCommand(ctx *commandContext) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Language model utilities",
	}
	llmCmd.AddCommand(newLLMCheckCommand(ctx))
	return llmCmd
}

func newLLMCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured model answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			llmCfg := cfg.GetLLM()
			provider, err := llm.New(cmd.Context(), llmCfg)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "setup", "llm", "build client", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Provider: %s\n", llmCfg.Provider)
			fmt.Fprintf(out, "Model:    %s\n", provider.Model())
			start := time.Now()
			if err := provider.HealthCheck(cmd.Context()); err != nil {
				fmt.Fprintln(out, "Status:   unavailable")
				return services.Wrap(services.ErrExternal, "llm", "health", "health check failed", err)
			}
			fmt.Fprintf(out, "Status:   ok (%s)\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
