package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ifyoulike/internal/extractcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the completion cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached completion counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Cache.Enabled {
				fmt.Fprintln(out, "Completion cache is disabled (set cache.enabled = true)")
			}
			store, err := extractcache.Open(cmd.Context(), cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Len(cmd.Context(), model)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Path:    %s\n", store.Path())
			if model != "" {
				fmt.Fprintf(out, "Model:   %s\n", model)
			}
			fmt.Fprintf(out, "Entries: %d\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Only count entries for this model")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := extractcache.Open(cmd.Context(), cfg.Cache.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Purge(cmd.Context(), model)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached completions\n", removed)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Only delete entries for this model")
	return cmd
}
