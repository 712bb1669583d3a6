package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ifyoulike/internal/entity"
	"ifyoulike/internal/services"
	"ifyoulike/internal/spotifylinks"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract <text...>",
		Short: "Extract music entities from ad-hoc text",
		Long:  "Run the extractor on the given text (or stdin when the only argument is -) and print the entities it finds.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 1 && args[0] == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}
			if strings.TrimSpace(text) == "" {
				return services.Wrap(services.ErrValidation, "extract", "input", "text is empty", nil)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			extractor, closeExtractor, err := ctx.newExtractor(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeExtractor()

			var links []spotifylinks.TrackLink
			if cfg.Links.Enabled {
				text, links = spotifylinks.NewResolver(cfg.Links, spotifylinks.WithLogger(logger)).Rewrite(cmd.Context(), text)
			}

			seq, err := extractor.ExtractText(cmd.Context(), "cli", text)
			if err != nil {
				return err
			}
			entities := slices.Collect(seq)

			if jsonOutput {
				return writeJSON(cmd, struct {
					Entities []entity.Entity         `json:"entities"`
					Links    []spotifylinks.TrackLink `json:"links,omitempty"`
				}{Entities: entities, Links: links})
			}
			renderExtraction(cmd.OutOrStdout(), entities, links)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entities as JSON")
	return cmd
}

func renderExtraction(out io.Writer, entities []entity.Entity, links []spotifylinks.TrackLink) {
	if len(entities) == 0 {
		fmt.Fprintln(out, "No entities found.")
	} else {
		rows := make([][]string, 0, len(entities))
		for i, e := range entities {
			rows = append(rows, []string{strconv.Itoa(i + 1), e.Kind.String(), e.Name, orDash(e.Artist)})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "Kind", "Name", "Artist"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		))
	}
	for _, l := range links {
		fmt.Fprintf(out, "Linked track: %s (%s)\n", orDash(l.Title), l.URI())
	}
}
