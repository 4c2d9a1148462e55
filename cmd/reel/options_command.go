package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newOptionsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the values the service accepts for each generation setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gen := cfg.Generation
			if jsonFlag {
				return writeJSON(cmd, map[string]any{
					"qualities": gen.Qualities,
					"voices":    gen.Voices,
					"themes":    gen.Themes,
					"models":    gen.Models,
					"defaults": map[string]string{
						"quality": gen.Quality,
						"voice":   gen.Voice,
						"theme":   gen.Theme,
						"model":   gen.Model,
					},
				})
			}

			rows := [][]string{
				{"quality", strings.Join(gen.Qualities, ", "), gen.Quality},
				{"voice", strings.Join(gen.Voices, ", "), gen.Voice},
				{"theme", strings.Join(gen.Themes, ", "), gen.Theme},
				{"model", strings.Join(gen.Models, ", "), gen.Model},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Allowed", "Default"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit option sets as JSON")
	return cmd
}
