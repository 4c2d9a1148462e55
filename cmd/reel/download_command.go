package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/artifacts"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var destFlag string

	cmd := &cobra.Command{
		Use:   "download <uri>",
		Short: "Download one artifact from the generation service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := artifacts.New(cfg.Server.BaseURL, cfg.RequestTimeout())
			if err != nil {
				return err
			}
			dest := destFlag
			if dest == "" {
				dest = cfg.Paths.DownloadDir
			}
			local, err := client.Fetch(cmd.Context(), args[0], dest)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", local)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destFlag, "dest", "d", "", "Destination directory (defaults to the configured download dir)")
	return cmd
}
