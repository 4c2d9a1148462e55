package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/history"
	"reel/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect recorded generation sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsClearCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonFlag {
				return writeJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ShortID(),
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					truncate(rec.Title(), 48),
					string(rec.Status),
					rec.OutputFile,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Created", "Input", "Status", "Output"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit records as JSON")
	return cmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no session matches %q", args[0])
			}
			if jsonFlag {
				return writeJSON(cmd, rec)
			}
			printSessionRecord(cmd, rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the record as JSON")
	return cmd
}

func printSessionRecord(cmd *cobra.Command, rec *history.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", rec.ID)
	fmt.Fprintf(out, "Created:  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:  %s\n", rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Input:    %s\n", rec.Title())
	fmt.Fprintf(out, "Quality:  %s\n", rec.Quality)
	fmt.Fprintf(out, "Voice:    %s\n", rec.Voice)
	fmt.Fprintf(out, "Theme:    %s\n", rec.Theme)
	fmt.Fprintf(out, "Model:    %s\n", rec.Model)
	fmt.Fprintf(out, "Status:   %s\n", rec.Status)
	if rec.Status == session.StatusErrored && rec.Failure != "" {
		fmt.Fprintf(out, "Failure:  %s\n", rec.Failure)
	}
	if rec.OutputFile != "" {
		fmt.Fprintf(out, "Output:   %s\n", rec.OutputFile)
	}
	if rec.TTSAudioURL != "" {
		fmt.Fprintf(out, "Audio:    %s\n", rec.TTSAudioURL)
	}
	if rec.ImageCount > 0 {
		fmt.Fprintf(out, "Images:   %d\n", rec.ImageCount)
	}
}

func newSessionsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s)\n", removed)
			return nil
		},
	}
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
