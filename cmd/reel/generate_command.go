package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reel/internal/artifacts"
	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/notifications"
	"reel/internal/scenename"
	"reel/internal/session"
	"reel/internal/transport"
	"reel/internal/upload"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		urlFlag      string
		pdfFlag      string
		qualityFlag  string
		voiceFlag    string
		themeFlag    string
		modelFlag    string
		downloadFlag bool
		jsonFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Run one animation generation session end to end",
		Long: `Generate opens a session against the animation service, streams progress
until the server reports a terminal result, and records the attempt in the
session history. Provide a topic as arguments, a source URL with --url, a
local PDF with --pdf, or any combination.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req := session.Request{
				Topic:     strings.TrimSpace(strings.Join(args, " ")),
				SourceURL: strings.TrimSpace(urlFlag),
				PDFPath:   strings.TrimSpace(pdfFlag),
				Quality:   firstNonEmpty(qualityFlag, cfg.Generation.Quality),
				Voice:     firstNonEmpty(voiceFlag, cfg.Generation.Voice),
				Theme:     firstNonEmpty(themeFlag, cfg.Generation.Theme),
				Model:     firstNonEmpty(modelFlag, cfg.Generation.Model),
			}
			return runGenerate(cmd, cfg, req, downloadFlag, jsonFlag)
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Source URL to generate from")
	cmd.Flags().StringVar(&pdfFlag, "pdf", "", "Local PDF file to upload and generate from")
	cmd.Flags().StringVar(&qualityFlag, "quality", "", "Render quality (see `reel options`)")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Narration voice")
	cmd.Flags().StringVar(&themeFlag, "theme", "", "Visual theme")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Generation model")
	cmd.Flags().BoolVar(&downloadFlag, "download", false, "Download result artifacts after completion")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the final session result as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, req session.Request, download, jsonOut bool) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	// One generation at a time per data dir. The server serializes sessions
	// per connection anyway; the lock keeps history writes honest.
	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "reel.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return errors.New("another generation session is already running")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open session history: %w", err)
	}
	defer store.Close()

	uploader, err := upload.New(cfg.Server.BaseURL, cfg.RequestTimeout())
	if err != nil {
		return fmt.Errorf("configure upload client: %w", err)
	}

	wsURL, err := cfg.WebSocketURL()
	if err != nil {
		return err
	}

	printer := newProgressPrinter(cmd.OutOrStdout())
	done := make(chan session.View, 1)

	ctrl, err := session.New(session.Options{
		Dial: func(ctx context.Context, onMessage func([]byte), onClosed func(error)) (session.Channel, error) {
			ch, err := transport.Dial(ctx, wsURL, transport.Options{})
			if err != nil {
				return nil, err
			}
			ch.Run(onMessage, onClosed)
			return ch, nil
		},
		Uploader: uploader,
		Allowed: session.Choices{
			Qualities: cfg.Generation.Qualities,
			Voices:    cfg.Generation.Voices,
			Themes:    cfg.Generation.Themes,
			Models:    cfg.Generation.Models,
		},
		IdleTimeout: cfg.IdleTimeout(),
		Logger:      logger,
		Observer: session.Observer{
			StateChanged: func(view session.View) {
				if !jsonOut {
					printer.Update(view)
				}
				if view.Status.Terminal() {
					select {
					case done <- view:
					default:
					}
				}
			},
			ProtocolError: func(perr error) {
				logger.Warn("skipped malformed server message", "error", perr)
			},
		},
	})
	if err != nil {
		return err
	}

	runCtx := cmd.Context()
	if err := ctrl.Start(runCtx, req); err != nil {
		return err
	}

	rec, err := store.StartSession(runCtx, ctrl.Snapshot().Request)
	if err != nil {
		logger.Warn("record session start", "error", err)
	}

	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopSignals)

	var final session.View
	for waiting := true; waiting; {
		select {
		case <-stopSignals:
			ctrl.Cancel()
		case final = <-done:
			waiting = false
		}
	}

	finalState := ctrl.Snapshot()
	if rec != nil {
		if err := store.Finish(runCtx, rec.ID, finalState); err != nil {
			logger.Warn("record session result", "error", err)
		}
	}

	notifySessionOutcome(runCtx, cfg, logger, finalState)

	if jsonOut {
		if err := writeJSON(cmd, final); err != nil {
			return err
		}
	} else {
		printSessionResult(cmd.OutOrStdout(), final)
	}

	if download && final.Status == session.StatusCompleted {
		if err := downloadArtifacts(runCtx, cmd.OutOrStdout(), cfg, finalState); err != nil {
			return fmt.Errorf("download artifacts: %w", err)
		}
	}

	switch final.Status {
	case session.StatusCompleted, session.StatusCancelled:
		return nil
	default:
		if final.Failure != "" {
			return errors.New(final.Failure)
		}
		return errors.New("generation failed")
	}
}

func printSessionResult(out io.Writer, view session.View) {
	if view.Status != session.StatusCompleted {
		return
	}
	fmt.Fprintln(out)
	if view.OutputURL != "" {
		fmt.Fprintf(out, "Video: %s\n", view.OutputURL)
	}
	if view.AudioURL != "" {
		fmt.Fprintf(out, "Narration audio: %s\n", view.AudioURL)
	}
	if len(view.Images) > 0 {
		fmt.Fprintf(out, "Supporting images: %d\n", len(view.Images))
	}
}

func downloadArtifacts(ctx context.Context, out io.Writer, cfg *config.Config, st session.State) error {
	client, err := artifacts.New(cfg.Server.BaseURL, cfg.RequestTimeout())
	if err != nil {
		return err
	}

	destDir := filepath.Join(cfg.Paths.DownloadDir, sessionFolderName(st.Request))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create download directory %q: %w", destDir, err)
	}

	uris := make([]string, 0, 2+len(st.Images))
	if st.OutputFile != "" {
		uris = append(uris, st.OutputFile)
	}
	if st.TTSAudioURL != "" {
		uris = append(uris, st.TTSAudioURL)
	}
	for _, img := range st.Images {
		if img.Path != "" {
			uris = append(uris, img.Path)
		}
	}

	for _, uri := range uris {
		local, err := client.Fetch(ctx, uri, destDir)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", uri, err)
		}
		fmt.Fprintf(out, "Saved %s\n", local)
	}
	return nil
}

func notifySessionOutcome(ctx context.Context, cfg *config.Config, logger *slog.Logger, st session.State) {
	svc := notifications.NewService(cfg)
	title := sessionTitle(st.Request)

	var err error
	switch st.Status {
	case session.StatusCompleted:
		err = svc.NotifyGenerationCompleted(ctx, title, st.OutputFile)
	case session.StatusErrored:
		err = svc.NotifyGenerationFailed(ctx, title, st.Failure)
	case session.StatusCancelled:
		err = svc.NotifyGenerationCancelled(ctx, title)
	}
	if err != nil {
		logger.Warn("send notification", "error", err)
	}
}

func sessionTitle(req session.Request) string {
	switch {
	case req.Topic != "":
		return req.Topic
	case req.SourceURL != "":
		return req.SourceURL
	case req.PDFPath != "":
		return filepath.Base(req.PDFPath)
	}
	return "Animation"
}

func sessionFolderName(req session.Request) string {
	switch {
	case req.Topic != "":
		return scenename.Derive(req.Topic)
	case req.SourceURL != "":
		return scenename.Derive(req.SourceURL)
	case req.PDFPath != "":
		return scenename.FromPDF(req.PDFPath)
	}
	return scenename.Derive("")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
