package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rviscarra/desktop-capture/internal/api"
	"github.com/rviscarra/desktop-capture/internal/capture"
	"github.com/rviscarra/desktop-capture/internal/config"
	"github.com/rviscarra/desktop-capture/internal/encoders"
	"github.com/rviscarra/desktop-capture/internal/hotkey"
	"github.com/rviscarra/desktop-capture/internal/preview"
	"github.com/rviscarra/desktop-capture/internal/rdisplay"
	"github.com/rviscarra/desktop-capture/internal/store"
)

var (
	configPath string
	once       bool
	outputDir  string
	httpPort   string
	useHotkey  bool
	verbose    bool
)

func main() {
	app := &cli.App{
		Name:      "desktop-capture",
		Usage:     "Capture every attached display into one lossless image",
		UsageText: "desktop-capture --once --dir captures\ndesktop-capture --http.port 9000 --hotkey",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &configPath, Usage: "config file (default ./config.yaml when present)"},
			&cli.BoolFlag{Name: "once", Destination: &once, Usage: "capture a single image into the output dir and exit"},
			&cli.StringFlag{Name: "out-dir", Aliases: []string{"dir"}, Destination: &outputDir, Usage: "output directory for captures"},
			&cli.StringFlag{Name: "http.port", Destination: &httpPort, Usage: "HTTP listen port"},
			&cli.BoolFlag{Name: "hotkey", Destination: &useHotkey, Usage: "capture on " + hotkey.Shortcut},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"vv"}, Destination: &verbose, Usage: "debug logging"},
		},
		HideHelpCommand: true,
		Action:          run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("agent stopped", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if c.IsSet("out-dir") {
		cfg.OutputDir = outputDir
	}
	if c.IsSet("http.port") {
		cfg.HTTPPort = httpPort
	}
	if c.IsSet("hotkey") {
		cfg.Hotkey = useHotkey
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	display, err := rdisplay.NewDisplayProvider()
	if err != nil {
		return fmt.Errorf("init display provider: %w", err)
	}
	captureCfg, err := cfg.Capture(logger)
	if err != nil {
		return err
	}
	pipeline, err := capture.NewPipeline(display, encoders.NewEncoderService(), captureCfg)
	if err != nil {
		return err
	}
	pipeline.Subscribe(func(t capture.Transition) {
		logger.Debug("capture status", "request_id", t.RequestID.String(), "from", t.From.String(), "to", t.To.String())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, closeSink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	if once {
		img, err := pipeline.Capture(ctx)
		if err != nil {
			return err
		}
		loc, err := sink.Save(ctx, img)
		if err != nil {
			return err
		}
		logger.Info("capture saved", "location", loc, "width", img.Width, "height", img.Height)
		return nil
	}

	if cfg.Hotkey {
		startHotkey(ctx, logger, pipeline, sink)
	}
	return serve(ctx, logger, cfg, pipeline, display, sink)
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

func openSink(ctx context.Context, cfg config.Config) (store.Sink, func(), error) {
	files, err := store.NewFileSink(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseDSN == "" {
		return files, func() {}, nil
	}
	db, err := store.OpenSQLSink(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return store.Multi{files, db}, func() { db.Close() }, nil
}

func startHotkey(ctx context.Context, logger *slog.Logger, pipeline *capture.Pipeline, sink store.Sink) {
	triggers, err := hotkey.Listen(ctx)
	if errors.Is(err, hotkey.ErrUnsupported) {
		logger.Warn("hotkey disabled", "error", err)
		return
	}
	if err != nil {
		logger.Error("hotkey disabled", "error", err)
		return
	}
	logger.Info("hotkey armed", "shortcut", hotkey.Shortcut)

	go func() {
		for range triggers {
			img, err := pipeline.Capture(ctx)
			if err != nil {
				// The pipeline already logged the failure.
				continue
			}
			if loc, err := sink.Save(ctx, img); err != nil {
				logger.Error("save capture", "error", err)
			} else {
				logger.Info("capture saved", "location", loc)
			}
		}
	}()
}

func serve(ctx context.Context, logger *slog.Logger, cfg config.Config, pipeline *capture.Pipeline, display rdisplay.Service, sink store.Sink) error {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", api.MakeHandler(pipeline, display, api.Options{
		Sink:    sink,
		Preview: preview.Options{MaxWidth: cfg.PreviewWidth, MaxHeight: cfg.PreviewHeight},
		Logger:  logger,
	})))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting capture server", "port", cfg.HTTPPort)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
