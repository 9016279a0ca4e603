package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/r3labs/diff/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alanbriolat/video-downloader"
	"github.com/alanbriolat/video-downloader/async"
	"github.com/alanbriolat/video-downloader/extractor/ytdlp"
	"github.com/alanbriolat/video-downloader/internal/probe"
	"github.com/alanbriolat/video-downloader/internal/session"
	_ "github.com/alanbriolat/video-downloader/providers"
	"github.com/alanbriolat/video-downloader/providers/youtube"
)

const envPrefix = "VIDEO_DOWNLOADER_"

func main() {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	config := zap.NewDevelopmentConfig()
	config.Level = level
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = video_downloader.WithLogger(ctx, logger)

	app := newApp(ctx, level, os.Stdin, os.Stdout)
	result := async.Run(func() error { return app.Run(os.Args) })

	// On interrupt the session may be blocked reading stdin, so don't wait for it.
	select {
	case err = <-result:
	case <-ctx.Done():
	}
	if ctx.Err() != nil {
		stop()
		fmt.Fprintln(os.Stdout, session.Cancelled)
		return
	}
	if err != nil {
		logger.Fatal(err.Error())
	}
}

func newApp(ctx context.Context, level zap.AtomicLevel, in io.Reader, out io.Writer) *cli.App {
	defaults := video_downloader.DefaultConfig
	return &cli.App{
		Name:  "video-downloader",
		Usage: "interactively download videos from Facebook, Instagram and YouTube",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Value:   defaults.Backend,
				Usage:   fmt.Sprintf("extraction backend, %q or %q (YouTube only)", video_downloader.BackendYtDlp, video_downloader.BackendNative),
				EnvVars: []string{envPrefix + "BACKEND"},
			},
			&cli.StringFlag{
				Name:    "yt-dlp",
				Value:   defaults.YtDlpPath,
				Usage:   "use the yt-dlp executable at `PATH` instead of looking it up",
				EnvVars: []string{envPrefix + "YTDLP"},
			},
			&cli.StringFlag{
				Name:    "ffmpeg",
				Value:   defaults.FFmpegPath,
				Usage:   "ffmpeg executable `PATH`, used for audio/video merging",
				EnvVars: []string{envPrefix + "FFMPEG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "log debug information to stderr",
				EnvVars: []string{envPrefix + "VERBOSE"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg := defaults
			cfg.Backend = c.String("backend")
			cfg.YtDlpPath = c.String("yt-dlp")
			cfg.FFmpegPath = c.String("ffmpeg")
			cfg.Verbose = c.Bool("verbose")
			if cfg.Verbose {
				level.SetLevel(zap.DebugLevel)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logConfigChanges(defaults, cfg)
			return run(ctx, cfg, in, out)
		},
		HideHelpCommand: true,
	}
}

func run(ctx context.Context, cfg video_downloader.Config, in io.Reader, out io.Writer) error {
	logger := zap.S()

	available := probe.MediaProcessor(ctx, cfg.FFmpegPath)
	if available {
		if version, err := probe.MediaProcessorVersion(ctx, cfg.FFmpegPath); err == nil {
			logger.Debugf("found %s", version)
		}
	}

	var extractor video_downloader.Extractor
	switch cfg.Backend {
	case video_downloader.BackendNative:
		extractor = youtube.NewExtractor()
	default:
		extractor = ytdlp.New(cfg)
	}
	logger.Debugf("using extractor %s", extractor.Name())

	s := session.New(session.Config{
		In:                 in,
		Out:                out,
		Classify:           video_downloader.Classify,
		Downloader:         video_downloader.NewDownloader(cfg, extractor),
		ProcessorAvailable: available,
	})
	err := s.Run(ctx)
	if err != nil && ctx.Err() != nil {
		// Interrupted; main reports the cancellation.
		return nil
	}
	return err
}

func logConfigChanges(defaults, cfg video_downloader.Config) {
	logger := zap.S()
	changes, err := diff.Diff(defaults, cfg)
	if err != nil {
		logger.Errorf("failed to diff config against defaults: %v", err)
		return
	}
	for _, change := range changes {
		logger.Debugf("config %v: %#v -> %#v", change.Path, change.From, change.To)
	}
}
