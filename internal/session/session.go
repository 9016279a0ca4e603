// Package session implements the interactive prompt loop: read a URL, classify it, read a destination, download,
// and ask whether to go again.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/alanbriolat/video-downloader"
)

var (
	ErrEmptyInput      = errors.New("URL cannot be empty")
	ErrUnrecognizedURL = errors.New("unsupported or invalid video URL")
)

const (
	PromptURL         = "\nEnter video URL (Facebook/Instagram/YouTube): "
	PromptDestination = "Enter folder path to save (leave blank for current directory): "
	PromptRepeat      = "\nDownload another video? (y/n): "

	Banner = "====================================\n" +
		"    UNIVERSAL VIDEO DOWNLOADER      \n" +
		"===================================="
	ProcessorWarning = "FFmpeg not found. Audio-video merge may fail."
	Farewell         = "\nThank you for using Universal Video Downloader!"
	Cancelled        = "\n\nDownload cancelled by user."
)

// Downloader is the part of video_downloader.Downloader the session needs.
type Downloader interface {
	Download(ctx context.Context, req *video_downloader.DownloadRequest, progress video_downloader.ProgressFunc) video_downloader.Outcome
}

type Classifier func(string) video_downloader.Platform

type Config struct {
	In         io.Reader
	Out        io.Writer
	Classify   Classifier
	Downloader Downloader
	// ProcessorAvailable is the capability probe result; false only prints a warning.
	ProcessorAvailable bool
}

type State int

const (
	AwaitingURL State = iota
	AwaitingDestination
	Downloading
	AwaitingRepeat
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingURL:
		return "AwaitingURL"
	case AwaitingDestination:
		return "AwaitingDestination"
	case Downloading:
		return "Downloading"
	case AwaitingRepeat:
		return "AwaitingRepeat"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Session struct {
	config Config
	lines  *bufio.Scanner
	out    io.Writer
	log    *zap.SugaredLogger

	state    State
	url      string
	platform video_downloader.Platform
	request  *video_downloader.DownloadRequest
}

func New(config Config) *Session {
	return &Session{
		config: config,
		lines:  bufio.NewScanner(config.In),
		out:    config.Out,
		log:    zap.S().Named("session"),
		state:  AwaitingURL,
	}
}

// State returns the current state of the loop.
func (s *Session) State() State {
	return s.state
}

// Run drives the loop until the user declines to continue or input ends, returning nil. If ctx is cancelled it
// returns ctx.Err() at the next state transition.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, Banner)
	if !s.config.ProcessorAvailable {
		fmt.Fprintln(s.out, ProcessorWarning)
	}

	for s.state != Done {
		if err := ctx.Err(); err != nil {
			return err
		}
		previous := s.state
		err := s.step(ctx)
		if errors.Is(err, io.EOF) {
			s.log.Debugw("input closed", "state", previous)
			s.state = Done
		} else if err != nil {
			return err
		}
		if s.state != previous {
			s.log.Debugw("state change", "from", previous, "to", s.state)
		}
	}

	fmt.Fprintln(s.out, Farewell)
	return nil
}

func (s *Session) step(ctx context.Context) error {
	switch s.state {
	case AwaitingURL:
		return s.awaitURL()
	case AwaitingDestination:
		return s.awaitDestination()
	case Downloading:
		return s.download(ctx)
	case AwaitingRepeat:
		return s.awaitRepeat()
	default:
		return fmt.Errorf("unexpected state %v", s.state)
	}
}

func (s *Session) awaitURL() error {
	line, err := s.readLine(PromptURL)
	if err != nil {
		return err
	}
	platform, err := s.parseURL(line)
	if err != nil {
		fmt.Fprintf(s.out, "%s.\n", capitalize(err.Error()))
		return nil
	}
	s.url = line
	s.platform = platform
	s.state = AwaitingDestination
	return nil
}

// parseURL returns ErrEmptyInput or ErrUnrecognizedURL for input that should be re-prompted.
func (s *Session) parseURL(line string) (video_downloader.Platform, error) {
	if line == "" {
		return video_downloader.Unrecognized, ErrEmptyInput
	}
	platform := s.config.Classify(line)
	if !platform.IsRecognized() {
		return video_downloader.Unrecognized, ErrUnrecognizedURL
	}
	return platform, nil
}

func (s *Session) awaitDestination() error {
	line, err := s.readLine(PromptDestination)
	if err != nil {
		return err
	}
	s.request = video_downloader.NewDownloadRequest(s.url, s.platform, line)
	s.state = Downloading
	return nil
}

func (s *Session) download(ctx context.Context) error {
	fmt.Fprintf(s.out, "\nDetected platform: %s\n", s.request.Platform().DisplayName())
	fmt.Fprintln(s.out, "Downloading video... Please wait...")

	renderer := newProgressRenderer(s.out, s.log)
	outcome := s.config.Downloader.Download(ctx, s.request, renderer.Update)
	renderer.Done(outcome.IsSuccess())
	// An interrupted download is reported as cancelled by the caller, not as a failure.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.report(outcome)

	s.request = nil
	s.state = AwaitingRepeat
	return nil
}

func (s *Session) report(outcome video_downloader.Outcome) {
	if !outcome.IsSuccess() {
		fmt.Fprintf(s.out, "\nDownload failed: %s\n", outcome.Err.Message)
		if guidance := outcome.Err.Category.Guidance(); len(guidance) > 0 {
			fmt.Fprintln(s.out)
			for _, line := range guidance {
				fmt.Fprintln(s.out, line)
			}
		}
		return
	}

	dir, err := s.request.Destination()
	if err != nil {
		dir = "."
	}
	if outcome.AlreadyExisted {
		fmt.Fprintf(s.out, "\nVideo already downloaded in: %s\n", dir)
	} else {
		fmt.Fprintf(s.out, "\nVideo successfully downloaded to: %s\n", dir)
	}
	if outcome.Path != "" {
		fmt.Fprintf(s.out, "File: %s\n", outcome.Path)
	}
}

func (s *Session) awaitRepeat() error {
	line, err := s.readLine(PromptRepeat)
	if err != nil {
		return err
	}
	if strings.EqualFold(line, "y") {
		s.state = AwaitingURL
	} else {
		s.state = Done
	}
	return nil
}

// readLine prints prompt and returns the next trimmed line, or io.EOF once input is exhausted.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.lines.Scan() {
		if err := s.lines.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		fmt.Fprintln(s.out)
		return "", io.EOF
	}
	return strings.TrimSpace(s.lines.Text()), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
