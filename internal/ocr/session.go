package ocr

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/docuparse/invoice-extract/internal/common"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // default "eng"
	PSM       int    // page segmentation mode; 6 works for uniform text blocks
	Enhance   bool   // preprocess the image before recognition
	WorkDir   string // scratch dir for enhanced images; default os.TempDir()
}

// RecognitionResult is the raw multi-line text the engine produced for one
// image, with a heuristic confidence and timing.
type RecognitionResult struct {
	Text       string
	Confidence float32
	Duration   time.Duration
}

// Session is an explicit handle on the recognition engine with a
// create/use/Close lifecycle. A session runs at most one recognition at a
// time; concurrent callers are serialized on the handle, and a failed or
// cancelled call leaves it reusable.
type Session struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	sem       chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func NewSession(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	sem := make(chan struct{}, 1)
	sem <- struct{}{}
	return &Session{cfg: cfg, runner: execRunner{}, logger: logger, sem: sem, closed: make(chan struct{})}
}

// Recognize runs the engine over one image and returns its text. Errors are
// fatal to the current document only; the session stays usable for subsequent
// calls. Cancellation is caller-driven via ctx.
func (s *Session) Recognize(ctx context.Context, imagePath string) (RecognitionResult, error) {
	// Checked separately first: with the semaphore token free, a three-way
	// select could still pick it on a closed session.
	select {
	case <-s.closed:
		return RecognitionResult{}, common.NewAppError("SESSION_CLOSED", "recognition session already closed", common.ErrSessionClosed)
	default:
	}

	select {
	case <-s.closed:
		return RecognitionResult{}, common.NewAppError("SESSION_CLOSED", "recognition session already closed", common.ErrSessionClosed)
	case <-ctx.Done():
		return RecognitionResult{}, ctx.Err()
	case <-s.sem:
	}
	defer func() { s.sem <- struct{}{} }()

	start := time.Now()

	path := imagePath
	if s.cfg.Enhance {
		enhanced, cleanup, err := enhanceForRecognition(imagePath, s.cfg.WorkDir)
		if err != nil {
			// Recognition can still succeed on the raw image.
			s.logger.Warn("image enhancement failed, using original", "path", imagePath, "error", err)
		} else {
			defer cleanup()
			path = enhanced
		}
	}

	args := []string{path, "stdout", "-l", s.cfg.Language, "--psm", strconv.Itoa(s.cfg.PSM)}
	stdout, _, err := s.runner.Run(ctx, s.cfg.Tesseract, args...)
	if err != nil {
		return RecognitionResult{}, common.NewAppError("RECOGNITION_FAILED", "engine call failed for "+imagePath, common.ErrRecognition)
	}

	text := string(stdout)
	res := RecognitionResult{
		Text:       text,
		Confidence: heuristicConfidence(text),
		Duration:   time.Since(start),
	}
	s.logger.Debug("recognition complete",
		"path", imagePath,
		"bytes", len(text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// Close releases the session. Subsequent Recognize calls fail with
// ErrSessionClosed; callers must create a fresh session.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}
