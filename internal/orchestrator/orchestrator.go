// Package orchestrator drives a transcription run end to end: lock the
// workspace, extract audio into a scoped scratch directory, walk the
// transcript sources in priority order with the documented retry policy, and
// assemble the winning segments into a styled caption track.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"cuecraft/internal/caption"
	"cuecraft/internal/config"
	"cuecraft/internal/logging"
	"cuecraft/internal/media/audio"
	"cuecraft/internal/media/ffprobe"
	"cuecraft/internal/notifications"
	"cuecraft/internal/services"
	"cuecraft/internal/store"
	"cuecraft/internal/tempres"
	"cuecraft/internal/timecode"
	"cuecraft/internal/timing"
	"cuecraft/internal/transcribe"
)

// State is the orchestrator's position in a run.
type State string

const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting-audio"
	StateTranscribing State = "transcribing"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Event is one progress notification emitted during a run.
type Event struct {
	Type    string
	Variant transcribe.Variant
	Detail  string
}

// Progress event types.
const (
	EventExtractionStarted   = "extraction-started"
	EventExtractionCompleted = "extraction-completed"
	EventTranscribing        = "transcribing"
	EventCompleted           = "completed"
	EventFailed              = "failed"
)

// ProgressFunc receives progress events. Calls arrive from the run's own
// goroutine; handlers must not block.
type ProgressFunc func(Event)

// AudioExtractor converts a media file into transcription-ready audio.
type AudioExtractor interface {
	Extract(ctx context.Context, source, dest string) error
}

// DurationProber reads container metadata.
type DurationProber interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Result is the outcome of a completed run.
type Result struct {
	RunID             string
	Track             *caption.Track
	Variant           transcribe.Variant
	SegmentCount      int
	DurationSeconds   float64
	DurationEstimated bool
}

// Orchestrator owns one run at a time. The zero value is not usable; use New.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	notifier notifications.Service

	extractor AudioExtractor
	prober    DurationProber
	sources   []transcribe.Source
	progress  ProgressFunc

	lock *flock.Flock

	mu    sync.Mutex
	state State
}

// New builds an orchestrator with the default source chain: local model,
// remote engine, manual fallback. The store may be nil when run history is
// not wanted.
func New(cfg *config.Config, logger *slog.Logger, st *store.Store, notifier notifications.Service) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "orchestrator")),
		store:     st,
		notifier:  notifier,
		extractor: audio.NewExtractor(cfg.Transcription.FFmpegBinary),
		prober:    ffprobe.NewInspector(cfg.Transcription.FFprobeBinary),
		sources: []transcribe.Source{
			transcribe.NewWhisperSource(transcribe.WhisperConfig{
				Model:       cfg.Transcription.WhisperModel,
				CUDAEnabled: cfg.Transcription.WhisperCUDA,
				Language:    cfg.Transcription.Language,
			}),
			transcribe.NewRemoteSource(transcribe.RemoteConfig{
				URL:    cfg.Transcription.RemoteURL,
				APIKey: cfg.Transcription.RemoteAPIKey,
				Model:  cfg.Transcription.RemoteModel,
			}, nil),
			transcribe.NewManualSource(),
		},
		lock:  flock.New(filepath.Join(cfg.Paths.WorkDir, "cuecraft.lock")),
		state: StateIdle,
	}
}

// WithSources replaces the transcript source chain.
func (o *Orchestrator) WithSources(sources ...transcribe.Source) {
	o.sources = sources
}

// WithExtractor replaces the audio extractor (for testing).
func (o *Orchestrator) WithExtractor(extractor AudioExtractor) {
	o.extractor = extractor
}

// WithProber replaces the duration prober (for testing).
func (o *Orchestrator) WithProber(prober DurationProber) {
	o.prober = prober
}

// WithProgress registers a progress handler.
func (o *Orchestrator) WithProgress(fn ProgressFunc) {
	o.progress = fn
}

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) emit(event Event) {
	if o.progress != nil {
		o.progress(event)
	}
}

// Run processes one source file into a caption track. Only one run may be
// active per workspace; a second concurrent run fails fast instead of
// corrupting shared scratch space.
func (o *Orchestrator) Run(ctx context.Context, sourcePath string) (*Result, error) {
	if err := o.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrIO, "orchestrator", "run", "ensure directories", err)
	}

	locked, err := o.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "orchestrator", "run", "acquire workspace lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrIO, "orchestrator", "run",
			"workspace is locked by another run", nil)
	}
	defer func() {
		if unlockErr := o.lock.Unlock(); unlockErr != nil {
			o.logger.Warn("failed to release workspace lock", logging.Error(unlockErr))
		}
	}()

	var run *store.Run
	if o.store != nil {
		run, err = o.store.CreateRun(ctx, sourcePath)
		if err != nil {
			return nil, err
		}
		ctx = services.WithRunID(ctx, run.ID)
	}
	logger := o.logger
	if run != nil {
		logger = logger.With(logging.String(logging.FieldRunID, run.ID))
	}
	if notifyErr := o.notifier.NotifyRunStarted(ctx, sourcePath); notifyErr != nil {
		logger.Warn("failed to send start notification", logging.Error(notifyErr))
	}

	result, runErr := o.execute(ctx, logger, run, sourcePath)
	if o.store != nil && run != nil {
		if runErr != nil {
			run.Status = store.StatusFailed
			run.ErrorMessage = runErr.Error()
		} else {
			run.Status = store.StatusCompleted
			run.Variant = string(result.Variant)
			run.SegmentCount = result.SegmentCount
			run.DurationSeconds = result.DurationSeconds
			run.DurationEstimated = result.DurationEstimated
		}
		if updateErr := o.store.UpdateRun(ctx, run); updateErr != nil {
			logger.Warn("failed to persist run outcome", logging.Error(updateErr))
		}
	}
	if runErr != nil {
		o.setState(StateFailed)
		o.emit(Event{Type: EventFailed, Detail: runErr.Error()})
		if notifyErr := o.notifier.NotifyRunFailed(ctx, sourcePath, runErr.Error()); notifyErr != nil {
			logger.Warn("failed to send failure notification", logging.Error(notifyErr))
		}
		return nil, runErr
	}
	if run != nil {
		result.RunID = run.ID
	}
	o.setState(StateCompleted)
	o.emit(Event{Type: EventCompleted, Variant: result.Variant})
	if notifyErr := o.notifier.NotifyTranscriptionCompleted(ctx, sourcePath, string(result.Variant), result.SegmentCount); notifyErr != nil {
		logger.Warn("failed to send completion notification", logging.Error(notifyErr))
	}
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, logger *slog.Logger, run *store.Run, sourcePath string) (*Result, error) {
	o.setState(StateExtracting)
	o.emit(Event{Type: EventExtractionStarted})
	if run != nil && o.store != nil {
		run.Status = store.StatusExtracting
		if err := o.store.UpdateRun(ctx, run); err != nil {
			logger.Warn("failed to persist run state", logging.Error(err))
		}
	}

	res, audioPath, err := o.extractAudio(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := res.Release(); releaseErr != nil {
			logger.Warn("failed to release scratch directory", logging.Error(releaseErr))
		}
	}()
	o.emit(Event{Type: EventExtractionCompleted})

	durationSeconds, estimated := o.measureDuration(ctx, logger, sourcePath, audioPath)
	logger.Info("audio ready",
		logging.String("audio", audioPath),
		slog.Float64("duration_seconds", durationSeconds),
		slog.Bool("duration_estimated", estimated))

	o.setState(StateTranscribing)
	if run != nil && o.store != nil {
		run.Status = store.StatusTranscribing
		if err := o.store.UpdateRun(ctx, run); err != nil {
			logger.Warn("failed to persist run state", logging.Error(err))
		}
	}

	segments, variant, err := o.transcribeWithFallback(ctx, logger, run, sourcePath, &res, &audioPath)
	if err != nil {
		return nil, err
	}

	track, err := o.buildTrack(segments, durationSeconds)
	if err != nil {
		return nil, err
	}
	return &Result{
		Track:             track,
		Variant:           variant,
		SegmentCount:      len(segments),
		DurationSeconds:   durationSeconds,
		DurationEstimated: estimated,
	}, nil
}

func (o *Orchestrator) extractAudio(ctx context.Context, sourcePath string) (*tempres.Resource, string, error) {
	res, err := tempres.Acquire(o.cfg.Paths.WorkDir)
	if err != nil {
		return nil, "", err
	}
	audioPath := res.Path("audio.wav")
	if err := o.extractor.Extract(ctx, sourcePath, audioPath); err != nil {
		_ = res.Release()
		return nil, "", err
	}
	return res, audioPath, nil
}

// measureDuration prefers container metadata and falls back to a size-based
// estimate over the fixed PCM layout. The estimate flag must travel with the
// value; an approximation presented as measured truth would poison cue
// timing downstream.
func (o *Orchestrator) measureDuration(ctx context.Context, logger *slog.Logger, sourcePath, audioPath string) (float64, bool) {
	if result, err := o.prober.Inspect(ctx, sourcePath); err == nil {
		if seconds := result.DurationSeconds(); seconds > 0 {
			return seconds, false
		}
	} else {
		logger.Warn("container probe failed, estimating duration from audio size", logging.Error(err))
	}
	seconds, err := audio.EstimateDurationSeconds(audioPath)
	if err != nil {
		logger.Warn("duration estimate failed", logging.Error(err))
		return 0, true
	}
	return seconds, true
}

const extractionRetries = 1

func (o *Orchestrator) transcribeWithFallback(ctx context.Context, logger *slog.Logger, run *store.Run, sourcePath string, res **tempres.Resource, audioPath *string) ([]transcribe.Segment, transcribe.Variant, error) {
	var lastErr error
	for _, source := range o.sources {
		variant := source.Variant()
		o.emit(Event{Type: EventTranscribing, Variant: variant})
		sourceLogger := logger.With(logging.String(logging.FieldVariant, string(variant)))

		for attempt := 1; attempt <= 1+extractionRetries; attempt++ {
			segments, err := o.attempt(ctx, source, *audioPath)
			o.recordAttempt(ctx, logger, run, variant, attempt, err)
			if err == nil {
				sourceLogger.Info("transcription completed",
					slog.Int("attempt", attempt), slog.Int("segments", len(segments)))
				return segments, variant, nil
			}
			lastErr = err

			switch {
			case errors.Is(err, services.ErrUnavailable):
				sourceLogger.Info("source unavailable, trying next variant", logging.Error(err))
			case errors.Is(err, services.ErrTimeout):
				sourceLogger.Warn("source timed out, trying next variant", logging.Error(err))
			case services.Retryable(err) && attempt <= extractionRetries:
				sourceLogger.Warn("attempt failed, retrying with fresh scratch space",
					slog.Int("attempt", attempt), logging.Error(err))
				if refreshErr := o.refreshAudio(ctx, sourcePath, res, audioPath); refreshErr != nil {
					return nil, "", refreshErr
				}
				continue
			default:
				sourceLogger.Warn("source exhausted, trying next variant", logging.Error(err))
			}
			break
		}
	}
	if lastErr == nil {
		lastErr = services.Wrap(services.ErrUnavailable, "orchestrator", "transcribe",
			"no transcript sources configured", nil)
	}
	return nil, "", services.Wrap(services.ErrExtraction, "orchestrator", "transcribe",
		"every transcript source exhausted", lastErr)
}

func (o *Orchestrator) attempt(ctx context.Context, source transcribe.Source, audioPath string) ([]transcribe.Segment, error) {
	timeout := time.Duration(o.cfg.Transcription.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return source.Transcribe(attemptCtx, audioPath)
}

// refreshAudio swaps in a brand new scratch directory and re-extracts, so a
// retry never reads output a failed attempt may have corrupted.
func (o *Orchestrator) refreshAudio(ctx context.Context, sourcePath string, res **tempres.Resource, audioPath *string) error {
	_ = (*res).Release()
	fresh, freshPath, err := o.extractAudio(ctx, sourcePath)
	if err != nil {
		return err
	}
	*res = fresh
	*audioPath = freshPath
	return nil
}

func (o *Orchestrator) recordAttempt(ctx context.Context, logger *slog.Logger, run *store.Run, variant transcribe.Variant, attempt int, err error) {
	if o.store == nil || run == nil {
		return
	}
	outcome := "completed"
	detail := ""
	if err != nil {
		outcome = outcomeForError(err)
		detail = err.Error()
	}
	if recordErr := o.store.RecordAttempt(ctx, run.ID, string(variant), attempt, outcome, detail); recordErr != nil {
		logger.Warn("failed to record attempt", logging.Error(recordErr))
	}
}

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, services.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, services.ErrTimeout):
		return "timeout"
	default:
		return "extraction-error"
	}
}

// buildTrack expands segments into word-level cues, registers the configured
// styles in name order, and assigns the default style to every cue.
func (o *Orchestrator) buildTrack(segments []transcribe.Segment, durationSeconds float64) (*caption.Track, error) {
	track := caption.NewTrack()
	names := make([]string, 0, len(o.cfg.Styles))
	for name := range o.cfg.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		props := o.cfg.Styles[name]
		style := caption.NewStyle(name)
		keys := make([]string, 0, len(props))
		for key := range props {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			style.Set(key, props[key])
		}
		if err := track.DefineStyle(style); err != nil {
			return nil, err
		}
	}

	chunkWords := o.cfg.Transcription.ChunkWords
	for _, segment := range segments {
		start, end := segment.Start, segment.End
		if !start.Before(end) {
			// Untimed segments (plain-text responses) span the whole source.
			if durationSeconds <= 0 {
				continue
			}
			start = timecode.FromMilliseconds(0)
			end = timecode.FromSeconds(durationSeconds)
		}
		cues, err := timing.Allocate(segment.Text, start, end, chunkWords)
		if err != nil {
			return nil, err
		}
		for _, cue := range cues {
			cue.Style = o.cfg.DefaultStyle
			if _, err := track.Insert(cue); err != nil {
				return nil, err
			}
		}
	}
	return track, nil
}
