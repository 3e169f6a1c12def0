// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace owns the state behind the web interface: the selected
// files, the processing lifecycle, and the last generated result. Every user
// action is a method with defined pre- and post-state, independent of the
// transport that triggers it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/compose"
	"github.com/pdiddy/doc-digest/internal/generate"
	"github.com/pdiddy/doc-digest/internal/render"
	"github.com/pdiddy/doc-digest/internal/selection"
	"github.com/pdiddy/doc-digest/pkg/types"
)

// State is the processing lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

var (
	// ErrNoFiles is returned by Process when nothing is selected. The
	// workspace state is left unchanged.
	ErrNoFiles = errors.New("workspace: no files selected")

	// ErrBusy is returned by Process while a run is in flight.
	ErrBusy = errors.New("workspace: processing already in progress")

	// ErrNoResult is returned by Download before the first successful run.
	ErrNoResult = errors.New("workspace: no result available")

	// ErrRunFailed wraps the cause of a failed run.
	ErrRunFailed = errors.New("workspace: processing failed")
)

// Extractor turns the selected files into one result per file, in order.
type Extractor interface {
	ExtractAll(ctx context.Context, files []types.SelectedFile) ([]types.ExtractionResult, error)
}

// Recorder is told about every successful run.
type Recorder interface {
	Record(ctx context.Context, res types.GenerationResult) error
}

// RenderFunc converts markdown to HTML.
type RenderFunc func(markdown string) (string, error)

// Workspace is safe for concurrent use. Process runs outside the lock; the
// Loading state is what prevents overlapping runs.
type Workspace struct {
	extractor Extractor
	composer  *compose.Composer
	backend   generate.Backend
	render    RenderFunc
	recorder  Recorder
	logger    *zap.Logger
	failText  string
	newID     func() string
	now       func() time.Time

	mu        sync.Mutex
	files     *selection.Store
	state     State
	result    *types.GenerationResult
	errMsg    string
	seq       uint64
	listeners []func(Snapshot)
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRenderer replaces the markdown renderer.
func WithRenderer(fn RenderFunc) Option {
	return func(w *Workspace) { w.render = fn }
}

// WithRecorder records successful runs.
func WithRecorder(r Recorder) Option {
	return func(w *Workspace) { w.recorder = r }
}

// WithErrorMessage sets the user-facing text shown after any failed run.
func WithErrorMessage(msg string) Option {
	return func(w *Workspace) {
		if msg != "" {
			w.failText = msg
		}
	}
}

// New returns an idle Workspace with no files.
func New(ex Extractor, c *compose.Composer, b generate.Backend, opts ...Option) *Workspace {
	w := &Workspace{
		extractor: ex,
		composer:  c,
		backend:   b,
		render:    render.HTML,
		logger:    zap.NewNop(),
		failText:  types.DefaultErrorMessage,
		newID:     uuid.NewString,
		now:       time.Now,
		files:     selection.New(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnChange registers fn to receive a snapshot after every state change.
// fn is called without the workspace lock held, so concurrent changes can
// reach it out of order; a snapshot with a lower Seq than one already seen
// is stale.
func (w *Workspace) OnChange(fn func(Snapshot)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

// AddFiles adds files to the selection, skipping names already present.
func (w *Workspace) AddFiles(files ...types.SelectedFile) int {
	w.mu.Lock()
	n := w.files.Add(files...)
	w.mu.Unlock()

	if n > 0 {
		w.notify()
	}
	return n
}

// RemoveFile removes the file at index in the current list order.
func (w *Workspace) RemoveFile(index int) error {
	w.mu.Lock()
	err := w.files.RemoveAt(index)
	w.mu.Unlock()

	if err != nil {
		return err
	}
	w.notify()
	return nil
}

// ClearFiles empties the selection.
func (w *Workspace) ClearFiles() {
	w.mu.Lock()
	w.files.Clear()
	w.mu.Unlock()
	w.notify()
}

// Files returns the selected files in order.
func (w *Workspace) Files() []types.SelectedFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files.List()
}

// Process runs extraction, composition, generation, and rendering over the
// current selection. It moves the workspace to Loading, then to Success or
// Failed. A failure keeps the previous result and exposes only the fixed
// user-facing message; the cause is logged and returned wrapped in
// ErrRunFailed.
func (w *Workspace) Process(ctx context.Context) error {
	w.mu.Lock()
	if w.state == StateLoading {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.files.Len() == 0 {
		w.mu.Unlock()
		return ErrNoFiles
	}
	files := w.files.List()
	w.state = StateLoading
	w.errMsg = ""
	w.mu.Unlock()
	w.notify()

	res, err := w.run(ctx, files)

	w.mu.Lock()
	if err != nil {
		w.state = StateFailed
		w.errMsg = w.failText
	} else {
		w.state = StateSuccess
		w.result = &res
	}
	w.mu.Unlock()
	w.notify()

	if err != nil {
		w.logger.Error("processing failed", zap.Int("files", len(files)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	w.logger.Info("processing finished",
		zap.String("run_id", res.RunID),
		zap.Int("files", len(files)),
		zap.Int("markdown_bytes", len(res.Markdown)))

	if w.recorder != nil {
		if err := w.recorder.Record(ctx, res); err != nil {
			w.logger.Warn("recording run failed", zap.String("run_id", res.RunID), zap.Error(err))
		}
	}
	return nil
}

// run chains extraction, composition, generation, and rendering. A panic
// anywhere in the chain is reported as an error so the caller always leaves
// the Loading state.
func (w *Workspace) run(ctx context.Context, files []types.SelectedFile) (res types.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during processing: %v", r)
		}
	}()

	results, err := w.extractor.ExtractAll(ctx, files)
	if err != nil {
		return res, err
	}
	for _, r := range results {
		if !r.OK() {
			w.logger.Warn("file contributed a placeholder",
				zap.String("file", r.FileName),
				zap.String("diagnostic", string(r.Diagnostic)),
				zap.String("detail", r.Detail))
		}
	}

	req := w.composer.Compose(results)

	markdown, err := w.backend.Generate(ctx, req)
	if err != nil {
		return res, fmt.Errorf("generating: %w", err)
	}

	html, err := w.render(markdown)
	if err != nil {
		return res, err
	}

	return types.GenerationResult{
		RunID:    w.newID(),
		Markdown: markdown,
		HTML:     html,
		Files:    req.Files,
		Model:    w.backend.Name(),
		Created:  w.now().UTC(),
	}, nil
}

// Download returns the last successful result as a markdown file.
func (w *Workspace) Download() (types.Artifact, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil {
		return types.Artifact{}, ErrNoResult
	}
	return types.Artifact{
		Name:        types.ResultFileName,
		ContentType: types.ResultContentType,
		Data:        []byte(w.result.Markdown),
	}, nil
}

// Result returns the last successful result, if any.
func (w *Workspace) Result() (types.GenerationResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil {
		return types.GenerationResult{}, false
	}
	return *w.result, true
}

func (w *Workspace) notify() {
	w.mu.Lock()
	w.seq++
	snap := w.snapshotLocked()
	listeners := append([]func(Snapshot){}, w.listeners...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
