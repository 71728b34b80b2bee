// Package pipeline drives the tag → match → mutate → serialize flow over a
// batch of files on a single background worker, isolating per-file
// failures and emitting progress events.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkstone-dev/go-doc-styler/internal/document"
	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
	"go.uber.org/zap"
)

// DefaultSuffix is appended to output file stems.
const DefaultSuffix = "_styled"

// Config is the batch configuration, captured at invocation time. The core
// never reads ambient mutable state: everything it needs arrives here.
type Config struct {
	// OutputDir receives styled files; empty means next to the input.
	OutputDir string

	// Suffix is inserted before the extension; defaults to DefaultSuffix.
	Suffix string

	// Rules in precedence order. The pipeline copies the slice, making it
	// an immutable snapshot for the batch.
	Rules []engine.Rule

	// CodecOptions configures document codecs.
	CodecOptions document.Options

	Logger *zap.Logger
}

// Pipeline processes batches of document files.
type Pipeline struct {
	cfg    Config
	tagger *tagger.Memoized
	engine *engine.Engine
	logger *zap.Logger
}

// New creates a pipeline around a tagging backend.
func New(cfg Config, tg tagger.Tagger) (*Pipeline, error) {
	if tg == nil {
		return nil, fmt.Errorf("pipeline needs a tagger")
	}
	if cfg.Suffix == "" {
		cfg.Suffix = DefaultSuffix
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Rules = append([]engine.Rule(nil), cfg.Rules...)
	for _, r := range cfg.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.CodecOptions.Logger = cfg.Logger

	memo := tagger.NewMemoized(tg)
	return &Pipeline{
		cfg:    cfg,
		tagger: memo,
		engine: engine.New(memo, cfg.Logger),
		logger: cfg.Logger,
	}, nil
}

// Batch is a handle to one in-flight batch run.
type Batch struct {
	ID string

	events  chan Event
	done    chan struct{}
	results []FileResult
}

// Events returns the progress event stream. Events arrive in file-queue
// order; the channel closes when the batch finishes. Consuming it is
// optional: the pipeline drops events rather than block.
func (b *Batch) Events() <-chan Event {
	return b.events
}

// Wait blocks until the batch finishes and returns one result per file,
// in queue order.
func (b *Batch) Wait() []FileResult {
	<-b.done
	return b.results
}

// Process starts the batch on a background worker and returns immediately.
// Files are processed sequentially in queue order. Cancellation via ctx is
// cooperative and checked at file boundaries only: a file already started
// runs to completion.
func (p *Pipeline) Process(ctx context.Context, files []string) *Batch {
	b := &Batch{
		ID: uuid.NewString(),
		// Large enough that a consumer reading at any pace sees
		// everything; emit drops events instead of blocking if not.
		events: make(chan Event, len(files)*8+16),
		done:   make(chan struct{}),
	}
	go p.run(ctx, files, b)
	return b
}

func (p *Pipeline) run(ctx context.Context, files []string, b *Batch) {
	defer close(b.done)
	defer close(b.events)

	started := time.Now()
	p.logger.Info("batch started",
		zap.String("batchID", b.ID),
		zap.Int("files", len(files)),
		zap.Int("rules", len(p.cfg.Rules)))

	for i, f := range files {
		p.emit(b, Event{BatchID: b.ID, Index: i, File: f, State: StateQueued})
	}

	b.results = make([]FileResult, len(files))
	abort := (*FileError)(nil)

	for i, f := range files {
		if abort == nil && ctx.Err() != nil {
			abort = &FileError{Kind: ErrorCanceled, Path: f, Err: ctx.Err()}
		}

		if abort != nil {
			ferr := &FileError{Kind: abort.Kind, Path: f, Err: abort.Err}
			b.results[i] = FileResult{Index: i, File: f, State: StateFailed, Err: ferr}
			p.emit(b, Event{BatchID: b.ID, Index: i, File: f, State: StateFailed, Err: ferr})
			continue
		}

		res := p.processFile(b, i, f)
		b.results[i] = res

		if res.Err != nil && res.Err.Kind == ErrorTaggingUnavailable {
			// batch-wide prerequisite gone; fail the rest instead of
			// pretending they might succeed
			abort = res.Err
		}
	}

	p.logger.Info("batch finished",
		zap.String("batchID", b.ID),
		zap.Duration("duration", time.Since(started)))
}

// processFile walks one file through the state machine.
func (p *Pipeline) processFile(b *Batch, index int, path string) FileResult {
	started := time.Now()
	res := FileResult{Index: index, File: path}

	fail := func(stage ErrorKind, state FileState, err error) FileResult {
		ferr := classify(stage, path, err)
		res.State = StateFailed
		res.Err = ferr
		res.Duration = time.Since(started)
		p.logger.Warn("file failed",
			zap.String("file", path),
			zap.String("stage", string(state)),
			zap.String("kind", string(ferr.Kind)),
			zap.Error(err))
		p.emit(b, Event{BatchID: b.ID, Index: index, File: path, State: StateFailed, Err: ferr})
		return res
	}
	transition := func(state FileState) {
		p.emit(b, Event{BatchID: b.ID, Index: index, File: path, State: state})
	}

	transition(StateLoading)
	codec, err := document.CodecForPath(path, p.cfg.CodecOptions)
	if err != nil {
		return fail(ErrorDocumentLoadFailure, StateLoading, err)
	}
	doc, err := codec.Load(path)
	if err != nil {
		return fail(ErrorDocumentLoadFailure, StateLoading, err)
	}

	// Tagging happens lazily inside matching; the memoized cache is
	// scoped to one document-processing run.
	transition(StateTagging)
	p.tagger.Reset()

	transition(StateMatching)
	ops, err := p.engine.Match(doc, p.cfg.Rules)
	if err != nil {
		return fail(ErrorInternal, StateMatching, err)
	}
	res.Ops = len(ops)

	transition(StateMutating)
	if err := engine.Apply(doc, ops); err != nil {
		return fail(ErrorInvalidStyleOpRange, StateMutating, err)
	}
	if err := doc.Validate(); err != nil {
		return fail(ErrorInternal, StateMutating, err)
	}

	transition(StateSerializing)
	outPath := p.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fail(ErrorDocumentSaveFailure, StateSerializing, err)
	}
	if err := codec.Save(doc, outPath); err != nil {
		return fail(ErrorDocumentSaveFailure, StateSerializing, err)
	}

	res.State = StateDone
	res.Output = outPath
	res.Duration = time.Since(started)
	p.logger.Info("file styled",
		zap.String("file", path),
		zap.String("output", outPath),
		zap.Int("ops", res.Ops),
		zap.Duration("duration", res.Duration))
	p.emit(b, Event{BatchID: b.ID, Index: index, File: path, State: StateDone})
	return res
}

// outputPath derives the destination: stem + suffix + original extension,
// under the configured output directory. Originals are never written to.
func (p *Pipeline) outputPath(input string) string {
	dir := p.cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(dir, stem+p.cfg.Suffix+ext)
}

// emit delivers an event without ever blocking the worker.
func (p *Pipeline) emit(b *Batch, ev Event) {
	select {
	case b.events <- ev:
	default:
		p.logger.Debug("event dropped, consumer too slow",
			zap.String("file", ev.File),
			zap.String("state", string(ev.State)))
	}
}
