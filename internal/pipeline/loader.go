// Package pipeline loads one race's files into the database in a single
// transaction.
//
// A run moves through Idle, Loading (one entity after another in a fixed
// order) and ends Committed or Aborted. The first failure of any stage
// aborts the run and rolls the transaction back, so a race is either loaded
// completely or not at all.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JonMunkholm/f1load/internal/core"
	"github.com/JonMunkholm/f1load/internal/logging"
)

// CoreStages is the load order of a race weekend.
var CoreStages = []core.Kind{
	core.KindLapTime,
	core.KindPitStop,
	core.KindQualifying,
	core.KindRaceResult,
	core.KindDriverStanding,
	core.KindConstructorStanding,
	core.KindConstructorResult,
}

// SprintStages follow the core stages on sprint weekends.
var SprintStages = []core.Kind{
	core.KindConstructorSprintResult,
	core.KindSprintLapTime,
	core.KindSprintResult,
}

// Stages returns the stages of a run in load order.
func Stages(sprint bool) []core.Kind {
	stages := append([]core.Kind(nil), CoreStages...)
	if sprint {
		stages = append(stages, SprintStages...)
	}
	return stages
}

// State is the lifecycle state of a Loader.
type State int

const (
	Idle State = iota
	Loading
	Committed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrRunInProgress is returned when Run is called while another run is loading.
var ErrRunInProgress = errors.New("load already in progress")

// Params selects what a run loads.
type Params struct {
	RaceID int32
	Sprint bool
}

// StageError reports the stage, and where known the row, at which a run failed.
type StageError struct {
	Stage core.Kind
	File  string
	Row   int // 0 when the failure is not tied to a data row
	Line  int
	Err   error
}

func (e *StageError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s: %s line %d: %v", e.Stage, filepath.Base(e.File), e.Line, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageReport counts what one stage did.
type StageReport struct {
	Kind     core.Kind
	Label    string
	Rows     int
	Inserted int
	Skipped  int
}

// Report summarizes a run.
type Report struct {
	RunID    string
	RaceID   int32
	Sprint   bool
	State    State
	Stages   []StageReport
	Duration time.Duration
}

// Inserted returns the number of rows inserted across all stages.
func (r *Report) Inserted() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Inserted
	}
	return n
}

// Skipped returns the number of duplicate rows skipped across all stages.
func (r *Report) Skipped() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Skipped
	}
	return n
}

// Loader runs loads against one database and one input folder.
type Loader struct {
	db      core.Beginner
	fs      afero.Fs
	dir     string
	metrics *Metrics
	now     func() time.Time

	mu    sync.Mutex
	state State
	stage core.Kind
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs reads input files from fs instead of the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithMetrics records run outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates a loader reading files from dir.
func NewLoader(db core.Beginner, dir string, opts ...Option) *Loader {
	l := &Loader{
		db:      db,
		fs:      afero.NewOsFs(),
		dir:     dir,
		metrics: NewMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Metrics returns the loader's metrics.
func (l *Loader) Metrics() *Metrics { return l.metrics }

// State returns the loader's state and, while loading, the current stage.
func (l *Loader) State() (State, core.Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.stage
}

func (l *Loader) setState(s State, stage core.Kind) {
	l.mu.Lock()
	l.state, l.stage = s, stage
	l.mu.Unlock()
}

// Run loads every stage for p.RaceID in one transaction and commits once
// all of them succeed. On failure nothing from the run is persisted and the
// error is a *StageError for stage failures.
//
// The report is returned in both cases and lists the stages attempted.
func (l *Loader) Run(ctx context.Context, p Params) (*Report, error) {
	l.mu.Lock()
	if l.state == Loading {
		l.mu.Unlock()
		return nil, ErrRunInProgress
	}
	l.state, l.stage = Loading, ""
	l.mu.Unlock()

	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	logger := logging.WithFields(ctx, "race_id", p.RaceID, "sprint", p.Sprint)

	start := l.now()
	report := &Report{RunID: logging.RunID(ctx), RaceID: p.RaceID, Sprint: p.Sprint, State: Loading}

	defs, err := definitions(Stages(p.Sprint))
	if err != nil {
		return l.abort(ctx, nil, report, start, err)
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return l.abort(ctx, nil, report, start, errors.Wrap(err, "begin transaction"))
	}

	logger.Info("load started", "stages", len(defs))

	for _, def := range defs {
		l.setState(Loading, def.Kind)

		sr, err := l.loadStage(ctx, tx, def, p.RaceID)
		report.Stages = append(report.Stages, sr)
		if err != nil {
			return l.abort(ctx, tx, report, start, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		// The transaction is closed either way; there is nothing to roll back.
		return l.abort(ctx, nil, report, start, errors.Wrap(err, "commit"))
	}

	report.State = Committed
	report.Duration = l.now().Sub(start)
	l.setState(Committed, "")
	l.metrics.observeCommitted(report, l.now())

	args := []any{"inserted", report.Inserted(), "skipped", report.Skipped(), "duration", report.Duration}
	for _, s := range report.Stages {
		args = append(args, string(s.Kind), fmt.Sprintf("%d/%d", s.Inserted, s.Skipped))
	}
	logger.Info("load committed", args...)

	return report, nil
}

// abort rolls back tx, when there is one, and records the failed run.
func (l *Loader) abort(ctx context.Context, tx pgx.Tx, report *Report, start time.Time, cause error) (*Report, error) {
	logger := logging.WithFields(ctx, "race_id", report.RaceID)

	if tx != nil {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("rollback failed", "error", err)
		}
	}

	report.State = Aborted
	report.Duration = l.now().Sub(start)
	l.setState(Aborted, "")
	l.metrics.observeAborted(report.Duration)

	logger.Error("load aborted", "error", cause, "code", core.Classify(cause).Code)
	return report, cause
}

// definitions resolves stage kinds against the registry.
func definitions(kinds []core.Kind) ([]core.EntityDefinition, error) {
	defs := make([]core.EntityDefinition, 0, len(kinds))
	for _, k := range kinds {
		def, ok := core.Get(k)
		if !ok {
			return nil, errors.Errorf("entity %s is not registered", k)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// loadStage streams one file into tx. The file is closed when the stage
// ends, whether it succeeded or not.
func (l *Loader) loadStage(ctx context.Context, tx pgx.Tx, def core.EntityDefinition, raceID int32) (StageReport, error) {
	sr := StageReport{Kind: def.Kind, Label: def.Label}
	logger := logging.WithFields(ctx, "stage", def.Kind, "race_id", raceID)
	path := filepath.Join(l.dir, def.File.Name)

	fail := func(row, line int, err error) (StageReport, error) {
		return sr, &StageError{Stage: def.Kind, File: path, Row: row, Line: line, Err: err}
	}

	f, err := l.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fail(0, 0, errors.Wrapf(core.ErrResourceNotFound, "open %s", path))
		}
		return fail(0, 0, errors.Wrapf(err, "open %s", path))
	}
	defer f.Close()

	dec, err := core.NewDecoder(f, def)
	if err != nil {
		return fail(0, 1, err)
	}

	for {
		rec, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(dec.Rows(), dec.Line(), err)
		}
		sr.Rows++

		if def.Resolve != nil {
			if rec, err = def.Resolve(ctx, tx, rec); err != nil {
				return fail(dec.Rows(), dec.Line(), err)
			}
		}

		stmt, err := core.BuildInsert(def.Kind, raceID, rec)
		if err != nil {
			return fail(dec.Rows(), dec.Line(), err)
		}

		res, err := core.Execute(ctx, tx, stmt, def.Tolerant)
		if err != nil {
			return fail(dec.Rows(), dec.Line(), err)
		}

		switch res {
		case core.Inserted:
			sr.Inserted++
		case core.Skipped:
			sr.Skipped++
		}
		logger.Info("row processed", "line", dec.Line(), "result", res)
	}

	logger.Info("stage loaded", "rows", sr.Rows, "inserted", sr.Inserted, "skipped", sr.Skipped)
	return sr, nil
}
