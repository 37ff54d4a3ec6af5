package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/tsawler/docfuse/model"
)

// DefaultTimeout bounds a single engine invocation.
const DefaultTimeout = 30 * time.Second

// ErrUnavailable marks an engine that was skipped because it reported
// itself unavailable.
var ErrUnavailable = errors.New("engine unavailable")

// EngineResult is the outcome of one engine.
type EngineResult struct {
	Engine    string
	Fragments []model.TextFragment
	// Err is a *model.StageError of kind model.ErrEngineFailed, or nil.
	Err     error
	Elapsed time.Duration
	// Skipped is set when the engine was not run because it was unavailable.
	Skipped bool
}

// Dispatch collects every engine outcome in configured order.
type Dispatch struct {
	Results []EngineResult
	// Performance maps each engine name to the number of fragments it
	// contributed; failed and skipped engines count 0.
	Performance map[string]int
}

// Fragments concatenates all fragments in configured engine order.
func (d Dispatch) Fragments() []model.TextFragment {
	var out []model.TextFragment
	for _, r := range d.Results {
		out = append(out, r.Fragments...)
	}
	return out
}

// Errors returns the failures of all engines, in configured order.
func (d Dispatch) Errors() []error {
	var errs []error
	for _, r := range d.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Ran returns how many engines were actually invoked.
func (d Dispatch) Ran() int {
	n := 0
	for _, r := range d.Results {
		if !r.Skipped {
			n++
		}
	}
	return n
}

// Dispatcher runs engines in parallel on a worker pool sized to the number
// of engines, with an independent timeout per engine and a single barrier.
type Dispatcher struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewDispatcher returns a Dispatcher. A timeout <= 0 leaves engine calls
// bounded only by the caller's context. A nil logger discards output.
func NewDispatcher(timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{timeout: timeout, logger: logger}
}

// Dispatch runs every engine over img and waits for all of them to finish,
// fail or time out. It never returns an error: each engine's failure is
// recorded in its own EngineResult.
func (d *Dispatcher) Dispatch(ctx context.Context, img image.Image, engines []Recognizer) Dispatch {
	out := Dispatch{
		Results:     make([]EngineResult, len(engines)),
		Performance: make(map[string]int, len(engines)),
	}

	var runnable []int
	for i, e := range engines {
		out.Results[i].Engine = e.Name()
		if av, ok := e.(Availability); ok {
			if err := available(av); err != nil {
				out.Results[i].Skipped = true
				out.Results[i].Err = model.NewStageError(model.ErrEngineFailed, e.Name(), fmt.Errorf("%w: %v", ErrUnavailable, err))
				d.logger.Warn("engine unavailable, skipping", zap.String("engine", e.Name()), zap.Error(err))
				continue
			}
		}
		runnable = append(runnable, i)
	}

	if len(runnable) > 0 {
		d.runAll(ctx, img, engines, runnable, out.Results)
	}

	for _, r := range out.Results {
		out.Performance[r.Engine] = len(r.Fragments)
	}
	return out
}

// available reports av's availability, treating a panic as unavailable.
func available(av Availability) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.PanicError(r)
		}
	}()
	return av.Available()
}

func (d *Dispatcher) runAll(ctx context.Context, img image.Image, engines []Recognizer, runnable []int, results []EngineResult) {
	var wg sync.WaitGroup

	pool, err := ants.NewPool(len(runnable))
	if err != nil {
		// Without a pool every engine still gets its own goroutine
		d.logger.Warn("failed to create engine worker pool", zap.Error(err))
		for _, idx := range runnable {
			idx := idx
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[idx] = d.runOne(ctx, engines[idx], img)
			}()
		}
		wg.Wait()
		return
	}
	defer pool.Release()

	for _, idx := range runnable {
		idx := idx
		wg.Add(1)
		e := engines[idx]
		err := pool.Submit(func() {
			defer wg.Done()
			results[idx] = d.runOne(ctx, e, img)
		})
		if err != nil {
			wg.Done()
			results[idx] = EngineResult{
				Engine: e.Name(),
				Err:    model.NewStageError(model.ErrEngineFailed, e.Name(), fmt.Errorf("submit engine task: %w", err)),
			}
		}
	}
	wg.Wait()
}

type outcome struct {
	fragments []model.TextFragment
	err       error
}

// runOne invokes a single engine. The call itself runs on its own goroutine
// so an engine that ignores ctx cannot keep the barrier waiting past its
// timeout.
func (d *Dispatcher) runOne(ctx context.Context, e Recognizer, img image.Image) EngineResult {
	name := e.Name()
	start := time.Now()
	res := EngineResult{Engine: name}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: model.PanicError(r)}
			}
		}()
		frags, err := e.Recognize(ctx, img)
		done <- outcome{fragments: frags, err: err}
	}()

	d.logger.Debug("engine started", zap.String("engine", name))

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o = outcome{err: fmt.Errorf("engine did not finish: %w", ctx.Err())}
	}
	res.Elapsed = time.Since(start)

	if o.err != nil {
		res.Err = model.NewStageError(model.ErrEngineFailed, name, o.err)
		d.logger.Warn("engine failed",
			zap.String("engine", name),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(o.err))
		return res
	}

	res.Fragments = make([]model.TextFragment, 0, len(o.fragments))
	for _, f := range o.fragments {
		if nf, ok := f.Normalize(name); ok {
			res.Fragments = append(res.Fragments, nf)
		}
	}
	d.logger.Info("engine finished",
		zap.String("engine", name),
		zap.Int("fragments", len(res.Fragments)),
		zap.Int("dropped", len(o.fragments)-len(res.Fragments)),
		zap.Duration("elapsed", res.Elapsed))
	return res
}
