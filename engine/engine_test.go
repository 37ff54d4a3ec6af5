package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tsawler/docfuse/model"
)

func fragments(n int) []model.TextFragment {
	out := make([]model.TextFragment, n)
	for i := range out {
		out[i] = model.TextFragment{
			Text:       fmt.Sprintf("word-%d", i),
			Confidence: 0.9,
			BBox:       model.RectQuad(float64(i*50), 10, float64(i*50+40), 30),
		}
	}
	return out
}

func static(name string, frags []model.TextFragment) Recognizer {
	return Func{EngineName: name, Fn: func(context.Context, image.Image) ([]model.TextFragment, error) {
		return frags, nil
	}}
}

func failing(name string, err error) Recognizer {
	return Func{EngineName: name, Fn: func(context.Context, image.Image) ([]model.TextFragment, error) {
		return nil, err
	}}
}

type unavailable struct{ Recognizer }

func (unavailable) Available() error { return errors.New("library not installed") }

type brokenAvailability struct{ Recognizer }

func (brokenAvailability) Available() error { panic("driver not loaded") }

var testImage = image.NewGray(image.Rect(0, 0, 10, 10))

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(static("a", nil), static("b", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())

	assert.Error(t, r.Register(static("a", nil)), "duplicate names are rejected")
	assert.Error(t, r.Register(static("", nil)))
	assert.Error(t, r.Register(nil))

	engines := r.Engines()
	engines[0] = nil
	assert.NotNil(t, r.Engines()[0], "Engines returns a copy")

	_, err = NewRegistry(static("x", nil), static("x", nil))
	assert.Error(t, err)

	var empty *Registry
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Engines())
}

func TestDispatchFailureIsolation(t *testing.T) {
	d := NewDispatcher(time.Second, zap.NewNop())
	res := d.Dispatch(context.Background(), testImage, []Recognizer{
		failing("A", errors.New("model crashed")),
		static("B", fragments(5)),
	})

	assert.Equal(t, map[string]int{"A": 0, "B": 5}, res.Performance)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "A", res.Results[0].Engine)
	assert.ErrorIs(t, res.Results[0].Err, model.ErrEngineFailed)
	assert.NoError(t, res.Results[1].Err)
	assert.Len(t, res.Fragments(), 5)
	assert.Len(t, res.Errors(), 1)
	assert.Equal(t, 2, res.Ran())
}

func TestDispatchTimeout(t *testing.T) {
	hung := Func{EngineName: "A", Fn: func(ctx context.Context, _ image.Image) ([]model.TextFragment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	d := NewDispatcher(50*time.Millisecond, nil)
	res := d.Dispatch(context.Background(), testImage, []Recognizer{hung, static("B", fragments(5))})

	assert.Equal(t, map[string]int{"A": 0, "B": 5}, res.Performance)
	assert.ErrorIs(t, res.Results[0].Err, model.ErrEngineFailed)
	assert.ErrorIs(t, res.Results[0].Err, context.DeadlineExceeded)
}

func TestDispatchDoesNotWaitForEngineIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	stubborn := Func{EngineName: "stubborn", Fn: func(context.Context, image.Image) ([]model.TextFragment, error) {
		<-release
		return fragments(3), nil
	}}

	d := NewDispatcher(50*time.Millisecond, nil)
	start := time.Now()
	res := d.Dispatch(context.Background(), testImage, []Recognizer{stubborn, static("B", fragments(2))})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, map[string]int{"stubborn": 0, "B": 2}, res.Performance)
}

func TestDispatchRecoversPanic(t *testing.T) {
	panicky := Func{EngineName: "panicky", Fn: func(context.Context, image.Image) ([]model.TextFragment, error) {
		panic("index out of range")
	}}
	d := NewDispatcher(time.Second, nil)
	res := d.Dispatch(context.Background(), testImage, []Recognizer{panicky, static("B", fragments(1))})

	assert.Equal(t, map[string]int{"panicky": 0, "B": 1}, res.Performance)
	require.Error(t, res.Results[0].Err)
	assert.Contains(t, res.Results[0].Err.Error(), "index out of range")
}

func TestDispatchSkipsUnavailable(t *testing.T) {
	var calls atomic.Int32
	counted := Func{EngineName: "tess", Fn: func(context.Context, image.Image) ([]model.TextFragment, error) {
		calls.Add(1)
		return fragments(4), nil
	}}
	d := NewDispatcher(time.Second, nil)
	res := d.Dispatch(context.Background(), testImage, []Recognizer{unavailable{counted}, static("B", fragments(2))})

	assert.Zero(t, calls.Load())
	assert.True(t, res.Results[0].Skipped)
	assert.ErrorIs(t, res.Results[0].Err, ErrUnavailable)
	assert.ErrorIs(t, res.Results[0].Err, model.ErrEngineFailed)
	assert.Equal(t, map[string]int{"tess": 0, "B": 2}, res.Performance)
	assert.Equal(t, 1, res.Ran())
}

func TestDispatchRecoversAvailabilityPanic(t *testing.T) {
	d := NewDispatcher(time.Second, nil)
	var res Dispatch
	require.NotPanics(t, func() {
		res = d.Dispatch(context.Background(), testImage, []Recognizer{
			brokenAvailability{static("broken", fragments(3))},
			static("B", fragments(2)),
		})
	})

	assert.True(t, res.Results[0].Skipped)
	assert.ErrorIs(t, res.Results[0].Err, model.ErrEngineFailed)
	assert.Contains(t, res.Results[0].Err.Error(), "driver not loaded")
	assert.Equal(t, map[string]int{"broken": 0, "B": 2}, res.Performance)
	assert.Equal(t, 1, res.Ran())
}

func TestDispatchNoEngines(t *testing.T) {
	res := NewDispatcher(time.Second, nil).Dispatch(context.Background(), testImage, nil)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Performance)
	assert.Empty(t, res.Fragments())
	assert.Zero(t, res.Ran())
}

func TestDispatchKeepsConfiguredOrder(t *testing.T) {
	slow := Func{EngineName: "slow", Fn: func(ctx context.Context, _ image.Image) ([]model.TextFragment, error) {
		time.Sleep(30 * time.Millisecond)
		return []model.TextFragment{{Text: "first", Confidence: 0.5, BBox: model.RectQuad(0, 0, 10, 10)}}, nil
	}}
	fast := static("fast", []model.TextFragment{{Text: "second", Confidence: 0.5, BBox: model.RectQuad(0, 0, 10, 10)}})

	d := NewDispatcher(time.Second, nil)
	for i := 0; i < 5; i++ {
		res := d.Dispatch(context.Background(), testImage, []Recognizer{slow, fast})
		frags := res.Fragments()
		require.Len(t, frags, 2)
		assert.Equal(t, "first", frags[0].Text)
		assert.Equal(t, "second", frags[1].Text)
	}
}

func TestDispatchNormalizesFragments(t *testing.T) {
	raw := []model.TextFragment{
		{Text: "ok", Confidence: 1.7, BBox: model.RectQuad(0, 0, 10, 10), Engine: "spoofed"},
		{Text: "   ", Confidence: 0.9, BBox: model.RectQuad(0, 0, 10, 10)},
		{Text: "flat", Confidence: 0.9, BBox: model.RectQuad(5, 5, 5, 9)},
		{Text: "neg", Confidence: -0.2, BBox: model.RectQuad(0, 0, 10, 10), Page: 3},
	}
	res := NewDispatcher(time.Second, nil).Dispatch(context.Background(), testImage, []Recognizer{static("e", raw)})

	frags := res.Fragments()
	require.Len(t, frags, 2)
	assert.Equal(t, "e", frags[0].Engine)
	assert.Equal(t, 1.0, frags[0].Confidence)
	assert.Equal(t, 1, frags[0].Page)
	assert.Equal(t, 0.0, frags[1].Confidence)
	assert.Equal(t, 3, frags[1].Page)
	assert.Equal(t, 2, res.Performance["e"])
}

func TestDispatchParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := Func{EngineName: "blocked", Fn: func(ctx context.Context, _ image.Image) ([]model.TextFragment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	res := NewDispatcher(0, nil).Dispatch(ctx, testImage, []Recognizer{blocked})
	assert.ErrorIs(t, res.Results[0].Err, context.Canceled)
}
