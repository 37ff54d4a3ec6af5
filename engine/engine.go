// Package engine defines the text recognition engine contract and runs a set
// of engines concurrently over one image.
//
// Engines are external collaborators: anything that turns an image into
// positioned text fragments can be plugged in by implementing [Recognizer].
// The [Dispatcher] isolates every engine from the others, so one engine that
// fails, panics or hangs only loses its own contribution.
package engine

import (
	"context"
	"image"

	"github.com/tsawler/docfuse/model"
)

// Recognizer is a text recognition engine.
//
// Recognize must be safe to call concurrently with other recognizers on the
// same image and must not modify the image. It should honor ctx; the
// dispatcher stops waiting for it once the engine timeout expires either way.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) ([]model.TextFragment, error)
}

// Availability is implemented by recognizers that depend on something that
// may be missing at runtime, such as a native library or credentials.
// Engines reporting an error are skipped.
type Availability interface {
	Available() error
}

// Func adapts a function to the Recognizer interface.
type Func struct {
	EngineName string
	Fn         func(ctx context.Context, img image.Image) ([]model.TextFragment, error)
}

// Name returns the engine name.
func (f Func) Name() string { return f.EngineName }

// Recognize calls f.Fn.
func (f Func) Recognize(ctx context.Context, img image.Image) ([]model.TextFragment, error) {
	return f.Fn(ctx, img)
}
