package model

import (
	"errors"
	"fmt"
)

// Failure kinds. Every recovered failure in the pipeline wraps exactly one.
var (
	ErrEngineFailed         = errors.New("engine failed")
	ErrPreprocessStepFailed = errors.New("preprocess step failed")
	ErrEnrichmentFailed     = errors.New("enrichment failed")
	ErrNoEnginesAvailable   = errors.New("no engines available")
)

// StageError attributes a failure to a pipeline stage (an engine name, a
// preprocessing step or an enrichment) and classifies it with a Kind.
type StageError struct {
	Kind  error
	Stage string
	Err   error
}

// NewStageError wraps err for stage under kind
func NewStageError(kind error, stage string, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

// Is matches the failure kind
func (e *StageError) Is(target error) bool {
	return e.Kind == target
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// PanicError converts a recovered panic value into an error
func PanicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

// Warning is the serializable record of a recovered failure
type Warning struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// WarningFrom builds a Warning from any error, using StageError details when present
func WarningFrom(err error) Warning {
	var se *StageError
	if errors.As(err, &se) {
		w := Warning{Stage: se.Stage, Message: err.Error()}
		if se.Kind != nil {
			w.Kind = se.Kind.Error()
		}
		return w
	}
	return Warning{Message: err.Error()}
}
