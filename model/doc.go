// Package model defines the data exchanged between the stages of the
// analysis pipeline and returned to callers.
//
// # Fragments
//
// Every recognition engine reports [TextFragment] values: a text span, a
// confidence in [0,1], a four-point [Quad] in pixel coordinates and the name
// of the engine that produced it. Fragments are immutable once dispatched;
// later stages only keep, drop or group them.
//
// # Results
//
// A [Result] carries the fused fragments together with the structures
// derived from them:
//
//   - [Table] - rows of cell text reconstructed from aligned fragments
//   - [Icon] - stamps, logos and icons found outside the text
//   - [Layout] - proximity blocks of fragments
//   - [Review] - low-confidence fragments with correction suggestions
//
// # Preprocessing
//
// [DocumentType] selects a [Profile], the bundle of image transforms applied
// before recognition. [PreprocessingInfo] records what was actually done.
//
// # Failures
//
// Recovered failures are wrapped in [StageError] with one of the Err* kinds
// and surface in the result as [Warning] values.
package model
