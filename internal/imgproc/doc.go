// Package imgproc implements the pixel-level primitives used by the
// preprocessing and region detection stages.
//
// Everything operates on 8-bit grayscale images whose bounds start at the
// origin; ToGray normalizes any image.Image into that form. Inputs are never
// modified in place.
//
// # Filters
//
//   - Thresholding: [Otsu], [Threshold], [AdaptiveThreshold]
//   - Contrast: [CLAHE]
//   - Smoothing and sharpening: [GaussianBlur], [Sharpen]
//   - Morphology: [Dilate], [Erode], [Close], [Open]
//   - Geometry: [Scale], [Rotate]
//
// # Measurements
//
//   - [CannyEdges], [LaplacianVariance], [MeanStdDev]
//   - [HoughLines] for dominant line detection
//   - [Components] for 8-connected blob extraction
package imgproc
