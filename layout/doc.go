// Package layout groups fused text fragments into visual blocks.
//
// Scanned labels and forms are read in the order the recognizers report
// fragments, so blocks are built by proximity along that order rather than
// by a reading-order model.
//
// # Block Detection
//
// The [BlockDetector] walks fragments in their original order. A fragment
// joins the current block when the distance between its box center and the
// previous fragment's box center is below [BlockConfig.MaxDistance];
// otherwise a new block starts:
//
//	detector := layout.NewBlockDetector()
//	blocks := detector.Detect(fragments)
//
// # Layout Analysis
//
// The [Analyzer] turns blocks into the result layout: one "text" region per
// block with the union bbox, the space-joined text and the mean confidence.
//
//	analyzer := layout.NewAnalyzer()
//	result, err := analyzer.Analyze(fragments)
//
// # Line Detection
//
// The [LineDetector] splits fragments into lines by vertical center, using a
// tolerance proportional to the mean fragment height. Lines run top to bottom
// and their fragments left to right.
package layout
