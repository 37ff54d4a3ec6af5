package model

import "image"

// IconType classifies a non-text mark
type IconType string

// Non-text mark classes
const (
	IconStamp IconType = "stamp"
	IconLogo  IconType = "logo"
	IconIcon  IconType = "icon"
)

// Icon is a non-text mark found outside every text fragment
type Icon struct {
	Type       IconType `json:"type"`
	BBox       Quad     `json:"bbox"`
	Confidence float64  `json:"confidence"`
	Engine     string   `json:"engine"`
	RawPixels  []byte   `json:"-"` // PNG-encoded crop
}

// LayoutBlock is a proximity cluster of fragments
type LayoutBlock struct {
	Type       string  `json:"type"`
	BBox       Quad    `json:"bbox"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Layout groups the layout blocks of one page
type Layout struct {
	Regions    []LayoutBlock `json:"regions"`
	Confidence float64       `json:"confidence"`
	Engine     string        `json:"engine"`
}

// Size is a width/height pair in pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeOf returns the dimensions of r
func SizeOf(r image.Rectangle) Size {
	return Size{Width: r.Dx(), Height: r.Dy()}
}

// PreprocessingInfo explains what the preprocessor did to the image
type PreprocessingInfo struct {
	DocumentType    DocumentType `json:"documentType"`
	AppliedSettings Profile      `json:"appliedSettings"`
	ProcessingSteps []string     `json:"processingSteps"`
	RotationAngle   float64      `json:"rotationAngle"`
	OriginalSize    Size         `json:"originalSize"`
	FinalSize       Size         `json:"finalSize"`
	Failures        []Warning    `json:"failures,omitempty"`
}

// Status tells the caller whether recognition ran at all
type Status string

// Result statuses
const (
	StatusOK                 Status = "ok"
	StatusNoEnginesAvailable Status = "noEnginesAvailable"
)

// ReviewSummary counts fragments by validation outcome
type ReviewSummary struct {
	Total         int `json:"totalItems"`
	Validated     int `json:"validatedCount"`
	LowConfidence int `json:"lowConfidenceCount"`
}

// ReviewItem is a low-confidence fragment offered for human confirmation
type ReviewItem struct {
	Fragment    TextFragment `json:"fragment"`
	Suggestions []string     `json:"suggestions"`
}

// Review is the human-confirmation view of a fusion outcome
type Review struct {
	Summary ReviewSummary `json:"summary"`
	Items   []ReviewItem  `json:"lowConfidenceItems"`
}

// Result is the terminal output of one analysis. It is not modified after
// it is returned.
type Result struct {
	Status                 Status            `json:"status"`
	Fragments              []TextFragment    `json:"text"`
	LowConfidenceFragments []TextFragment    `json:"lowConfidence"`
	Tables                 []Table           `json:"tables"`
	Icons                  []Icon            `json:"icons"`
	Layout                 Layout            `json:"layout"`
	PreprocessingInfo      PreprocessingInfo `json:"preprocessingInfo"`
	EnginePerformance      map[string]int    `json:"enginePerformance"`
	DocumentType           DocumentType      `json:"documentType"`
	Review                 Review            `json:"review"`
	Warnings               []Warning         `json:"warnings,omitempty"`

	// ProcessedImage is the preprocessed image the engines saw
	ProcessedImage image.Image `json:"-"`
}
