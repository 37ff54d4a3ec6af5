// Package docai provides a text recognition engine backed by Google Document AI.
//
// The engine sends the preprocessed page as a PNG to an OCR processor and
// reports one fragment per token (or per line, see Config.Level). Credentials
// come from Config.CredentialsFile, or GOOGLE_APPLICATION_CREDENTIALS when
// that is empty.
package docai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/tsawler/docfuse/model"
)

// Name is the engine tag carried by every fragment this package produces.
const Name = "docai"

// Level selects which Document AI page element becomes a fragment.
type Level string

// Supported levels.
const (
	LevelToken Level = "token"
	LevelLine  Level = "line"
)

// Config identifies the processor to call.
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	ProcessorID     string `yaml:"processor_id"`
	CredentialsFile string `yaml:"credentials_file"`
	Level           Level  `yaml:"level"`
}

// Validate reports missing processor coordinates.
func (c Config) Validate() error {
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("docai: project_id is required"))
	}
	if c.Location == "" {
		errs = append(errs, errors.New("docai: location is required"))
	}
	if c.ProcessorID == "" {
		errs = append(errs, errors.New("docai: processor_id is required"))
	}
	switch c.Level {
	case "", LevelToken, LevelLine:
	default:
		errs = append(errs, fmt.Errorf("docai: unknown level %q", c.Level))
	}
	return errors.Join(errs...)
}

// ResourceName returns the fully qualified processor name.
func (c Config) ResourceName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Endpoint returns the regional API endpoint.
func (c Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// Processor is the subset of the Document AI client the engine uses.
type Processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// Engine recognizes text with a Document AI OCR processor.
type Engine struct {
	cfg    Config
	client Processor
	opts   []gax.CallOption
}

// New dials the regional endpoint for cfg. Extra client options are appended
// after the endpoint and credentials.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds := cfg.CredentialsFile
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	clientOpts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if creds != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(creds))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Engine{cfg: cfg, client: client}, nil
}

// NewWithProcessor wraps an existing client. Call options are passed to every
// ProcessDocument call.
func NewWithProcessor(cfg Config, p Processor, opts ...gax.CallOption) *Engine {
	return &Engine{cfg: cfg, client: p, opts: opts}
}

// Name returns "docai".
func (e *Engine) Name() string { return Name }

// Available reports whether the engine holds a client.
func (e *Engine) Available() error {
	if e == nil || e.client == nil {
		return errors.New("docai: no client")
	}
	return nil
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

// Recognize sends img to the processor and converts the response.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]model.TextFragment, error) {
	if err := e.Available(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	req := &documentaipb.ProcessRequest{
		Name: e.cfg.ResourceName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  buf.Bytes(),
				MimeType: "image/png",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := e.client.ProcessDocument(ctx, req, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return FragmentsFromDocument(resp.GetDocument(), e.cfg.Level), nil
}

// FragmentsFromDocument converts the tokens (or lines) of every page into
// fragments in page-pixel coordinates. Elements without text or geometry are
// skipped.
func FragmentsFromDocument(doc *documentaipb.Document, level Level) []model.TextFragment {
	if doc == nil {
		return nil
	}
	var frags []model.TextFragment
	for _, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		if pageNum < 1 {
			pageNum = 1
		}
		var w, h float64
		if dim := page.GetDimension(); dim != nil {
			w, h = float64(dim.GetWidth()), float64(dim.GetHeight())
		}

		emit := func(layout *documentaipb.Document_Page_Layout, trimBreak bool) {
			text := textFromLayout(layout, doc.GetText())
			if trimBreak {
				text = strings.TrimRight(text, " \t\r\n")
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return
			}
			quad, ok := quadFromPoly(layout.GetBoundingPoly(), w, h)
			if !ok {
				return
			}
			frags = append(frags, model.TextFragment{
				Text:       text,
				Confidence: model.ClampConfidence(float64(layout.GetConfidence())),
				BBox:       quad,
				Engine:     Name,
				Page:       pageNum,
			})
		}

		if level == LevelLine {
			for _, line := range page.GetLines() {
				emit(line.GetLayout(), true)
			}
			continue
		}
		for _, token := range page.GetTokens() {
			br := token.GetDetectedBreak()
			emit(token.GetLayout(), br != nil && br.GetType() != documentaipb.Document_Page_Token_DetectedBreak_TYPE_UNSPECIFIED)
		}
	}
	return frags
}

// textFromLayout extracts text from a layout's text anchor segments.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.GetTextAnchor() == nil {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)
	var sb strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		start := int(seg.GetStartIndex())
		end := int(seg.GetEndIndex())
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

// quadFromPoly prefers absolute vertices and falls back to normalized
// vertices scaled by the page dimension.
func quadFromPoly(poly *documentaipb.BoundingPoly, w, h float64) (model.Quad, bool) {
	if poly == nil {
		return model.Quad{}, false
	}
	var q model.Quad
	if vs := poly.GetVertices(); len(vs) >= 4 {
		for i := 0; i < 4; i++ {
			q[i] = model.Point{X: float64(vs[i].GetX()), Y: float64(vs[i].GetY())}
		}
		return q, !q.IsDegenerate()
	}
	nvs := poly.GetNormalizedVertices()
	if len(nvs) < 4 || w <= 0 || h <= 0 {
		return model.Quad{}, false
	}
	for i := 0; i < 4; i++ {
		q[i] = model.Point{X: float64(nvs[i].GetX()) * w, Y: float64(nvs[i].GetY()) * h}
	}
	return q, !q.IsDegenerate()
}
