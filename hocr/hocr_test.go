package hocr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tsawler/docfuse/model"
)

func word(text string, x0, y0, x1, y1, conf float64) model.TextFragment {
	return model.TextFragment{Text: text, Confidence: conf, BBox: model.RectQuad(x0, y0, x1, y1), Engine: "tesseract", Page: 1}
}

func sampleResult() *model.Result {
	frags := []model.TextFragment{
		word("Net", 10, 10, 40, 22, 0.91),
		word("Weight", 45, 10, 100, 22, 0.876),
		word("<500g>", 300, 300, 360, 312, 0.5),
	}
	return &model.Result{
		Fragments: frags,
		Layout: model.Layout{
			Regions: []model.LayoutBlock{{
				Type: "text",
				BBox: model.UnionBBox(frags[:2]),
				Text: "Net Weight",
			}},
		},
		PreprocessingInfo: model.PreprocessingInfo{FinalSize: model.Size{Width: 400, Height: 320}},
	}
}

// collect returns every element whose class attribute equals class
func collect(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && attr(n, "class") == class {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "&lt;500g&gt;")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	pages := collect(doc, "ocr_page")
	require.Len(t, pages, 1)
	assert.Equal(t, "bbox 0 0 400 320; ppageno 0", attr(pages[0], "title"))

	areas := collect(doc, "ocr_carea")
	require.Len(t, areas, 2)
	assert.Equal(t, "bbox 10 10 100 22", attr(areas[0], "title"))

	words := collect(doc, "ocrx_word")
	require.Len(t, words, 3)
	assert.Equal(t, "bbox 10 10 40 22; x_wconf 91", attr(words[0], "title"))
	assert.Equal(t, "bbox 45 10 100 22; x_wconf 88", attr(words[1], "title"))
	assert.Equal(t, "Weight", words[1].FirstChild.Data)
	assert.Equal(t, "tesseract", attr(words[0], "data-engine"))

	lines := collect(areas[1], "ocr_line")
	require.Len(t, lines, 1)
}

func TestRenderSplitsLines(t *testing.T) {
	frags := []model.TextFragment{
		word("Sodium", 10, 10, 60, 20, 0.9),
		word("5mg", 70, 11, 100, 21, 0.9),
		word("Sugars", 10, 40, 60, 50, 0.8),
	}
	res := &model.Result{
		Fragments: frags,
		Layout: model.Layout{Regions: []model.LayoutBlock{{
			Type: "text",
			BBox: model.UnionBBox(frags),
		}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	require.Len(t, collect(doc, "ocr_carea"), 1)
	lines := collect(doc, "ocr_line")
	require.Len(t, lines, 2)
	assert.Equal(t, "bbox 10 10 100 21", attr(lines[0], "title"))
	assert.Len(t, collect(lines[0], "ocrx_word"), 2)
	assert.Equal(t, "Sugars", collect(lines[1], "ocrx_word")[0].FirstChild.Data)
}

func TestRenderEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &model.Result{}))
	doc, err := html.Parse(&buf)
	require.NoError(t, err)
	assert.Len(t, collect(doc, "ocr_page"), 1)
	assert.Empty(t, collect(doc, "ocr_carea"))
}

func TestRenderNil(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, nil))
}
