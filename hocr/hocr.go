// Package hocr writes analysis results as hOCR 1.2 documents.
//
// The page holds one ocr_carea per layout region. Words inside an area are
// split into ocr_line spans by baseline. Fragments that fall outside every
// region are collected into a trailing area.
package hocr

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docfuse/layout"
	"github.com/tsawler/docfuse/model"
)

// Capabilities lists the hOCR classes this package emits
const Capabilities = "ocr_page ocr_carea ocr_line ocrx_word"

// Render writes res as an hOCR document to w.
func Render(w io.Writer, res *model.Result) error {
	if res == nil {
		return fmt.Errorf("hocr: nil result")
	}
	doc := Build(res)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("hocr: render: %w", err)
	}
	return nil
}

// Build returns the hOCR document tree for res.
func Build(res *model.Result) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, html.Attribute{Key: "lang", Val: "en"})
	doc.AppendChild(root)
	root.AppendChild(head())

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(page(res))
	return doc
}

func head() *html.Node {
	h := element(atom.Head)
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: "docfuse"})
	h.AppendChild(title)
	h.AppendChild(element(atom.Meta,
		html.Attribute{Key: "http-equiv", Val: "Content-Type"},
		html.Attribute{Key: "content", Val: "text/html; charset=utf-8"}))
	h.AppendChild(meta("ocr-system", "docfuse"))
	h.AppendChild(meta("ocr-capabilities", Capabilities))
	h.AppendChild(meta("ocr-number-of-pages", "1"))
	return h
}

func page(res *model.Result) *html.Node {
	size := res.PreprocessingInfo.FinalSize
	p := element(atom.Div,
		html.Attribute{Key: "class", Val: "ocr_page"},
		html.Attribute{Key: "id", Val: "page_1"},
		html.Attribute{Key: "title", Val: fmt.Sprintf("bbox 0 0 %d %d; ppageno 0", size.Width, size.Height)})

	groups, rest := assign(res.Layout.Regions, res.Fragments)
	n := 0
	for i, region := range res.Layout.Regions {
		if len(groups[i]) == 0 {
			continue
		}
		n++
		p.AppendChild(area(n, region.BBox, groups[i]))
	}
	if len(rest) > 0 {
		n++
		p.AppendChild(area(n, model.UnionBBox(rest), rest))
	}
	return p
}

// assign places every fragment in the first region whose box contains its
// center.
func assign(regions []model.LayoutBlock, frags []model.TextFragment) ([][]model.TextFragment, []model.TextFragment) {
	groups := make([][]model.TextFragment, len(regions))
	var rest []model.TextFragment
	for _, f := range frags {
		c := f.Center()
		placed := false
		for i, r := range regions {
			if r.BBox.Bounds().Contains(c) {
				groups[i] = append(groups[i], f)
				placed = true
				break
			}
		}
		if !placed {
			rest = append(rest, f)
		}
	}
	return groups, rest
}

func area(n int, box model.Quad, words []model.TextFragment) *html.Node {
	a := element(atom.Div,
		html.Attribute{Key: "class", Val: "ocr_carea"},
		html.Attribute{Key: "id", Val: fmt.Sprintf("block_1_%d", n)},
		html.Attribute{Key: "title", Val: bboxTitle(box)})

	seq := 0
	for j, ln := range layout.NewLineDetector().Detect(words) {
		line := element(atom.Span,
			html.Attribute{Key: "class", Val: "ocr_line"},
			html.Attribute{Key: "id", Val: fmt.Sprintf("line_1_%d_%d", n, j+1)},
			html.Attribute{Key: "title", Val: bboxTitle(ln.BBox)})
		a.AppendChild(line)

		for i, f := range ln.Fragments {
			if i > 0 {
				line.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
			}
			seq++
			word := element(atom.Span,
				html.Attribute{Key: "class", Val: "ocrx_word"},
				html.Attribute{Key: "id", Val: fmt.Sprintf("word_1_%d_%d", n, seq)},
				html.Attribute{Key: "title", Val: bboxTitle(f.BBox) + "; x_wconf " + strconv.Itoa(wconf(f.Confidence))},
				html.Attribute{Key: "data-engine", Val: f.Engine})
			word.AppendChild(&html.Node{Type: html.TextNode, Data: f.Text})
			line.AppendChild(word)
		}
	}
	return a
}

func bboxTitle(q model.Quad) string {
	return fmt.Sprintf("bbox %d %d %d %d",
		int(math.Floor(q.MinX())), int(math.Floor(q.MinY())),
		int(math.Ceil(q.MaxX())), int(math.Ceil(q.MaxY())))
}

// wconf converts a 0-1 confidence to the 0-100 hOCR scale
func wconf(c float64) int {
	return int(math.Round(model.ClampConfidence(c) * 100))
}

func meta(name, content string) *html.Node {
	return element(atom.Meta,
		html.Attribute{Key: "name", Val: name},
		html.Attribute{Key: "content", Val: content})
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}
