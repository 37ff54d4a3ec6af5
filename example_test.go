package docfuse_test

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/tsawler/docfuse"
	"github.com/tsawler/docfuse/engine"
	"github.com/tsawler/docfuse/engine/tesseract"
	"github.com/tsawler/docfuse/model"
)

// These examples show typical use of the package. They are compiled but
// not run since real engines need native libraries or credentials.

func Example_process() {
	tess, err := tesseract.New(tesseract.Config{Languages: []string{"eng"}})
	if err != nil {
		log.Fatal(err)
	}
	reg, err := engine.NewRegistry(tess)
	if err != nil {
		log.Fatal(err)
	}

	p, err := docfuse.New(reg)
	if err != nil {
		log.Fatal(err)
	}

	var img image.Image // decoded page
	res, err := p.Process(context.Background(), img, model.DocumentAuto)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range res.Fragments {
		fmt.Printf("%s (%.2f)\n", f.Text, f.Confidence)
	}
	for _, w := range res.Warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_customEngine() {
	// Any function returning positioned fragments can act as an engine
	fixed := engine.Func{
		EngineName: "barcode",
		Fn: func(ctx context.Context, img image.Image) ([]model.TextFragment, error) {
			return []model.TextFragment{{
				Text:       "4006381333931",
				Confidence: 0.99,
				BBox:       model.RectQuad(10, 10, 120, 40),
			}}, nil
		},
	}
	reg, err := engine.NewRegistry(fixed)
	if err != nil {
		log.Fatal(err)
	}
	p, err := docfuse.New(reg)
	if err != nil {
		log.Fatal(err)
	}
	res, err := p.Process(context.Background(), image.NewGray(image.Rect(0, 0, 200, 100)), model.DocumentGeneral)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.EnginePerformance["barcode"])
}

func Example_options() {
	p, err := docfuse.New(nil,
		docfuse.WithConfidenceThreshold(0.5),
		docfuse.WithEngineTimeout(10*time.Second),
		docfuse.WithProfile(model.DocumentNutrition, model.Profile{
			Upscale:      2,
			Denoise:      model.DenoiseLight,
			Contrast:     model.ContrastBalanced,
			Binarization: model.BinarizeOtsu,
			Morphology:   model.MorphologyTextSharpening,
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p.Config().ConfidenceThreshold)
}

func Example_tables() {
	var res *model.Result // from Processor.Process
	for i, t := range res.Tables {
		fmt.Printf("Table %d (%dx%d):\n", i+1, t.RowCount(), t.ColCount())
		fmt.Println(t.ToMarkdown())
	}
}

func Example_review() {
	var res *model.Result // from Processor.Process
	s := res.Review.Summary
	fmt.Printf("%d of %d fragments need review\n", s.LowConfidence, s.Total)
	for _, item := range res.Review.Items {
		fmt.Printf("%q -> %v\n", item.Fragment.Text, item.Suggestions)
	}
}
