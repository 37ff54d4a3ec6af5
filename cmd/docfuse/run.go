package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	// Registered input formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"github.com/tsawler/docfuse"
	"github.com/tsawler/docfuse/config"
	"github.com/tsawler/docfuse/log"
	"github.com/tsawler/docfuse/model"
)

// Exit codes
const (
	exitOK       = 0
	exitError    = 1
	exitNoEngine = 2
)

type flags struct {
	image     string
	config    string
	docType   string
	json      string
	hocr      string
	tablesDir string
	iconsDir  string
	logLevel  string
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("docfuse", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &flags{}
	fs.StringVar(&f.image, "image", "", "Path to the input image (required)")
	fs.StringVar(&f.config, "config", "", "Path to the config YAML file")
	fs.StringVar(&f.docType, "type", "", "Document type: nutritionLabel, customsDocument or generalDocument (default: auto-detect)")
	fs.StringVar(&f.json, "json", "", "Path to save the result as JSON (\"-\" for stdout)")
	fs.StringVar(&f.hocr, "hocr", "", "Path to save the result as hOCR")
	fs.StringVar(&f.tablesDir, "tables-dir", "", "Directory to save one CSV per detected table")
	fs.StringVar(&f.iconsDir, "icons-dir", "", "Directory to save one PNG per detected mark")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.image == "" {
		fmt.Fprintln(stderr, "Error: -image flag is required")
		fmt.Fprintln(stderr, "Usage:")
		fs.PrintDefaults()
		return nil, fmt.Errorf("missing -image")
	}
	if f.json == "" && f.hocr == "" && f.tablesDir == "" && f.iconsDir == "" {
		f.json = "-"
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fl, err := parseFlags(args, stderr)
	if err != nil {
		return exitError
	}

	cfg := config.Default()
	if fl.config != "" {
		if cfg, err = config.Load(fl.config); err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return exitError
		}
	}
	level := cfg.LogLevel
	if fl.logLevel != "" {
		level = fl.logLevel
	}
	logger := log.NewWithWriter(level, stderr)
	defer func() { _ = logger.Sync() }()

	docType, err := model.ParseDocumentType(fl.docType)
	if err != nil {
		logger.Error("invalid -type", zap.Error(err))
		return exitError
	}

	img, format, err := decodeImage(fl.image)
	if err != nil {
		logger.Error("failed to read image", zap.String("path", fl.image), zap.Error(err))
		return exitError
	}
	logger.Debug("image decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	registry, closeEngines := buildRegistry(ctx, cfg, logger)
	defer closeEngines()

	p, err := docfuse.New(registry, docfuse.WithConfig(cfg.Pipeline), docfuse.WithLogger(logger))
	if err != nil {
		logger.Error("invalid pipeline configuration", zap.Error(err))
		return exitError
	}

	res, err := p.Process(ctx, img, docType)
	if err != nil {
		logger.Error("processing failed", zap.Error(err))
		return exitError
	}

	if err := writeOutputs(res, fl, stdout); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		return exitError
	}
	if res.Status == model.StatusNoEnginesAvailable {
		return exitNoEngine
	}
	return exitOK
}

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}
