// docfuse analyzes a scanned document image with every configured text
// recognition engine and writes the fused result.
//
// Configuration:
//
// An optional YAML file selects engines and tunes the pipeline:
//
//	engines: [tesseract, docai]
//	docai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//
// Usage:
//
//	docfuse -image label.png [options]
//
// Options:
//
//	-config string      Path to the YAML configuration file
//	-type string        Document type: nutritionLabel, customsDocument, generalDocument (default: auto-detect)
//	-json string        Path to save the result as JSON ("-" for stdout)
//	-hocr string        Path to save the result as hOCR
//	-tables-dir string  Directory to save one CSV per detected table
//	-icons-dir string   Directory to save one PNG per detected mark
//	-log-level string   debug, info, warn or error (overrides the config file)
//
// When no output option is given the JSON result goes to stdout.
//
// Exit status is 0 on success, 1 on error and 2 when no engine could run.
//
// Authentication:
//
// The docai engine uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable unless docai.credentials_file is set.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
