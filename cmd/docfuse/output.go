package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tsawler/docfuse/hocr"
	"github.com/tsawler/docfuse/model"
)

func writeOutputs(res *model.Result, fl *flags, stdout io.Writer) error {
	if fl.json != "" {
		if err := writeTo(fl.json, stdout, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}
	if fl.hocr != "" {
		if err := writeTo(fl.hocr, stdout, func(w io.Writer) error {
			return hocr.Render(w, res)
		}); err != nil {
			return fmt.Errorf("hocr: %w", err)
		}
	}
	if fl.tablesDir != "" {
		if err := writeTables(fl.tablesDir, res.Tables); err != nil {
			return err
		}
	}
	if fl.iconsDir != "" {
		if err := writeIcons(fl.iconsDir, res.Icons); err != nil {
			return err
		}
	}
	return nil
}

// writeTo writes to stdout for "-" and to a new file otherwise
func writeTo(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTables(dir string, tables []model.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range tables {
		name := filepath.Join(dir, fmt.Sprintf("table_%d.csv", i+1))
		if err := os.WriteFile(name, []byte(tables[i].ToCSV()), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writeIcons(dir string, icons []model.Icon) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, ic := range icons {
		if len(ic.RawPixels) == 0 {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("%s_%d.png", ic.Type, i+1))
		if err := os.WriteFile(name, ic.RawPixels, 0o644); err != nil {
			return err
		}
	}
	return nil
}
