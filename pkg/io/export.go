package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// WriteConfig encodes cfg to w as indented JSON. The output round-trips
// through ReadConfig.
func WriteConfig(w io.Writer, cfg planogram.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportConfig writes cfg to the file at path, creating or truncating
// it. Use "-" to write to stdout.
func ExportConfig(path string, cfg planogram.Config) error {
	if path == "-" {
		return WriteConfig(os.Stdout, cfg)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteConfig(f, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteJSON encodes any engine output value (snapshots, render
// instances, validation results) to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
