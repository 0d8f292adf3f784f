// Package io reads and writes planogram configurations and engine
// output as JSON. It is the file boundary of the CLI: everything that
// crosses it is validated against the shape contract on the way in.
package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// ReadConfig decodes a planogram configuration from r.
//
// The input must be a JSON object in the canonical document form, e.g.:
//
//	{
//	  "id": "aisle-3",
//	  "fixture": {"type": "gondola", "dimensions": {...}, "shelves": [...]},
//	  "products": [{"id": "p1", "sku": "COLA-330", "placement": {...}}]
//	}
//
// After decoding, the configuration is checked against the structural
// shape contract (duplicate ids, dangling shelf references, negative
// dimensions). All violations are joined into one error so a broken
// file reports every problem at once.
//
// The returned Config is independent of r. ReadConfig does not close r.
func ReadConfig(r io.Reader) (planogram.Config, error) {
	var cfg planogram.Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return planogram.Config{}, fmt.Errorf("decode: %w", err)
	}
	if errs := planogram.ValidateShape(cfg); len(errs) > 0 {
		return planogram.Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// ImportConfig reads the JSON file at path and returns the decoded
// configuration. Errors wrap the underlying cause with the file path.
func ImportConfig(path string) (planogram.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return planogram.Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := ReadConfig(f)
	if err != nil {
		return planogram.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
