package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shelfwise/planogram/pkg/planogram"
)

const sampleDoc = `{
  "id": "aisle-3",
  "name": "Aisle 3",
  "createdAt": "2026-08-01T12:00:00Z",
  "updatedAt": "2026-08-01T12:00:00Z",
  "fixture": {
    "type": "gondola",
    "placementModelId": "shelf-surface",
    "dimensions": {"width": 1200, "height": 1800, "depth": 500},
    "shelves": [
      {"id": "s0", "index": 0, "baseHeight": 200},
      {"id": "s1", "index": 1, "baseHeight": 650}
    ]
  },
  "products": [
    {
      "id": "p1",
      "sku": "COLA-330",
      "placement": {
        "position": {"model": "shelf-surface", "shelf": {"x": 40, "shelfIndex": 0, "depth": 0}},
        "facings": {"horizontal": 4, "vertical": 1}
      }
    }
  ]
}`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ID != "aisle-3" || len(cfg.Products) != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}
	p := cfg.Products[0]
	if p.Placement.Position.Model != planogram.ModelShelfSurface || p.Placement.Position.Shelf.X != 40 {
		t.Errorf("position = %+v", p.Placement.Position)
	}
	if p.Placement.Facings.Horizontal != 4 {
		t.Errorf("facings = %+v", p.Placement.Facings)
	}
}

func TestReadConfigRejectsMalformedJSON(t *testing.T) {
	if _, err := ReadConfig(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestReadConfigReportsAllShapeViolations(t *testing.T) {
	// Strip the name and break the fixture width; both must be reported.
	doc := strings.Replace(sampleDoc, `"name": "Aisle 3",`, "", 1)
	doc = strings.Replace(doc, `"width": 1200`, `"width": 0`, 1)

	_, err := ReadConfig(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected shape violations")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name") {
		t.Errorf("missing-name violation not reported: %s", msg)
	}
	if !strings.Contains(msg, "dimensions") {
		t.Errorf("dimensions violation not reported: %s", msg)
	}
}

func TestWriteConfigRoundTrips(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteConfig(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := ReadConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Fixture, cfg.Fixture) || !reflect.DeepEqual(back.Products, cfg.Products) {
		t.Fatal("write/read round trip lost data")
	}
}

func TestImportExportFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ImportConfig(in)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UpdatedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("updatedAt = %v", cfg.UpdatedAt)
	}

	out := filepath.Join(dir, "out.json")
	if err := ExportConfig(out, cfg); err != nil {
		t.Fatal(err)
	}
	again, err := ImportConfig(out)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != cfg.ID || len(again.Products) != len(cfg.Products) {
		t.Fatalf("export/import mismatch: %+v", again)
	}
}

func TestImportConfigWrapsPath(t *testing.T) {
	_, err := ImportConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "absent.json") {
		t.Errorf("path not in error: %v", err)
	}
}
