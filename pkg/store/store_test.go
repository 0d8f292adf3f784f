package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shelfwise/planogram/pkg/planogram"
)

func validConfig(id string) planogram.Config {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return planogram.Config{
		ID:        id,
		Name:      "Aisle " + id,
		CreatedAt: now,
		UpdatedAt: now,
		Fixture: planogram.FixtureConfig{
			Type:             "gondola",
			PlacementModelID: string(planogram.ModelShelfSurface),
			Dimensions:       planogram.Dimensions{Width: 1000, Height: 1800, Depth: 500},
			Shelves: []planogram.ShelfConfig{
				{ID: "s0", Index: 0, BaseHeight: 200},
			},
		},
		Products: []planogram.SourceProduct{
			{
				ID:  "p1",
				SKU: "COLA-330",
				Placement: planogram.Placement{
					Position: planogram.NewShelfPosition(100, 0, 0),
					Facings:  planogram.FacingConfig{Horizontal: 2, Vertical: 1},
				},
			},
		},
	}
}

// storeUnderTest runs the shared backend contract against any Store.
func storeUnderTest(t *testing.T, s Store) {
	ctx := context.Background()
	t.Cleanup(func() { s.Close() })

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.GetByID(ctx, "absent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("save and get", func(t *testing.T) {
		cfg := validConfig("a1")
		if err := s.Save(ctx, cfg); err != nil {
			t.Fatal(err)
		}
		got, err := s.GetByID(ctx, "a1")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != cfg.ID || got.Name != cfg.Name {
			t.Fatalf("identity mismatch: %+v", got)
		}
		if !got.UpdatedAt.Equal(cfg.UpdatedAt) {
			t.Errorf("updatedAt = %v, want %v", got.UpdatedAt, cfg.UpdatedAt)
		}
		if !reflect.DeepEqual(got.Fixture, cfg.Fixture) {
			t.Errorf("fixture mismatch: %+v", got.Fixture)
		}
		if !reflect.DeepEqual(got.Products, cfg.Products) {
			t.Errorf("products mismatch: %+v", got.Products)
		}
	})

	t.Run("save rejects malformed shape", func(t *testing.T) {
		bad := validConfig("bad")
		bad.Fixture.Dimensions.Width = 0
		if err := s.Save(ctx, bad); err == nil {
			t.Fatal("zero-width fixture must be refused")
		}
	})

	t.Run("upsert replaces", func(t *testing.T) {
		cfg := validConfig("a1")
		cfg.Name = "Renamed"
		if err := s.Save(ctx, cfg); err != nil {
			t.Fatal(err)
		}
		got, err := s.GetByID(ctx, "a1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Renamed" {
			t.Fatalf("name = %s", got.Name)
		}
	})

	t.Run("list", func(t *testing.T) {
		if err := s.Save(ctx, validConfig("a2")); err != nil {
			t.Fatal(err)
		}
		list, err := s.ListAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != "a1" || list[1].ID != "a2" {
			t.Fatalf("list = %+v, want a1 then a2", list)
		}
		if list[1].Products != 1 {
			t.Errorf("summary products = %d", list[1].Products)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "a2"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.GetByID(ctx, "a2"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound after delete", err)
		}
		// Deleting again is not an error.
		if err := s.Delete(ctx, "a2"); err != nil {
			t.Fatal(err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	storeUnderTest(t, s)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	cfg := validConfig("a1")
	if err := s.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	// Mutating the saved value must not reach the store.
	cfg.Products[0].Placement.Position.Shelf.X = 999
	got, err := s.GetByID(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Products[0].Placement.Position.Shelf.X != 100 {
		t.Fatal("store shares storage with the caller")
	}

	// Mutating the loaded value must not reach the store either.
	got.Products[0].ID = "hacked"
	again, _ := s.GetByID(ctx, "a1")
	if again.Products[0].ID != "p1" {
		t.Fatal("loaded config shares storage with the store")
	}
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"../escape", "a/b", "a\\b", ""} {
		cfg := validConfig("x")
		cfg.ID = id
		if err := s.Save(ctx, cfg); err == nil {
			t.Errorf("id %q accepted", id)
		}
		if _, err := s.GetByID(ctx, id); err == nil {
			t.Errorf("get with id %q accepted", id)
		}
	}
}

func TestFileStoreWritesOneFilePerPlanogram(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, validConfig("a1")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "a1.json")); err != nil {
		t.Fatalf("expected a1.json: %v", err)
	}
	// No leftover temp file.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("dir entries = %d, want 1", len(entries))
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, validConfig("a1")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "a1" {
		t.Fatalf("list = %+v", list)
	}
}
