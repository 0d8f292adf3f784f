package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// LoadCatalog reads a JSON product catalog (an array of ProductMetadata
// objects) into a Static provider. Entries without a SKU are rejected;
// duplicate SKUs keep the last entry.
func LoadCatalog(path string) (Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var items []planogram.ProductMetadata
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	s := make(Static, len(items))
	for i, m := range items {
		if m.SKU == "" {
			return nil, fmt.Errorf("catalog %s: entry %d has no sku", path, i)
		}
		s[m.SKU] = m
	}
	return s, nil
}
