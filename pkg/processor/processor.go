package processor

import (
	"errors"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shelfwise/planogram/pkg/placement"
	"github.com/shelfwise/planogram/pkg/planogram"
)

// ErrNoPlacementModel is returned when the registry cannot resolve any
// model, not even the shelf-surface fallback. This is a programmer
// fault in registry setup, never a data condition.
var ErrNoPlacementModel = errors.New("no placement model resolvable")

// Meta summarizes one processing pass.
type Meta struct {
	TotalInstances int              `json:"totalInstances"`
	ValidInstances int              `json:"validInstances"`
	InvalidCount   int              `json:"invalidCount"`
	ProcessingTime time.Duration    `json:"processingTime"`
	Errors         []planogram.Issue `json:"errors,omitempty"`
}

// Result is the output of Process: z-sorted instances plus metadata
// about the pass.
type Result struct {
	Instances []RenderInstance `json:"instances"`
	Meta      Meta             `json:"meta"`
}

// Processor expands configurations into render instances. It holds no
// per-call state; one Processor can serve any number of concurrent
// Process calls.
type Processor struct {
	registry *placement.Registry
	logger   *log.Logger
}

// New creates a processor using the given registry. A nil logger falls
// back to log.Default().
func New(registry *placement.Registry, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{registry: registry, logger: logger}
}

// Process expands every product in the configuration into per-facing
// render instances and stable-sorts them ascending by z-index.
//
// Failures are isolated per product: a SKU with no metadata or a
// position the placement model rejects records an issue in Meta.Errors
// and skips that product; the rest of the configuration still renders.
// The only hard error is an unresolvable placement model
// (ErrNoPlacementModel).
func (p *Processor) Process(cfg planogram.Config, metadata map[string]planogram.ProductMetadata) (Result, error) {
	start := time.Now()
	res := Result{Instances: make([]RenderInstance, 0, len(cfg.Products))}

	for _, product := range cfg.Products {
		meta, ok := metadata[product.SKU]
		if !ok {
			res.Meta.InvalidCount++
			res.Meta.Errors = append(res.Meta.Errors,
				planogram.Errorf(planogram.IssueMissingMetadata, product.ID,
					"no metadata for sku %q", product.SKU))
			continue
		}

		modelID := product.Placement.Position.Model
		if modelID == "" {
			modelID = planogram.PositionModel(cfg.Fixture.PlacementModelID)
		}
		model, ok := p.registry.Resolve(modelID)
		if !ok {
			return Result{}, ErrNoPlacementModel
		}

		instances, err := expand(product, meta, model, cfg.Fixture)
		if err != nil {
			res.Meta.InvalidCount++
			res.Meta.Errors = append(res.Meta.Errors,
				planogram.Errorf(planogram.IssueInvalidCoordinate, product.ID, "%s", err))
			p.logger.Debug("skipped product during expansion",
				"product", product.ID, "sku", product.SKU, "err", err)
			continue
		}
		res.Instances = append(res.Instances, instances...)
		res.Meta.ValidInstances += len(instances)
	}

	// Stable sort keeps same-z instances in product order, so repeated
	// runs over the same input yield identical instance ordering.
	sort.SliceStable(res.Instances, func(a, b int) bool {
		return res.Instances[a].ZIndex < res.Instances[b].ZIndex
	})

	res.Meta.TotalInstances = len(res.Instances)
	res.Meta.ProcessingTime = time.Since(start)
	return res, nil
}
