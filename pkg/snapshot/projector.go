package snapshot

import (
	"time"

	"github.com/shelfwise/planogram/pkg/authority"
	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/processor"
)

// Projector turns a derived configuration plus resolved metadata into a
// full snapshot. It is pure: identical inputs produce snapshots with
// identical instances, validation, and indices.
type Projector struct {
	proc    *processor.Processor
	checker *authority.Checker
}

// NewProjector wires a projector from its two collaborators.
func NewProjector(proc *processor.Processor, checker *authority.Checker) *Projector {
	return &Projector{proc: proc, checker: checker}
}

// Project processes the configuration, re-validates every product
// placement for the display summary, and builds the snapshot indices.
// Per-product processing errors (missing metadata, broken coordinates)
// are copied into the validation result alongside the placement
// check findings, so one summary covers both failure sources.
func (p *Projector) Project(cfg planogram.Config, metadata map[string]planogram.ProductMetadata, sess SessionInfo) (*Snapshot, error) {
	res, err := p.proc.Process(cfg, metadata)
	if err != nil {
		return nil, err
	}

	var validation planogram.ValidationResult
	validation.Add(res.Meta.Errors...)
	for _, product := range cfg.Products {
		validation.Add(p.checker.CheckPlacement(cfg, metadata, product)...)
	}

	sess.Timestamp = time.Now().UTC()
	return &Snapshot{
		Config:     cfg,
		Instances:  res.Instances,
		Validation: validation,
		Index:      NewIndex(cfg.Fixture, res.Instances, metadata),
		Session:    sess,
	}, nil
}
