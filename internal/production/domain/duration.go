package domain

import (
	"errors"
	"fmt"
)

var ErrNegativeDuration = errors.New("stage durations must be non-negative")

// StageDurations holds the per-unit minute cost of each production stage for
// one garment type (or one garment size). Contingency is a flat buffer added
// per unit.
type StageDurations struct {
	Printing       float64
	Cutting        float64
	Pressing       float64
	QualityControl float64
	Contingency    float64
}

// NewStageDurations validates and builds a per-unit duration record.
func NewStageDurations(printing, cutting, pressing, qc, contingency float64) (StageDurations, error) {
	d := StageDurations{
		Printing:       printing,
		Cutting:        cutting,
		Pressing:       pressing,
		QualityControl: qc,
		Contingency:    contingency,
	}
	if printing < 0 || cutting < 0 || pressing < 0 || qc < 0 || contingency < 0 {
		return StageDurations{}, ErrNegativeDuration
	}
	return d, nil
}

// PerUnit returns the total minutes one unit spends across all stages.
func (d StageDurations) PerUnit() float64 {
	return d.Printing + d.Cutting + d.Pressing + d.QualityControl + d.Contingency
}

// IsZero reports whether no stage carries any time.
func (d StageDurations) IsZero() bool {
	return d.PerUnit() == 0
}

// ForStage returns the minutes this record assigns to a production stage.
// The design stage has no per-unit cost and returns 0.
func (d StageDurations) ForStage(stage Stage) float64 {
	switch stage {
	case StagePrinting:
		return d.Printing
	case StageCutting:
		return d.Cutting
	case StagePressing:
		return d.Pressing
	case StageQualityControl:
		return d.QualityControl
	}
	return 0
}

// DurationTable is the configured lookup of per-garment (and optionally
// per-size) stage durations. It is owned by the settings configuration and
// read-only to the estimation engine.
type DurationTable struct {
	garments map[GarmentType]StageDurations
	sizes    map[GarmentType]map[Size]StageDurations
}

// NewDurationTable builds a table from garment-level durations.
func NewDurationTable(garments map[GarmentType]StageDurations) *DurationTable {
	t := &DurationTable{
		garments: make(map[GarmentType]StageDurations, len(garments)),
		sizes:    make(map[GarmentType]map[Size]StageDurations),
	}
	for g, d := range garments {
		t.garments[g] = d
	}
	return t
}

// SetGarment sets the garment-level durations for one garment type.
func (t *DurationTable) SetGarment(garment GarmentType, d StageDurations) error {
	if !garment.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownGarment, garment)
	}
	t.garments[garment] = d
	return nil
}

// SetSize sets a size-specific override for one garment type.
func (t *DurationTable) SetSize(garment GarmentType, size Size, d StageDurations) error {
	if !garment.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownGarment, garment)
	}
	if t.sizes[garment] == nil {
		t.sizes[garment] = make(map[Size]StageDurations)
	}
	t.sizes[garment][size] = d
	return nil
}

// DurationFor resolves durations for a garment and size. Size overrides win;
// otherwise the garment-level record applies; an unconfigured garment
// degrades to a zero record so order creation never fails on configuration
// gaps. The second return reports whether any configuration was found.
func (t *DurationTable) DurationFor(garment GarmentType, size Size) (StageDurations, bool) {
	if size != "" {
		if bySize, ok := t.sizes[garment]; ok {
			if d, ok := bySize[size]; ok {
				return d, true
			}
		}
	}
	if d, ok := t.garments[garment]; ok {
		return d, true
	}
	return StageDurations{}, false
}

// Garments returns a copy of the garment-level records.
func (t *DurationTable) Garments() map[GarmentType]StageDurations {
	out := make(map[GarmentType]StageDurations, len(t.garments))
	for g, d := range t.garments {
		out[g] = d
	}
	return out
}

// SizeOverrides returns a copy of the per-size overrides.
func (t *DurationTable) SizeOverrides() map[GarmentType]map[Size]StageDurations {
	out := make(map[GarmentType]map[Size]StageDurations, len(t.sizes))
	for g, bySize := range t.sizes {
		inner := make(map[Size]StageDurations, len(bySize))
		for s, d := range bySize {
			inner[s] = d
		}
		out[g] = inner
	}
	return out
}

// DefaultDurationTable returns the shop's measured per-unit stage durations.
// Printing times come from per-size throughput groups averaged per garment,
// with a contingency buffer on top.
func DefaultDurationTable() *DurationTable {
	return NewDurationTable(map[GarmentType]StageDurations{
		GarmentPolo:           {Printing: 8.9, Cutting: 1, Pressing: 2.5, QualityControl: 1, Contingency: 1.25},
		GarmentLongSleevePolo: {Printing: 10.0, Cutting: 1, Pressing: 3.0, QualityControl: 1, Contingency: 1.5},
		GarmentShorts:         {Printing: 6.5, Cutting: 1, Pressing: 2.0, QualityControl: 1, Contingency: 1.05},
		GarmentSkirtShorts:    {Printing: 8.0, Cutting: 1, Pressing: 2.5, QualityControl: 1, Contingency: 1.25},
		GarmentAthleticShorts: {Printing: 7.0, Cutting: 1, Pressing: 2.0, QualityControl: 1, Contingency: 1.1},
	})
}
