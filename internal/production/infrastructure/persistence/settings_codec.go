// Package persistence implements the production repositories over Postgres
// and SQLite.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

const (
	settingsKeySchedule  = "work_schedule"
	settingsKeyDurations = "duration_table"
)

// scheduleRecord is the stored JSON shape of a work schedule.
type scheduleRecord struct {
	StartHour  int   `json:"start_hour"`
	EndHour    int   `json:"end_hour"`
	LunchStart int   `json:"lunch_start"`
	LunchEnd   int   `json:"lunch_end"`
	WorkDays   []int `json:"work_days"`
}

// durationRecord is the stored JSON shape of per-unit stage durations.
type durationRecord struct {
	Printing       float64 `json:"printing"`
	Cutting        float64 `json:"cutting"`
	Pressing       float64 `json:"pressing"`
	QualityControl float64 `json:"quality_control"`
	Contingency    float64 `json:"contingency"`
}

// tableRecord is the stored JSON shape of a duration table.
type tableRecord struct {
	Garments map[string]durationRecord            `json:"garments"`
	Sizes    map[string]map[string]durationRecord `json:"sizes,omitempty"`
}

func marshalSchedule(s domain.WorkSchedule) ([]byte, error) {
	rec := scheduleRecord{
		StartHour:  s.StartHour,
		EndHour:    s.EndHour,
		LunchStart: s.LunchStart,
		LunchEnd:   s.LunchEnd,
	}
	for _, d := range s.WorkDays {
		rec.WorkDays = append(rec.WorkDays, int(d))
	}
	return json.Marshal(rec)
}

func unmarshalSchedule(data []byte) (domain.WorkSchedule, error) {
	var rec scheduleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.WorkSchedule{}, fmt.Errorf("failed to decode work schedule: %w", err)
	}
	s := domain.WorkSchedule{
		StartHour:  rec.StartHour,
		EndHour:    rec.EndHour,
		LunchStart: rec.LunchStart,
		LunchEnd:   rec.LunchEnd,
	}
	for _, d := range rec.WorkDays {
		s.WorkDays = append(s.WorkDays, time.Weekday(d))
	}
	return s, nil
}

func toDurationRecord(d domain.StageDurations) durationRecord {
	return durationRecord{
		Printing:       d.Printing,
		Cutting:        d.Cutting,
		Pressing:       d.Pressing,
		QualityControl: d.QualityControl,
		Contingency:    d.Contingency,
	}
}

func fromDurationRecord(rec durationRecord) domain.StageDurations {
	return domain.StageDurations{
		Printing:       rec.Printing,
		Cutting:        rec.Cutting,
		Pressing:       rec.Pressing,
		QualityControl: rec.QualityControl,
		Contingency:    rec.Contingency,
	}
}

func marshalDurationTable(t *domain.DurationTable) ([]byte, error) {
	rec := tableRecord{Garments: make(map[string]durationRecord)}
	for g, d := range t.Garments() {
		rec.Garments[g.String()] = toDurationRecord(d)
	}
	overrides := t.SizeOverrides()
	if len(overrides) > 0 {
		rec.Sizes = make(map[string]map[string]durationRecord, len(overrides))
		for g, bySize := range overrides {
			inner := make(map[string]durationRecord, len(bySize))
			for s, d := range bySize {
				inner[string(s)] = toDurationRecord(d)
			}
			rec.Sizes[g.String()] = inner
		}
	}
	return json.Marshal(rec)
}

func unmarshalDurationTable(data []byte) (*domain.DurationTable, error) {
	var rec tableRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode duration table: %w", err)
	}

	garments := make(map[domain.GarmentType]domain.StageDurations, len(rec.Garments))
	for g, d := range rec.Garments {
		garments[domain.GarmentType(g)] = fromDurationRecord(d)
	}
	table := domain.NewDurationTable(garments)

	for g, bySize := range rec.Sizes {
		garment := domain.GarmentType(g)
		for s, d := range bySize {
			if err := table.SetSize(garment, domain.Size(s), fromDurationRecord(d)); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}
