package domain

import (
	"fmt"
	"time"
)

// Stage identifies one step of the fixed production pipeline.
type Stage string

const (
	StageDesign         Stage = "design"
	StagePrinting       Stage = "printing"
	StageCutting        Stage = "cutting"
	StagePressing       Stage = "pressing"
	StageQualityControl Stage = "quality-control"
)

// PipelineStages returns the stages in pipeline order.
func PipelineStages() []Stage {
	return []Stage{StageDesign, StagePrinting, StageCutting, StagePressing, StageQualityControl}
}

// IsValid reports whether the stage is part of the pipeline.
func (s Stage) IsValid() bool {
	switch s {
	case StageDesign, StagePrinting, StageCutting, StagePressing, StageQualityControl:
		return true
	}
	return false
}

func (s Stage) String() string { return string(s) }

// ParseStage converts a string into a pipeline Stage.
func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown pipeline stage: %q", v)
	}
	return s, nil
}

// IsProduction reports whether the stage is a production stage (everything
// after design).
func (s Stage) IsProduction() bool {
	return s.IsValid() && s != StageDesign
}

// StageProgress tracks one stage of one order through
// not-started -> in-progress -> completed. Transitions never run backwards
// and never skip in-progress.
type StageProgress struct {
	StartedAt  *time.Time
	FinishedAt *time.Time
	Completed  bool
}

// NotStarted reports whether work on the stage has not begun.
func (p StageProgress) NotStarted() bool {
	return p.StartedAt == nil && !p.Completed
}

// InProgress reports whether the stage has been started but not finished.
func (p StageProgress) InProgress() bool {
	return p.StartedAt != nil && !p.Completed
}

// Pipeline is the ordered set of stage progress records for one order.
type Pipeline map[Stage]StageProgress

// NewPipeline returns a pipeline with every stage not started.
func NewPipeline() Pipeline {
	p := make(Pipeline, len(PipelineStages()))
	for _, s := range PipelineStages() {
		p[s] = StageProgress{}
	}
	return p
}

// Start moves a stage to in-progress at the given instant. Starting a stage
// that is already in progress or completed is a no-op; operators double-click.
// Returns true when the pipeline changed.
func (p Pipeline) Start(stage Stage, at time.Time) bool {
	prog, ok := p[stage]
	if !ok || prog.Completed || prog.StartedAt != nil {
		return false
	}
	t := at
	prog.StartedAt = &t
	p[stage] = prog
	return true
}

// Complete finishes a stage at the given instant. Completing an already
// completed stage, or one that was never started, is absorbed as a no-op
// rather than an error so the tracking surface stays resilient to
// double-clicks and out-of-order taps.
// Returns true when the pipeline changed.
func (p Pipeline) Complete(stage Stage, at time.Time) bool {
	prog, ok := p[stage]
	if !ok || prog.Completed {
		return false
	}
	if prog.StartedAt == nil {
		return false
	}
	t := at
	prog.FinishedAt = &t
	prog.Completed = true
	p[stage] = prog
	return true
}

// AllCompleted reports whether every stage of the pipeline is done.
func (p Pipeline) AllCompleted() bool {
	for _, s := range PipelineStages() {
		if !p[s].Completed {
			return false
		}
	}
	return true
}

// Remaining returns the stages not yet completed, in pipeline order.
func (p Pipeline) Remaining() []Stage {
	var out []Stage
	for _, s := range PipelineStages() {
		if !p[s].Completed {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns an independent copy of the pipeline.
func (p Pipeline) Clone() Pipeline {
	out := make(Pipeline, len(p))
	for s, prog := range p {
		out[s] = prog
	}
	return out
}
