package models

import "time"

// Pipeline stage names as they appear in reports and traces
const (
	StageValidate = "validate"
	StageSync     = "sync"
	StageExport   = "export"
)

// ReportData represents the complete report of a single run
type ReportData struct {
	Timestamp time.Time `json:"timestamp"`
	RunMode   string    `json:"runMode"`

	// Inputs, the token is never included
	SourceID      string `json:"sourceId"`
	EnvironmentID string `json:"environmentId,omitempty"`
	ViewType      string `json:"viewType,omitempty"`
	ImagePath     string `json:"imagePath,omitempty"`
	SkipExport    bool   `json:"skipExport"`

	// Stages in execution order, a stage that never ran is absent
	Stages []StageReport `json:"stages"`

	// Final outcome of the run
	Result Result `json:"result"`
}

// StageReport is the outcome of one pipeline stage
type StageReport struct {
	Name       string        `json:"name"`
	Result     Result        `json:"result"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	DurationMs int64         `json:"durationMs"`
}

// AddStage appends a finished stage to the report
func (d *ReportData) AddStage(name string, startedAt time.Time, result Result) {
	duration := time.Since(startedAt)
	d.Stages = append(d.Stages, StageReport{
		Name:       name,
		Result:     result,
		StartedAt:  startedAt,
		Duration:   duration,
		DurationMs: duration.Milliseconds(),
	})
}

// Stage returns the report of the named stage, if it ran
func (d *ReportData) Stage(name string) (StageReport, bool) {
	for _, s := range d.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageReport{}, false
}
