// Package model holds the wire types shared by the client, the workflow and the
// renderers: the phase-1 report returned by the analysis service and the
// per-phase lifecycle status.
package model

import "strconv"

// PhaseStatus is the lifecycle state of one analysis phase.
type PhaseStatus string

const (
	StatusIdle      PhaseStatus = "idle"
	StatusLoading   PhaseStatus = "loading"
	StatusCompleted PhaseStatus = "completed"
	StatusError     PhaseStatus = "error"
)

// Report is the phase-1 response of the analysis service.
type Report struct {
	StartupName        string   `json:"startup_name" yaml:"startup_name"`
	AnalysisDate       string   `json:"analysis_date" yaml:"analysis_date"`
	Phase1             Phase1   `json:"phase1" yaml:"phase1"`
	FrameworksSelected []string `json:"frameworks_selected" yaml:"frameworks_selected"`
}

// Phase1 answers "where are we now?".
type Phase1 struct {
	ExecutiveSummary         string              `json:"executive_summary" yaml:"executive_summary"`
	FrameworksAnalysis       []FrameworkAnalysis `json:"frameworks_analysis" yaml:"frameworks_analysis"`
	CurrentPositionNarrative string              `json:"current_position_narrative" yaml:"current_position_narrative"`
	Context                  StrategicContext    `json:"context" yaml:"context"`
}

type StrategicContext struct {
	Industry            string   `json:"industry" yaml:"industry"`
	Stage               string   `json:"stage" yaml:"stage"`
	KeyChallenges       []string `json:"key_challenges" yaml:"key_challenges"`
	StrategicInflection string   `json:"strategic_inflection" yaml:"strategic_inflection"`
}

// FrameworkAnalysis is one framework applied to the startup. FrameworkID is
// unique within a report.
type FrameworkAnalysis struct {
	FrameworkName string   `json:"framework_name" yaml:"framework_name"`
	FrameworkID   string   `json:"framework_id" yaml:"framework_id"`
	Category      string   `json:"category" yaml:"category"`
	Analysis      Analysis `json:"analysis" yaml:"analysis"`
	FitScore      float64  `json:"fit_score" yaml:"fit_score"`
	Rationale     []string `json:"rationale" yaml:"rationale"`
}

// FitScoreLabel formats the fit score without trailing zeros, e.g. "87" or "87.5".
func (f FrameworkAnalysis) FitScoreLabel() string {
	return strconv.FormatFloat(f.FitScore, 'f', -1, 64)
}

// FrameworkIDs returns the ids of all analysed frameworks in report order.
func (r *Report) FrameworkIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Phase1.FrameworksAnalysis))
	for _, fw := range r.Phase1.FrameworksAnalysis {
		ids = append(ids, fw.FrameworkID)
	}
	return ids
}
