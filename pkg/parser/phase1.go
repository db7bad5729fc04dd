package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/helmcode/strategy-ai/pkg/model"
)

// ParsePhase1Response decodes the body of a successful phase-1 call. The
// framework analysis payloads are classified into structured or text here,
// once, so renderers never inspect raw shapes.
func ParsePhase1Response(raw []byte) (*model.Report, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var report model.Report
	if err := json.Unmarshal(trimmed, &report); err != nil {
		return nil, fmt.Errorf("decode phase 1 report: %w", err)
	}

	if report.Phase1.FrameworksAnalysis == nil {
		report.Phase1.FrameworksAnalysis = []model.FrameworkAnalysis{}
	}
	if len(report.FrameworksSelected) == 0 {
		for _, fw := range report.Phase1.FrameworksAnalysis {
			report.FrameworksSelected = append(report.FrameworksSelected, fw.FrameworkName)
		}
	}
	return &report, nil
}

// ErrorDetail extracts the "detail" message the analysis service puts in
// error bodies. It returns "" when the body has none.
func ErrorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// Validation errors come back as a list of objects.
	return strings.TrimSpace(string(body.Detail))
}
