package presenter

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/strategy-ai/pkg/model"
)

func sampleReport(t *testing.T) *model.Report {
	t.Helper()
	var r model.Report
	require.NoError(t, json.Unmarshal([]byte(`{
		"startup_name": "Acme",
		"analysis_date": "2024-05-01T10:00:00",
		"phase1": {
			"executive_summary": "Acme is at a critical juncture.",
			"frameworks_analysis": [
				{"framework_name": "BCG Growth-Share Matrix", "framework_id": "bcg_matrix", "category": "Strategy",
				 "analysis": {"position": "Question Mark"}, "fit_score": 87, "rationale": ["High growth", "Low share"]},
				{"framework_name": "Lean Canvas", "framework_id": "lean_canvas", "category": "Innovation",
				 "analysis": "Problem-solution fit is unproven.", "fit_score": 74.5, "rationale": ["Early stage"]}
			],
			"current_position_narrative": "Positioned as a pre_seed company.",
			"context": {"industry": "saas_b2b", "stage": "pre_seed",
			            "key_challenges": ["Achieving product-market fit", "Scaling customer acquisition"],
			            "strategic_inflection": "product_market_fit"}
		},
		"frameworks_selected": ["BCG Growth-Share Matrix", "Lean Canvas"]
	}`), &r))
	return &r
}

func TestExpandedSet_ToggleTwiceRestores(t *testing.T) {
	ids := []string{"bcg_matrix", "lean_canvas", "swot", ""}
	starts := []ExpandedSet{
		NewExpandedSet(),
		NewExpandedSet("bcg_matrix"),
		NewExpandedSet("swot", "lean_canvas"),
		{},
	}

	for _, start := range starts {
		for _, id := range ids {
			s := start.Clone()
			before := s.IDs()

			s.Toggle(id)
			assert.NotEqual(t, before, s.IDs(), "single toggle of %q changes the set", id)
			s.Toggle(id)
			assert.Equal(t, before, s.IDs(), "double toggle of %q restores the set", id)
		}
	}
}

func TestExpandedSet_ZeroValue(t *testing.T) {
	var s ExpandedSet
	assert.False(t, s.Has("swot"))
	assert.Equal(t, 0, s.Len())

	s.Toggle("swot")
	assert.True(t, s.Has("swot"))
	assert.Equal(t, []string{"swot"}, s.IDs())
}

func TestBuild_NilReport(t *testing.T) {
	v := Build(nil, NewExpandedSet("anything"))
	assert.True(t, v.Empty())
	assert.Empty(t, v.Cards)
}

func TestBuild_CollapsedCards(t *testing.T) {
	v := Build(sampleReport(t), ExpandedSet{})

	want := View{
		StartupName:        "Acme",
		AnalysisDate:       "2024-05-01T10:00:00",
		FrameworksSelected: []string{"BCG Growth-Share Matrix", "Lean Canvas"},
		Summary:            "Acme is at a critical juncture.",
		Context: ContextGrid{
			Industry:   "saas_b2b",
			Stage:      "pre_seed",
			Inflection: "product_market_fit",
			Challenges: []string{"Achieving product-market fit", "Scaling customer acquisition"},
		},
		Cards: []Card{
			{ID: "bcg_matrix", Name: "BCG Growth-Share Matrix", Category: "Strategy", FitScore: "87"},
			{ID: "lean_canvas", Name: "Lean Canvas", Category: "Innovation", FitScore: "74.5"},
		},
		Narrative: "Positioned as a pre_seed company.",
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, v.Empty())
}

func TestBuild_ExpandingOneLeavesOtherCollapsed(t *testing.T) {
	report := sampleReport(t)
	var expanded ExpandedSet
	expanded.Toggle("bcg_matrix")

	v := Build(report, expanded)
	require.Len(t, v.Cards, 2)

	bcg, lean := v.Cards[0], v.Cards[1]
	assert.True(t, bcg.Expanded)
	assert.Equal(t, []string{"High growth", "Low share"}, bcg.Rationale)
	require.NotNil(t, bcg.Analysis)
	assert.True(t, bcg.Analysis.Preformatted())
	assert.Equal(t, "{\n  \"position\": \"Question Mark\"\n}", bcg.Analysis.Text)

	assert.False(t, lean.Expanded)
	assert.Nil(t, lean.Rationale)
	assert.Nil(t, lean.Analysis)

	expanded.Toggle("lean_canvas")
	v = Build(report, expanded)
	lean = v.Cards[1]
	assert.True(t, lean.Expanded)
	require.NotNil(t, lean.Analysis)
	assert.False(t, lean.Analysis.Preformatted())
	assert.Equal(t, "Problem-solution fit is unproven.", lean.Analysis.Text)
}

func TestBuild_DoesNotAliasReport(t *testing.T) {
	report := sampleReport(t)
	v := Build(report, NewExpandedSet("bcg_matrix"))

	v.Context.Challenges[0] = "mutated"
	v.Cards[0].Rationale[0] = "mutated"
	v.FrameworksSelected[0] = "mutated"

	assert.Equal(t, "Achieving product-market fit", report.Phase1.Context.KeyChallenges[0])
	assert.Equal(t, "High growth", report.Phase1.FrameworksAnalysis[0].Rationale[0])
	assert.Equal(t, "BCG Growth-Share Matrix", report.FrameworksSelected[0])
}
