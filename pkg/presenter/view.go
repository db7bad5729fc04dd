// Package presenter maps a phase-1 report and the expanded-card set into a
// nested, render-ready view. Build is pure: the same inputs always give the
// same view.
package presenter

import "github.com/helmcode/strategy-ai/pkg/model"

// View is everything a renderer needs to draw the phase-1 result.
type View struct {
	StartupName        string
	AnalysisDate       string
	FrameworksSelected []string
	Summary            string
	Context            ContextGrid
	Cards              []Card
	Narrative          string
}

// ContextGrid is the strategic context block.
type ContextGrid struct {
	Industry   string
	Stage      string
	Inflection string
	Challenges []string
}

// Card is one framework. Rationale and Analysis are only set when Expanded.
type Card struct {
	ID       string
	Name     string
	Category string
	FitScore string
	Expanded bool

	Rationale []string
	Analysis  *AnalysisBlock
}

// AnalysisBlock is the rendered framework payload.
type AnalysisBlock struct {
	Kind model.AnalysisKind
	Text string
}

// Preformatted reports whether the text must keep its layout (indented JSON).
func (a AnalysisBlock) Preformatted() bool {
	return a.Kind == model.AnalysisStructured
}

// Empty reports whether there is nothing to render.
func (v View) Empty() bool {
	return v.StartupName == "" && v.Summary == "" && len(v.Cards) == 0 && v.Narrative == ""
}

// Build maps the report into a view. A nil report yields the empty view.
func Build(report *model.Report, expanded ExpandedSet) View {
	if report == nil {
		return View{}
	}
	p := report.Phase1

	v := View{
		StartupName:        report.StartupName,
		AnalysisDate:       report.AnalysisDate,
		FrameworksSelected: append([]string(nil), report.FrameworksSelected...),
		Summary:            p.ExecutiveSummary,
		Context: ContextGrid{
			Industry:   p.Context.Industry,
			Stage:      p.Context.Stage,
			Inflection: p.Context.StrategicInflection,
			Challenges: append([]string(nil), p.Context.KeyChallenges...),
		},
		Cards:     make([]Card, 0, len(p.FrameworksAnalysis)),
		Narrative: p.CurrentPositionNarrative,
	}

	for _, fw := range p.FrameworksAnalysis {
		card := Card{
			ID:       fw.FrameworkID,
			Name:     fw.FrameworkName,
			Category: fw.Category,
			FitScore: fw.FitScoreLabel(),
			Expanded: expanded.Has(fw.FrameworkID),
		}
		if card.Expanded {
			card.Rationale = append([]string(nil), fw.Rationale...)
			card.Analysis = &AnalysisBlock{
				Kind: kindOf(fw.Analysis),
				Text: fw.Analysis.Render(),
			}
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

func kindOf(a model.Analysis) model.AnalysisKind {
	if a.IsStructured() {
		return model.AnalysisStructured
	}
	return model.AnalysisText
}
