package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/presenter"
	"github.com/helmcode/strategy-ai/pkg/workflow"
)

const (
	title    = "Dynamic Strategic Analysis"
	subtitle = "AI-powered framework selection based on your unique context"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(subtitle))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.body())
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) tabs() string {
	ctrl := m.ctrl()
	tabs := make([]string, 0, len(workflow.Phases))
	for _, p := range workflow.Phases {
		label := fmt.Sprintf("%s %s\n%s", p, m.statusGlyph(ctrl.Status(p)), p.Title())
		style := m.styles.Tab
		switch {
		case p == ctrl.Active():
			style = m.styles.ActiveTab
		case !ctrl.CanNavigate(p):
			style = m.styles.DisabledTab
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) statusGlyph(s model.PhaseStatus) string {
	switch s {
	case model.StatusLoading:
		return "…"
	case model.StatusCompleted:
		return m.styles.Success.Render("✓")
	case model.StatusError:
		return m.styles.Error.Render("✗")
	default:
		return "·"
	}
}

func (m Model) footer() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n")
	}
	help := "1-3/←/→ phase • q quit"
	switch {
	case m.showingCards():
		help = "↑/↓ select • space/enter expand • " + help
	case m.ctrl().Status(m.ctrl().Active()) == model.StatusError:
		help = "r retry • " + help
	}
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m Model) body() string {
	ctrl := m.ctrl()
	p := ctrl.Active()
	if p != workflow.PhaseCurrentPosition {
		return m.placeholder(p)
	}

	switch ctrl.Status(p) {
	case model.StatusLoading:
		return lines(
			m.spinner.View()+" "+m.styles.Section.UnsetMarginTop().Render("Analyzing Current Position..."),
			m.styles.Muted.Render("Selecting optimal frameworks based on your context"),
		)
	case model.StatusError:
		ls := []string{m.styles.Error.Render(p.String() + " Error"), ctrl.ErrorMessage()}
		if detail := ctrl.ErrorDetail(); detail != "" {
			ls = append(ls, m.styles.Muted.Render(detail))
		}
		ls = append(ls, "", m.styles.Muted.Render("Press r to retry the analysis"))
		return lines(ls...)
	case model.StatusCompleted:
		return m.report(presenter.Build(ctrl.Report(), m.expanded))
	default:
		return lines(
			m.styles.Section.UnsetMarginTop().Render("Ready to analyze your current position"),
			m.styles.Muted.Render("We'll select the most relevant frameworks for your specific context"),
			"",
			"Press enter or s to start the analysis",
		)
	}
}

func (m Model) placeholder(p workflow.Phase) string {
	return lines(
		m.styles.Section.UnsetMarginTop().Render(p.Title()),
		m.styles.Muted.Render(p.String()+" analysis is not available yet"),
	)
}

// cardSpan is the half-open line range a framework card occupies in the
// rendered report.
type cardSpan struct {
	start, end int
}

func (m Model) report(v presenter.View) string {
	out, _ := m.layout(v)
	return out
}

func (m Model) layout(v presenter.View) (string, []cardSpan) {
	if v.Empty() {
		return m.styles.Muted.Render("The analysis returned no content"), nil
	}

	var b strings.Builder

	b.WriteString(m.styles.Section.Render("Executive Summary"))
	b.WriteString("\n")
	b.WriteString(m.markdown(v.Summary))
	b.WriteString("\n")

	b.WriteString(m.styles.Section.Render("Strategic Context"))
	b.WriteString("\n")
	b.WriteString(m.field("Industry", v.Context.Industry))
	b.WriteString(m.field("Stage", v.Context.Stage))
	b.WriteString(m.field("Strategic Inflection", v.Context.Inflection))
	if len(v.Context.Challenges) > 0 {
		b.WriteString(m.styles.Label.Render("Key Challenges:"))
		b.WriteString("\n")
		for _, c := range v.Context.Challenges {
			b.WriteString("  • " + c + "\n")
		}
	}

	b.WriteString(m.styles.Section.Render("Framework Analysis"))
	b.WriteString("\n")
	spans := make([]cardSpan, 0, len(v.Cards))
	for i, card := range v.Cards {
		rendered := m.card(card, i == m.cursor)
		start := strings.Count(b.String(), "\n")
		spans = append(spans, cardSpan{start: start, end: start + lipgloss.Height(rendered)})
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Section.Render("Current Position Narrative"))
	b.WriteString("\n")
	b.WriteString(m.markdown(v.Narrative))
	return b.String(), spans
}

func (m Model) field(label, value string) string {
	return m.styles.Label.Render(label+":") + " " + value + "\n"
}

func (m Model) card(c presenter.Card, selected bool) string {
	toggle := "+"
	if c.Expanded {
		toggle = "−"
	}
	header := fmt.Sprintf("%s %s  %s  %s",
		toggle,
		c.Name,
		m.styles.Muted.Render(c.Category),
		m.styles.Score.Render("Fit Score: "+c.FitScore+"%"),
	)

	content := []string{header}
	if c.Expanded {
		if len(c.Rationale) > 0 {
			content = append(content, m.styles.Label.Render("Why this framework:"))
			for _, r := range c.Rationale {
				content = append(content, "  • "+r)
			}
		}
		if c.Analysis != nil {
			content = append(content, m.styles.Label.Render("Analysis:"))
			if c.Analysis.Preformatted() {
				content = append(content, m.styles.Code.Render(c.Analysis.Text))
			} else {
				content = append(content, c.Analysis.Text)
			}
		}
	}

	style := m.styles.Card
	if selected {
		style = m.styles.ActiveCard
	}
	return style.Render(strings.Join(content, "\n"))
}

func (m Model) markdown(s string) string {
	if s == "" || m.renderer == nil {
		return s
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}
