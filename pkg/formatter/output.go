package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/presenter"
)

const lineWidth = 80

// DisplayResults writes the phase-1 report in the requested format. Only the
// human format honours the expanded set; json and yaml always carry the full
// report.
func DisplayResults(w io.Writer, report *model.Report, expanded presenter.ExpandedSet, format string) error {
	switch format {
	case "json":
		return displayJSON(w, report)
	case "yaml":
		return displayYAML(w, report)
	case "human", "":
		displayHuman(w, presenter.Build(report, expanded))
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func displayJSON(w io.Writer, report *model.Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, report *model.Report) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayHuman(w io.Writer, v presenter.View) {
	if v.Empty() {
		fmt.Fprintln(w, color.HiBlackString("No analysis to display."))
		return
	}

	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	white.Fprintf(w, "🏢 %s\n", v.StartupName)
	if v.AnalysisDate != "" {
		fmt.Fprintf(w, "   Analysed: %s\n", v.AnalysisDate)
	}
	if len(v.FrameworksSelected) > 0 {
		fmt.Fprintf(w, "   Frameworks: %s\n", strings.Join(v.FrameworksSelected, ", "))
	}
	fmt.Fprintln(w)

	if v.Summary != "" {
		cyan.Fprintln(w, "📋 EXECUTIVE SUMMARY:")
		fmt.Fprintln(w, wrapText(v.Summary, lineWidth, "   "))
		fmt.Fprintln(w)
	}

	yellow.Fprintln(w, "🧭 STRATEGIC CONTEXT:")
	fmt.Fprintf(w, "   Industry:   %s\n", orDash(v.Context.Industry))
	fmt.Fprintf(w, "   Stage:      %s\n", orDash(v.Context.Stage))
	fmt.Fprintf(w, "   Inflection: %s\n", orDash(v.Context.Inflection))
	if len(v.Context.Challenges) > 0 {
		fmt.Fprintln(w, "   Key challenges:")
		for _, c := range v.Context.Challenges {
			fmt.Fprintf(w, "     • %s\n", c)
		}
	}
	fmt.Fprintln(w)

	if len(v.Cards) > 0 {
		green.Fprintln(w, "🧩 FRAMEWORK ANALYSIS:")
		for i, card := range v.Cards {
			displayCard(w, i+1, card)
		}
	}

	if v.Narrative != "" {
		white.Fprintln(w, "📍 CURRENT POSITION:")
		fmt.Fprintln(w, wrapText(v.Narrative, lineWidth, "   "))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func displayCard(w io.Writer, n int, card presenter.Card) {
	marker := "▸"
	if card.Expanded {
		marker = "▾"
	}
	fmt.Fprintf(w, "   %d. %s %s %s\n", n, marker, card.Name, color.HiBlackString("[%s]", card.Category))
	fmt.Fprintf(w, "      Fit score: %s %s\n", fitIcon(card.FitScore), color.CyanString(card.FitScore))

	if !card.Expanded {
		fmt.Fprintln(w)
		return
	}

	if len(card.Rationale) > 0 {
		fmt.Fprintln(w, "      Rationale:")
		for _, r := range card.Rationale {
			fmt.Fprintln(w, wrapText("- "+r, lineWidth, "        "))
		}
	}
	if card.Analysis != nil && card.Analysis.Text != "" {
		fmt.Fprintln(w, "      Analysis:")
		if card.Analysis.Preformatted() {
			fmt.Fprintln(w, indentLines(card.Analysis.Text, "        "))
		} else {
			fmt.Fprintln(w, wrapText(card.Analysis.Text, lineWidth, "        "))
		}
	}
	fmt.Fprintln(w)
}

// fitIcon buckets the 0-100 fit score.
func fitIcon(score string) string {
	var f float64
	if _, err := fmt.Sscanf(score, "%g", &f); err != nil {
		return "⚪"
	}
	switch {
	case f >= 80:
		return "🟢"
	case f >= 60:
		return "🟡"
	default:
		return "🟠"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
