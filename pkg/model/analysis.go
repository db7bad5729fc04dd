package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnalysisKind tags the shape of a framework analysis payload.
type AnalysisKind string

const (
	// AnalysisStructured is a JSON object, array or null.
	AnalysisStructured AnalysisKind = "structured"
	// AnalysisText is a JSON string, number or boolean.
	AnalysisText AnalysisKind = "text"
)

// Analysis is the opaque per-framework payload, classified once when the
// response is decoded. The zero value is an empty text payload.
type Analysis struct {
	Kind AnalysisKind
	// Value is the decoded document: map/slice/nil for structured payloads,
	// string/float64/bool for text payloads.
	Value any
	// Text is the display form of a text payload.
	Text string

	raw json.RawMessage
}

// TextAnalysis builds a text payload.
func TextAnalysis(s string) Analysis {
	return Analysis{Kind: AnalysisText, Value: s, Text: s}
}

// StructuredAnalysis builds a structured payload from a generic document.
func StructuredAnalysis(v any) Analysis {
	return Analysis{Kind: AnalysisStructured, Value: v}
}

func (a Analysis) IsStructured() bool {
	return a.Kind == AnalysisStructured
}

// Render returns the display text: two-space indented JSON for structured
// payloads (keys keep the order the service sent them in), the plain text
// otherwise.
func (a Analysis) Render() string {
	if !a.IsStructured() {
		return a.Text
	}
	if len(a.raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, a.raw, "", "  "); err == nil {
			return buf.String()
		}
	}
	out, err := json.MarshalIndent(a.Value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", a.Value)
	}
	return string(out)
}

func (a *Analysis) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty analysis payload")
	}

	switch trimmed[0] {
	case '{', '[', 'n':
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("decode structured analysis: %w", err)
		}
		*a = StructuredAnalysis(v)
		a.raw = append(json.RawMessage(nil), trimmed...)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode text analysis: %w", err)
		}
		*a = TextAnalysis(s)
	default:
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return fmt.Errorf("decode scalar analysis: %w", err)
		}
		text := string(trimmed)
		if f, ok := v.(float64); ok {
			text = strconv.FormatFloat(f, 'f', -1, 64)
		}
		*a = Analysis{Kind: AnalysisText, Value: v, Text: text}
	}
	return nil
}

func (a Analysis) MarshalJSON() ([]byte, error) {
	if a.IsStructured() && len(a.raw) > 0 {
		return a.raw, nil
	}
	if a.Kind == "" {
		return json.Marshal(a.Text)
	}
	return json.Marshal(a.Value)
}

func (a Analysis) MarshalYAML() (interface{}, error) {
	if a.Kind == "" {
		return a.Text, nil
	}
	return a.Value, nil
}
