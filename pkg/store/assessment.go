// Package store exposes the startup assessment as a read-only data source.
// Every section and field is optional; defaults are applied by the profile
// package, never here.
package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AssessmentData mirrors the assessment form. Sections are nil when the user
// has not filled them in.
type AssessmentData struct {
	CompanyInfo *CompanyInfo `json:"companyInfo,omitempty" yaml:"companyInfo,omitempty"`
	Capital     *Capital     `json:"capital,omitempty" yaml:"capital,omitempty"`
	People      *People      `json:"people,omitempty" yaml:"people,omitempty"`
	Market      *Market      `json:"market,omitempty" yaml:"market,omitempty"`
	Advantage   *Advantage   `json:"advantage,omitempty" yaml:"advantage,omitempty"`
}

type CompanyInfo struct {
	CompanyName   string `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Industry      string `json:"industry,omitempty" yaml:"industry,omitempty"`
	B2BOrB2C      string `json:"b2bOrB2c,omitempty" yaml:"b2bOrB2c,omitempty"`
	MainChallenge string `json:"mainChallenge,omitempty" yaml:"mainChallenge,omitempty"`
}

type Capital struct {
	FundingStage string  `json:"fundingStage,omitempty" yaml:"fundingStage,omitempty"`
	TotalFunding float64 `json:"totalFunding,omitempty" yaml:"totalFunding,omitempty"`
	CashOnHand   float64 `json:"cashOnHand,omitempty" yaml:"cashOnHand,omitempty"`
	MonthlyBurn  float64 `json:"monthlyBurn,omitempty" yaml:"monthlyBurn,omitempty"`
	Runway       float64 `json:"runway,omitempty" yaml:"runway,omitempty"`
}

type People struct {
	TeamSize      int     `json:"teamSize,omitempty" yaml:"teamSize,omitempty"`
	AvgExperience float64 `json:"avgExperience,omitempty" yaml:"avgExperience,omitempty"`
}

type Market struct {
	TAMSize            float64 `json:"tamSize,omitempty" yaml:"tamSize,omitempty"`
	MarketGrowthRate   float64 `json:"marketGrowthRate,omitempty" yaml:"marketGrowthRate,omitempty"`
	CompetitorCount    int     `json:"competitorCount,omitempty" yaml:"competitorCount,omitempty"`
	CurrentMarketShare float64 `json:"currentMarketShare,omitempty" yaml:"currentMarketShare,omitempty"`
	CAC                float64 `json:"cac,omitempty" yaml:"cac,omitempty"`
	LTV                float64 `json:"ltv,omitempty" yaml:"ltv,omitempty"`
	CustomerCount      int     `json:"customerCount,omitempty" yaml:"customerCount,omitempty"`
}

type Advantage struct {
	ProductStage    string `json:"productStage,omitempty" yaml:"productStage,omitempty"`
	ProprietaryTech bool   `json:"proprietaryTech,omitempty" yaml:"proprietaryTech,omitempty"`
	PatentCount     int    `json:"patentCount,omitempty" yaml:"patentCount,omitempty"`
}

// Source loads the current assessment. Callers load on every use so edits to
// the underlying store are picked up without restarting.
type Source interface {
	Load(ctx context.Context) (*AssessmentData, error)
}

// Decode parses an assessment document. YAML and JSON are both accepted.
func Decode(data []byte) (*AssessmentData, error) {
	var a AssessmentData
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	return &a, nil
}

// FileSource reads the assessment from a YAML or JSON file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) (*AssessmentData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read assessment %s: %w", s.Path, err)
	}
	return Decode(data)
}

// Static serves a fixed assessment. The zero value is an empty assessment,
// used when no source is configured.
type Static struct {
	Data AssessmentData
}

func (s Static) Load(ctx context.Context) (*AssessmentData, error) {
	data := s.Data
	return &data, nil
}
