package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_YAML(t *testing.T) {
	doc := `
companyInfo:
  companyName: Acme
  industry: fintech
capital:
  fundingStage: seed
  monthlyBurn: 45000
people:
  teamSize: 7
advantage:
  proprietaryTech: true
`
	a, err := Decode([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, a.CompanyInfo)
	assert.Equal(t, "Acme", a.CompanyInfo.CompanyName)
	assert.Equal(t, "fintech", a.CompanyInfo.Industry)
	require.NotNil(t, a.Capital)
	assert.Equal(t, "seed", a.Capital.FundingStage)
	assert.Equal(t, 45000.0, a.Capital.MonthlyBurn)
	assert.Equal(t, 7, a.People.TeamSize)
	assert.True(t, a.Advantage.ProprietaryTech)
	assert.Nil(t, a.Market)
}

func TestDecode_JSON(t *testing.T) {
	a, err := Decode([]byte(`{"market": {"tamSize": 5000000, "cac": 250, "customerCount": 1200}}`))
	require.NoError(t, err)

	assert.Nil(t, a.CompanyInfo)
	require.NotNil(t, a.Market)
	assert.Equal(t, 5000000.0, a.Market.TAMSize)
	assert.Equal(t, 250.0, a.Market.CAC)
	assert.Equal(t, 1200, a.Market.CustomerCount)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("people:\n  teamSize: [not, a, number]\n"))
	assert.Error(t, err)
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assessment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("companyInfo:\n  companyName: Acme\n"), 0o644))

	src := NewFileSource(path)
	a, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", a.CompanyInfo.CompanyName)

	// Edits are visible on the next load.
	require.NoError(t, os.WriteFile(path, []byte("companyInfo:\n  companyName: Globex\n"), 0o644))
	a, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Globex", a.CompanyInfo.CompanyName)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("unused").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatic_Load(t *testing.T) {
	a, err := Static{}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &AssessmentData{}, a)
}
