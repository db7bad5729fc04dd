// Package profile maps assessment data into the startup profile sent to the
// analysis service. Every field has a default, so a profile is always fully
// populated no matter how much of the assessment is filled in.
package profile

import "github.com/helmcode/strategy-ai/pkg/store"

// Defaults applied when the assessment leaves a field absent or zero.
const (
	DefaultStartupName     = "Your Company"
	DefaultSector          = "saas_b2b"
	DefaultFundingStage    = "pre_seed"
	DefaultRunwayMonths    = 12.0
	DefaultTeamSize        = 10
	DefaultMarketSizeUSD   = 1_000_000_000.0
	DefaultMarketGrowth    = 20.0
	DefaultCompetitorCount = 10
	DefaultMarketShare     = 0.1
	DefaultCACUSD          = 100.0
	DefaultLTVUSD          = 1000.0
	DefaultMonthlyUsers    = 100
	DefaultProductStage    = "mvp"
	DefaultExperienceYears = 5.0
	DefaultBusinessModel   = "B2B"
	DefaultMainChallenge   = "Achieving product-market fit"
)

// StandingChallenges follow the user's main challenge in every profile.
var StandingChallenges = []string{
	"Scaling customer acquisition",
	"Building competitive moat",
}

// StartupProfile is the request payload for a phase-1 analysis.
type StartupProfile struct {
	StartupName                     string   `json:"startup_name" yaml:"startup_name"`
	Sector                          string   `json:"sector" yaml:"sector"`
	FundingStage                    string   `json:"funding_stage" yaml:"funding_stage"`
	TotalCapitalRaisedUSD           float64  `json:"total_capital_raised_usd" yaml:"total_capital_raised_usd"`
	CashOnHandUSD                   float64  `json:"cash_on_hand_usd" yaml:"cash_on_hand_usd"`
	MonthlyBurnUSD                  float64  `json:"monthly_burn_usd" yaml:"monthly_burn_usd"`
	RunwayMonths                    float64  `json:"runway_months" yaml:"runway_months"`
	TeamSizeFullTime                int      `json:"team_size_full_time" yaml:"team_size_full_time"`
	MarketSizeUSD                   float64  `json:"market_size_usd" yaml:"market_size_usd"`
	MarketGrowthRateAnnual          float64  `json:"market_growth_rate_annual" yaml:"market_growth_rate_annual"`
	CompetitorCount                 int      `json:"competitor_count" yaml:"competitor_count"`
	MarketSharePercentage           float64  `json:"market_share_percentage" yaml:"market_share_percentage"`
	CustomerAcquisitionCostUSD      float64  `json:"customer_acquisition_cost_usd" yaml:"customer_acquisition_cost_usd"`
	LifetimeValueUSD                float64  `json:"lifetime_value_usd" yaml:"lifetime_value_usd"`
	MonthlyActiveUsers              int      `json:"monthly_active_users" yaml:"monthly_active_users"`
	ProductStage                    string   `json:"product_stage" yaml:"product_stage"`
	ProprietaryTech                 bool     `json:"proprietary_tech" yaml:"proprietary_tech"`
	PatentsFiled                    int      `json:"patents_filed" yaml:"patents_filed"`
	FoundersIndustryExperienceYears float64  `json:"founders_industry_experience_years" yaml:"founders_industry_experience_years"`
	B2BOrB2C                        string   `json:"b2b_or_b2c" yaml:"b2b_or_b2c"`
	KeyChallenges                   []string `json:"key_challenges" yaml:"key_challenges"`
}

// Phase1Request is the body of the phase-1 call.
type Phase1Request struct {
	StartupData StartupProfile `json:"startup_data" yaml:"startup_data"`
}

// Build maps the assessment into a profile. A nil assessment yields the
// all-defaults profile.
func Build(data *store.AssessmentData) StartupProfile {
	if data == nil {
		data = &store.AssessmentData{}
	}

	company := data.CompanyInfo
	if company == nil {
		company = &store.CompanyInfo{}
	}
	capital := data.Capital
	if capital == nil {
		capital = &store.Capital{}
	}
	people := data.People
	if people == nil {
		people = &store.People{}
	}
	market := data.Market
	if market == nil {
		market = &store.Market{}
	}
	advantage := data.Advantage
	if advantage == nil {
		advantage = &store.Advantage{}
	}

	challenges := make([]string, 0, 1+len(StandingChallenges))
	challenges = append(challenges, or(company.MainChallenge, DefaultMainChallenge))
	challenges = append(challenges, StandingChallenges...)

	return StartupProfile{
		StartupName:                     or(company.CompanyName, DefaultStartupName),
		Sector:                          or(company.Industry, DefaultSector),
		FundingStage:                    or(capital.FundingStage, DefaultFundingStage),
		TotalCapitalRaisedUSD:           capital.TotalFunding,
		CashOnHandUSD:                   capital.CashOnHand,
		MonthlyBurnUSD:                  capital.MonthlyBurn,
		RunwayMonths:                    or(capital.Runway, DefaultRunwayMonths),
		TeamSizeFullTime:                or(people.TeamSize, DefaultTeamSize),
		MarketSizeUSD:                   or(market.TAMSize, DefaultMarketSizeUSD),
		MarketGrowthRateAnnual:          or(market.MarketGrowthRate, DefaultMarketGrowth),
		CompetitorCount:                 or(market.CompetitorCount, DefaultCompetitorCount),
		MarketSharePercentage:           or(market.CurrentMarketShare, DefaultMarketShare),
		CustomerAcquisitionCostUSD:      or(market.CAC, DefaultCACUSD),
		LifetimeValueUSD:                or(market.LTV, DefaultLTVUSD),
		MonthlyActiveUsers:              or(market.CustomerCount, DefaultMonthlyUsers),
		ProductStage:                    or(advantage.ProductStage, DefaultProductStage),
		ProprietaryTech:                 advantage.ProprietaryTech,
		PatentsFiled:                    advantage.PatentCount,
		FoundersIndustryExperienceYears: or(people.AvgExperience, DefaultExperienceYears),
		B2BOrB2C:                        or(company.B2BOrB2C, DefaultBusinessModel),
		KeyChallenges:                   challenges,
	}
}

// NewPhase1Request wraps a freshly built profile in the request envelope.
func NewPhase1Request(data *store.AssessmentData) Phase1Request {
	return Phase1Request{StartupData: Build(data)}
}

// or returns v unless it is the zero value.
func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
