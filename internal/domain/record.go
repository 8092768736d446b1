package domain

import (
	"context"
	"errors"
)

// ErrZeroLaborForce signals that an employment rate could not be derived
// because the labor force series resolved to zero. Surfacing this explicitly
// keeps Inf/NaN out of the record.
var ErrZeroLaborForce = errors.New("labor force is zero, cannot compute employment rate")

// Demographics is the census adapter's partial result. Nil pointers mean the
// source could not supply the field. Source names the dataset that satisfied
// the fallback chain; it is kept for observability and never serialized.
type Demographics struct {
	TotalPopulation       *int
	MedianHouseholdIncome *int
	Source                string
}

// PopulationGrowth holds best-effort growth estimates. The current upstream
// computation is a static placeholder until a historical series is wired in,
// so callers should treat these as rough estimates.
type PopulationGrowth struct {
	OneYear  *float64
	FiveYear *float64
}

// Unemployment is the BLS unemployment-rate result. Note is set when the
// credential is missing and the field degraded to null.
type Unemployment struct {
	Rate   *float64
	Year   *string
	Period *string
	Note   string
}

// Employment is the BLS employment-series result. Level and Force are scaled
// to persons (the API reports thousands). Rate is derived and rounded to one
// decimal; it is nil unless both series resolved with a nonzero force.
type Employment struct {
	Level *int
	Force *int
	Rate  *float64
	Note  string
}

// DemographicsSource supplies census-derived fields for a normalized
// city/state pair.
type DemographicsSource interface {
	Demographics(ctx context.Context, city, state string) (Demographics, error)
	PopulationGrowth(ctx context.Context, city, state string) (PopulationGrowth, error)
}

// LaborSource supplies BLS-derived fields. Labor statistics are
// state-granularity only, so these take no city.
type LaborSource interface {
	UnemploymentRate(ctx context.Context, state string) (Unemployment, error)
	EmploymentData(ctx context.Context, state string) (Employment, error)
}

// AnalysisRecord is the flat merged result of one analysis. The key set is
// fixed: fields a source could not supply serialize as JSON null, never
// disappear. Note fields are the only optional keys. Built fresh per request
// by MergeAnalysis and discarded after formatting.
type AnalysisRecord struct {
	City  string `json:"city"`
	State string `json:"state"`

	TotalPopulation       *int     `json:"total_population"`
	MedianHouseholdIncome *int     `json:"median_household_income"`
	PopulationGrowth1Yr   *float64 `json:"population_growth_1yr"`
	PopulationGrowth5Yr   *float64 `json:"population_growth_5yr"`

	UnemploymentRate *float64 `json:"unemployment_rate"`
	Year             *string  `json:"year"`
	Period           *string  `json:"period"`
	EmploymentLevel  *int     `json:"employment_level"`
	LaborForce       *int     `json:"labor_force"`
	EmploymentRate   *float64 `json:"employment_rate"`

	UnemploymentRateNote string `json:"unemployment_rate_note,omitempty"`
	EmploymentNote       string `json:"employment_note,omitempty"`

	// DemographicSource tags which ACS dataset satisfied the fallback chain.
	// Observability only; not part of the user-facing schema.
	DemographicSource string `json:"-"`
}

// MergeAnalysis flattens the per-source partial results into one record.
func MergeAnalysis(loc Location, demo Demographics, growth PopulationGrowth, unemp Unemployment, emp Employment) AnalysisRecord {
	return AnalysisRecord{
		City:  loc.City,
		State: loc.State,

		TotalPopulation:       demo.TotalPopulation,
		MedianHouseholdIncome: demo.MedianHouseholdIncome,
		PopulationGrowth1Yr:   growth.OneYear,
		PopulationGrowth5Yr:   growth.FiveYear,

		UnemploymentRate: unemp.Rate,
		Year:             unemp.Year,
		Period:           unemp.Period,
		EmploymentLevel:  emp.Level,
		LaborForce:       emp.Force,
		EmploymentRate:   emp.Rate,

		UnemploymentRateNote: unemp.Note,
		EmploymentNote:       emp.Note,

		DemographicSource: demo.Source,
	}
}
