package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestMergeAnalysis(t *testing.T) {
	loc := Location{City: "Tampa", State: "FL"}

	t.Run("all sources resolved", func(t *testing.T) {
		rec := MergeAnalysis(loc,
			Demographics{TotalPopulation: intPtr(384959), MedianHouseholdIncome: intPtr(59893), Source: "2022 ACS 5-year"},
			PopulationGrowth{OneYear: floatPtr(2.1), FiveYear: floatPtr(8.5)},
			Unemployment{Rate: floatPtr(3.1), Year: strPtr("2023"), Period: strPtr("M11")},
			Employment{Level: intPtr(10500000), Force: intPtr(10900000), Rate: floatPtr(96.3)},
		)

		assert.Equal(t, "Tampa", rec.City)
		assert.Equal(t, "FL", rec.State)
		assert.Equal(t, 384959, *rec.TotalPopulation)
		assert.Equal(t, 59893, *rec.MedianHouseholdIncome)
		assert.Equal(t, 3.1, *rec.UnemploymentRate)
		assert.Equal(t, "2023", *rec.Year)
		assert.Equal(t, 96.3, *rec.EmploymentRate)
		assert.Equal(t, "2022 ACS 5-year", rec.DemographicSource)
		assert.Empty(t, rec.UnemploymentRateNote)
	})

	t.Run("degraded labor source keeps nulls and notes", func(t *testing.T) {
		rec := MergeAnalysis(loc,
			Demographics{TotalPopulation: intPtr(384959)},
			PopulationGrowth{},
			Unemployment{Note: "BLS API key not configured"},
			Employment{Note: "BLS API key not configured"},
		)

		assert.Nil(t, rec.UnemploymentRate)
		assert.Nil(t, rec.EmploymentLevel)
		assert.Equal(t, "BLS API key not configured", rec.UnemploymentRateNote)
		assert.Equal(t, "BLS API key not configured", rec.EmploymentNote)
	})
}

// The JSON schema is fixed: missing values must serialize as explicit nulls,
// never vanish. Note fields are the only optional keys.
func TestAnalysisRecordJSONSchema(t *testing.T) {
	rec := MergeAnalysis(Location{City: "Tampa", State: "FL"},
		Demographics{}, PopulationGrowth{}, Unemployment{}, Employment{})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"city", "state",
		"total_population", "median_household_income",
		"population_growth_1yr", "population_growth_5yr",
		"unemployment_rate", "year", "period",
		"employment_level", "labor_force", "employment_rate",
	} {
		require.Contains(t, m, key)
	}
	assert.Equal(t, "null", string(m["total_population"]))
	assert.Equal(t, "null", string(m["unemployment_rate"]))

	assert.NotContains(t, m, "unemployment_rate_note")
	assert.NotContains(t, m, "employment_note")
}
