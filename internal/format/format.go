// Package format renders an AnalysisRecord as CLI text, JSON, or CSV. All
// transforms are pure given a fixed clock; formatting failures surface inline
// in the output rather than escaping the formatter.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/mattn/go-runewidth"
)

const bannerWidth = 60

// Currency renders dollar amounts with K/M suffixes: $1.2M, $60K, $950.
func Currency(amount float64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.1fM", amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.0fK", amount/1_000)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

// Percent renders a percentage to one decimal.
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// Number renders general numbers with K/M suffixes at the given precision.
func Number(value float64, decimals int) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%.*fM", decimals, value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%.*fK", decimals, value/1_000)
	default:
		return fmt.Sprintf("%.*f", decimals, value)
	}
}

// CLI renders the record as a text block with section headers and a
// timestamped footer. Only present fields are rendered.
func CLI(rec domain.AnalysisRecord) string {
	banner := strings.Repeat("=", bannerWidth)
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString(centerLine(fmt.Sprintf("CityScout Analysis: %s, %s", rec.City, rec.State)) + "\n")
	b.WriteString(banner + "\n")

	b.WriteString("\nDEMOGRAPHICS\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if rec.TotalPopulation != nil {
		fmt.Fprintf(&b, "Population: %s\n", Number(float64(*rec.TotalPopulation), 0))
	}
	if rec.PopulationGrowth5Yr != nil {
		fmt.Fprintf(&b, "5-Year Growth (est.): %s\n", Percent(*rec.PopulationGrowth5Yr))
	}
	if rec.MedianHouseholdIncome != nil {
		fmt.Fprintf(&b, "Median Income: %s\n", Currency(float64(*rec.MedianHouseholdIncome)))
	}

	b.WriteString("\nEMPLOYMENT\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if rec.UnemploymentRate != nil {
		fmt.Fprintf(&b, "Unemployment Rate: %s\n", Percent(*rec.UnemploymentRate))
	}
	if rec.UnemploymentRateNote != "" {
		fmt.Fprintf(&b, "Unemployment Rate: unavailable (%s)\n", rec.UnemploymentRateNote)
	}
	if rec.EmploymentLevel != nil {
		fmt.Fprintf(&b, "Employment Level: %s\n", Number(float64(*rec.EmploymentLevel), 1))
	}
	if rec.LaborForce != nil {
		fmt.Fprintf(&b, "Labor Force: %s\n", Number(float64(*rec.LaborForce), 1))
	}
	if rec.EmploymentRate != nil {
		fmt.Fprintf(&b, "Employment Rate: %s\n", Percent(*rec.EmploymentRate))
	}
	if rec.EmploymentNote != "" {
		fmt.Fprintf(&b, "Employment Data: unavailable (%s)\n", rec.EmploymentNote)
	}

	b.WriteString("\n" + banner + "\n")
	fmt.Fprintf(&b, "Generated on: %s\n", clock.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(banner)

	return b.String()
}

// centerLine pads a title to sit centered within the banner width. Width is
// measured in display cells, not bytes.
func centerLine(s string) string {
	pad := (bannerWidth - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// jsonDocument is the three-section JSON projection with its fixed field
// allowlist. Missing values serialize as null, never disappear.
type jsonDocument struct {
	Metadata     jsonMetadata     `json:"metadata"`
	CityInfo     jsonCityInfo     `json:"city_info"`
	Demographics jsonDemographics `json:"demographics"`
}

type jsonMetadata struct {
	GeneratedAt string `json:"generated_at"`
	Tool        string `json:"tool"`
	Version     string `json:"version"`
}

type jsonCityInfo struct {
	City         string `json:"city"`
	State        string `json:"state"`
	AnalysisDate string `json:"analysis_date"`
}

type jsonDemographics struct {
	TotalPopulation       *int     `json:"total_population"`
	PopulationGrowth5Yr   *float64 `json:"population_growth_5yr"`
	MedianHouseholdIncome *int     `json:"median_household_income"`
	UnemploymentRate      *float64 `json:"unemployment_rate"`
}

// JSON renders the record as an indented three-section document.
func JSON(rec domain.AnalysisRecord) string {
	now := clock.Now()
	doc := jsonDocument{
		Metadata: jsonMetadata{
			GeneratedAt: now.Format("2006-01-02T15:04:05Z07:00"),
			Tool:        "CityScout",
			Version:     "1.0.0",
		},
		CityInfo: jsonCityInfo{
			City:         rec.City,
			State:        rec.State,
			AnalysisDate: now.Format("2006-01-02"),
		},
		Demographics: jsonDemographics{
			TotalPopulation:       rec.TotalPopulation,
			PopulationGrowth5Yr:   rec.PopulationGrowth5Yr,
			MedianHouseholdIncome: rec.MedianHouseholdIncome,
			UnemploymentRate:      rec.UnemploymentRate,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "format JSON output: %s"}`, err)
	}
	return string(data)
}

// csvHeaders is the fixed CSV header row.
var csvHeaders = []string{
	"City", "State", "Population", "Population Growth 5yr (%)",
	"Median Income", "Unemployment Rate (%)", "Analysis Date",
}

// CSV renders the record as a fixed header row plus one data row. Every value
// is double-quoted; missing values render as empty strings.
func CSV(rec domain.AnalysisRecord) string {
	values := []string{
		rec.City,
		rec.State,
		csvInt(rec.TotalPopulation),
		csvFloat(rec.PopulationGrowth5Yr),
		csvInt(rec.MedianHouseholdIncome),
		csvFloat(rec.UnemploymentRate),
		clock.Now().Format("2006-01-02"),
	}

	return quoteRow(csvHeaders) + "\n" + quoteRow(values)
}

func quoteRow(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ",")
}

func csvInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
