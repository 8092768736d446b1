// Package domain models city demographic analysis built from U.S. government
// statistical APIs.
//
// # Data Sources
//
// Demographic fields come from the Census Bureau American Community Survey
// (ACS) API at https://api.census.gov/data. Places (city-equivalent
// incorporated areas) are addressed by a state FIPS code plus a place FIPS
// code. ACS 1-year estimates are more recent but published only for larger
// places; 5-year estimates cover everything. The collector therefore tries
// dataset/year combinations in a fixed preference order and takes the first
// that answers (see the census adapter).
//
// Labor fields come from the Bureau of Labor Statistics (BLS) public
// time-series API. Local Area Unemployment Statistics series are
// state-granularity only, addressed by composite series identifiers built
// from the state FIPS code:
//
//	LAUS<fips>0000000000003  unemployment rate (percent)
//	LAUS<fips>0000000000005  employment level (thousands)
//	LAUS<fips>0000000000006  labor force (thousands)
//
// Employment level and labor force values are reported in thousands and are
// scaled up before they reach an AnalysisRecord.
//
// # Census Data Conventions
//
// The ACS API answers with a JSON array of arrays: a header row of variable
// names followed by data rows of strings. Variables used here:
//
//	B01003_001E  total population
//	B19013_001E  median household income (dollars)
//
// The string "-999999999" is the ACS sentinel for suppressed or unavailable
// values. For compatibility with existing consumers this maps to 0, which
// conflates "no data" with "value is zero" — a known data-quality caveat
// carried deliberately (see DESIGN.md).
//
// # Location Conventions
//
// A Location pairs a city name with a two-letter state code drawn from the
// fixed 51-entry table (50 states plus DC). City names accept letters,
// spaces, hyphens, apostrophes, and periods, 2-50 characters after trimming.
// Normalization title-cases words with special handling for hyphenated and
// apostrophized segments ("st. louis" → "St. Louis", "winston-salem" →
// "Winston-Salem"). Only leading and trailing whitespace is trimmed; interior
// runs of spaces pass through unchanged.
//
// # Merge Semantics
//
// An AnalysisRecord has a fixed key set. Fields a source could not supply are
// explicit JSON nulls, never silently omitted, so consumers always see a
// stable schema. A missing BLS credential additionally yields *_note fields
// explaining the gap. Partial data is always preferred over a hard failure:
// only input validation aborts an analysis.
package domain
