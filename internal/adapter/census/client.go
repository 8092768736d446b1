// Package census implements domain.DemographicsSource against the Census
// Bureau American Community Survey (ACS) API.
package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/couchcryptid/cityscout-service/internal/observability"
)

// noDataSentinel is the ACS marker for suppressed or unavailable values.
// It maps to 0 for compatibility with existing consumers; see the domain
// package docs for the caveat this carries.
const noDataSentinel = "-999999999"

const metricsSource = "census"

// dataset is one entry in the ordered fallback chain. More recent estimates
// are preferred but cover fewer places, so the chain walks from the newest
// 1-year estimate down to the older 5-year one and stops at the first answer.
type dataset struct {
	path        string
	description string
}

var datasets = []dataset{
	{path: "2022/acs/acs1", description: "1-year estimates 2022"},
	{path: "2022/acs/acs5", description: "5-year estimates 2022"},
	{path: "2021/acs/acs1", description: "1-year estimates 2021"},
	{path: "2021/acs/acs5", description: "5-year estimates 2021"},
}

// placesDataset is the dataset used to resolve place FIPS codes. 5-year
// estimates enumerate every place in a state.
const placesDataset = "2021/acs/acs5"

// Client implements domain.DemographicsSource using the ACS API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a census API client. The API key may be empty; the ACS
// API serves a limited request quota without one.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.census.gov/data",
		logger:  logger,
		metrics: metrics,
	}
}

// SetBaseURL points the client at a different API root, for local development
// against a mock upstream.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Demographics resolves the place FIPS code for the city, then walks the
// dataset fallback chain and returns population and income from the first
// dataset that answers. An empty record (with an error) comes back when
// resolution fails or every dataset refuses.
func (c *Client) Demographics(ctx context.Context, city, state string) (domain.Demographics, error) {
	placeFIPS, err := c.placeFIPS(ctx, city, state)
	if err != nil {
		return domain.Demographics{}, fmt.Errorf("resolve place FIPS for %s, %s: %w", city, state, err)
	}

	stateFIPS := domain.StateFIPS(state)
	for _, ds := range datasets {
		rec, err := c.queryDataset(ctx, ds, placeFIPS, stateFIPS)
		if err != nil {
			c.logger.Debug("census dataset unavailable",
				"dataset", ds.description, "city", city, "state", state, "error", err)
			continue
		}
		c.logger.Info("census data resolved",
			"dataset", ds.description, "city", city, "state", state)
		rec.Source = ds.description
		return rec, nil
	}

	return domain.Demographics{}, fmt.Errorf("no census dataset available for %s, %s", city, state)
}

// PopulationGrowth returns best-effort growth estimates. Computing real
// growth needs two time-separated population snapshots per place; until that
// series is wired in, these are static placeholders.
func (c *Client) PopulationGrowth(_ context.Context, _, _ string) (domain.PopulationGrowth, error) {
	oneYear := 2.1
	fiveYear := 8.5
	return domain.PopulationGrowth{OneYear: &oneYear, FiveYear: &fiveYear}, nil
}

// placeFIPS scans the state's place listing for the first place whose name
// contains the city, case-insensitively. ACS place names carry suffixes like
// "Tampa city, Florida", so an exact match would never hit.
func (c *Client) placeFIPS(ctx context.Context, city, state string) (string, error) {
	params := url.Values{
		"get": {"NAME"},
		"for": {"place:*"},
		"in":  {"state:" + domain.StateFIPS(state)},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	rows, err := c.get(ctx, fmt.Sprintf("%s/%s?%s", c.baseURL, placesDataset, params.Encode()))
	if err != nil {
		return "", err
	}

	cityLower := strings.ToLower(city)
	for _, row := range rows[1:] { // skip header row
		if len(row) == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(row[0]), cityLower) {
			return row[len(row)-1], nil
		}
	}
	return "", fmt.Errorf("place %q not found in state %s", city, state)
}

// queryDataset fetches total population and median household income for one
// place from one dataset.
func (c *Client) queryDataset(ctx context.Context, ds dataset, placeFIPS, stateFIPS string) (domain.Demographics, error) {
	params := url.Values{
		"get": {"B01003_001E,B19013_001E"},
		"for": {"place:" + placeFIPS},
		"in":  {"state:" + stateFIPS},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	rows, err := c.get(ctx, fmt.Sprintf("%s/%s?%s", c.baseURL, ds.path, params.Encode()))
	if err != nil {
		return domain.Demographics{}, err
	}
	if len(rows) < 2 || len(rows[1]) < 2 {
		return domain.Demographics{}, fmt.Errorf("dataset %s returned no data rows", ds.path)
	}

	row := rows[1]
	population := parseSentinelInt(row[0])
	income := parseSentinelInt(row[1])
	return domain.Demographics{
		TotalPopulation:       &population,
		MedianHouseholdIncome: &income,
	}, nil
}

// get performs one ACS request and decodes the array-of-arrays payload.
func (c *Client) get(ctx context.Context, fullURL string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(metricsSource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		return nil, fmt.Errorf("census request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("census API error: status %d: %s", resp.StatusCode, body)
	}

	var rows [][]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(rows) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "empty").Inc()
		return nil, fmt.Errorf("census API returned an empty payload")
	}

	c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "success").Inc()
	return rows, nil
}

// parseSentinelInt converts an ACS value, mapping the no-data sentinel and
// unparseable values to 0.
func parseSentinelInt(s string) int {
	if s == noDataSentinel {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
