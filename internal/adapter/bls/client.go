// Package bls implements domain.LaborSource against the Bureau of Labor
// Statistics public time-series API.
package bls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/couchcryptid/cityscout-service/internal/observability"
)

const (
	metricsSource = "bls"

	// keyMissingNote explains nulled labor fields when no registration key
	// is configured. Surfaced verbatim in *_note record fields.
	keyMissingNote = "BLS API key not configured"

	statusSucceeded = "REQUEST_SUCCEEDED"
)

// Series identifier suffixes for Local Area Unemployment Statistics.
// Full identifiers are "LAUS" + state FIPS + suffix.
const (
	suffixUnemploymentRate = "0000000000003"
	suffixEmploymentLevel  = "0000000000005"
	suffixLaborForce       = "0000000000006"
)

// Client implements domain.LaborSource using the BLS time-series API.
// Without a registration key the client degrades every lookup to null fields
// with an explanatory note instead of erroring.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a BLS API client. An empty API key disables lookups.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	c := &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.bls.gov/publicAPI/v2/timeseries/data/",
		logger:  logger,
		metrics: metrics,
	}
	if apiKey == "" {
		logger.Warn("BLS API key not configured, labor fields will be unavailable")
	}
	return c
}

// SetBaseURL points the client at a different API endpoint, for local
// development against a mock upstream.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// seriesRequest is the POST body for the time-series endpoint.
type seriesRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// seriesResponse mirrors the relevant parts of the BLS payload. Observations
// arrive most recent first.
type seriesResponse struct {
	Status  string `json:"status"`
	Results struct {
		Series []series `json:"series"`
	} `json:"Results"`
}

type series struct {
	SeriesID string        `json:"seriesID"`
	Data     []observation `json:"data"`
}

type observation struct {
	Year   string `json:"year"`
	Period string `json:"period"`
	Value  string `json:"value"`
}

// UnemploymentRate returns the most recent state-level unemployment rate
// with its year and period. BLS has no city-level coverage for most cities,
// so state granularity is the contract here.
func (c *Client) UnemploymentRate(ctx context.Context, state string) (domain.Unemployment, error) {
	if c.apiKey == "" {
		return domain.Unemployment{Note: keyMissingNote}, nil
	}

	seriesID := "LAUS" + domain.StateFIPS(state) + suffixUnemploymentRate
	resp, err := c.query(ctx, seriesRequest{
		SeriesID:        []string{seriesID},
		StartYear:       "2022",
		EndYear:         "2023",
		RegistrationKey: c.apiKey,
	})
	if err != nil {
		return domain.Unemployment{}, fmt.Errorf("unemployment rate for %s: %w", state, err)
	}

	for _, s := range resp.Results.Series {
		if len(s.Data) == 0 {
			continue
		}
		latest := s.Data[0]
		rate, err := strconv.ParseFloat(latest.Value, 64)
		if err != nil {
			return domain.Unemployment{}, fmt.Errorf("parse unemployment rate %q: %w", latest.Value, err)
		}
		return domain.Unemployment{
			Rate:   &rate,
			Year:   &latest.Year,
			Period: &latest.Period,
		}, nil
	}
	return domain.Unemployment{}, fmt.Errorf("no unemployment series data for %s", state)
}

// EmploymentData returns employment level and labor force for the state,
// scaled from thousands to persons, plus the derived employment rate when
// both series resolved. A zero labor force yields domain.ErrZeroLaborForce
// alongside the partial record rather than an Inf rate.
func (c *Client) EmploymentData(ctx context.Context, state string) (domain.Employment, error) {
	if c.apiKey == "" {
		return domain.Employment{Note: keyMissingNote}, nil
	}

	fips := domain.StateFIPS(state)
	levelSeries := "LAUS" + fips + suffixEmploymentLevel
	forceSeries := "LAUS" + fips + suffixLaborForce

	resp, err := c.query(ctx, seriesRequest{
		SeriesID:        []string{levelSeries, forceSeries},
		StartYear:       "2020",
		EndYear:         "2023",
		RegistrationKey: c.apiKey,
	})
	if err != nil {
		return domain.Employment{}, fmt.Errorf("employment data for %s: %w", state, err)
	}

	var result domain.Employment
	for _, s := range resp.Results.Series {
		if len(s.Data) == 0 {
			continue
		}
		value, err := strconv.Atoi(s.Data[0].Value)
		if err != nil {
			return domain.Employment{}, fmt.Errorf("parse series %s value %q: %w", s.SeriesID, s.Data[0].Value, err)
		}
		scaled := value * 1000 // BLS reports thousands

		switch {
		case strings.Contains(s.SeriesID, levelSeries):
			result.Level = &scaled
		case strings.Contains(s.SeriesID, forceSeries):
			result.Force = &scaled
		}
	}

	if result.Level != nil && result.Force != nil {
		if *result.Force == 0 {
			return result, domain.ErrZeroLaborForce
		}
		rate := math.Round(float64(*result.Level)/float64(*result.Force)*100*10) / 10
		result.Rate = &rate
	}
	return result, nil
}

// query POSTs one series request and decodes the response.
func (c *Client) query(ctx context.Context, body seriesRequest) (seriesResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return seriesResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return seriesResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(metricsSource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		return seriesResponse{}, fmt.Errorf("bls request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return seriesResponse{}, fmt.Errorf("bls API error: status %d: %s", resp.StatusCode, respBody)
	}

	var decoded seriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		return seriesResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Status != statusSucceeded {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "error").Inc()
		return seriesResponse{}, fmt.Errorf("bls request status %q", decoded.Status)
	}
	if len(decoded.Results.Series) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "empty").Inc()
		return seriesResponse{}, fmt.Errorf("bls response contained no series")
	}

	c.metrics.UpstreamRequests.WithLabelValues(metricsSource, "success").Inc()
	return decoded, nil
}
