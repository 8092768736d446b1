//go:build bls

package bls

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real BLS API and require a valid BLS_API_KEY env var.
// Run with: go test -tags=bls ./internal/adapter/bls/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("BLS_API_KEY")
	if key == "" {
		t.Fatal("BLS_API_KEY must be set to run smoke tests")
	}
	return &Client{
		apiKey:     key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.bls.gov/publicAPI/v2/timeseries/data/",
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestSmoke_UnemploymentRate(t *testing.T) {
	c := smokeClient(t)

	unemp, err := c.UnemploymentRate(context.Background(), "FL")
	require.NoError(t, err)

	require.NotNil(t, unemp.Rate)
	assert.Greater(t, *unemp.Rate, 0.0)
	assert.Less(t, *unemp.Rate, 25.0, "statewide unemployment should be a plausible percentage")
	require.NotNil(t, unemp.Year)
	require.NotNil(t, unemp.Period)
}

func TestSmoke_EmploymentData(t *testing.T) {
	c := smokeClient(t)

	emp, err := c.EmploymentData(context.Background(), "FL")
	require.NoError(t, err)

	require.NotNil(t, emp.Level)
	require.NotNil(t, emp.Force)
	assert.Greater(t, *emp.Force, *emp.Level, "labor force includes the unemployed")
	require.NotNil(t, emp.Rate)
	assert.Greater(t, *emp.Rate, 50.0)
	assert.LessOrEqual(t, *emp.Rate, 100.0)
}
