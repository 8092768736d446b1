package census

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/cityscout-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-census-key"

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func writeRows(t *testing.T, w http.ResponseWriter, rows [][]string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(rows))
}

// placesHandler answers the place-listing query used for FIPS resolution.
func placesHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NAME", r.URL.Query().Get("get"))
		assert.Equal(t, "place:*", r.URL.Query().Get("for"))
		assert.Equal(t, "state:12", r.URL.Query().Get("in"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
		writeRows(t, w, [][]string{
			{"NAME", "state", "place"},
			{"Jacksonville city, Florida", "12", "35000"},
			{"Tampa city, Florida", "12", "71000"},
		})
	}
}

func TestClient_Demographics_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2021/acs/acs5", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("get") == "NAME" {
			placesHandler(t)(w, r)
			return
		}
		t.Fatalf("unexpected acs5 data query before 1-year datasets: %s", r.URL.RawQuery)
	})
	mux.HandleFunc("/2022/acs/acs1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "B01003_001E,B19013_001E", r.URL.Query().Get("get"))
		assert.Equal(t, "place:71000", r.URL.Query().Get("for"))
		assert.Equal(t, "state:12", r.URL.Query().Get("in"))
		writeRows(t, w, [][]string{
			{"B01003_001E", "B19013_001E", "state", "place"},
			{"384959", "59893", "12", "71000"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.Demographics(context.Background(), "Tampa", "FL")
	require.NoError(t, err)

	assert.Equal(t, 384959, *rec.TotalPopulation)
	assert.Equal(t, 59893, *rec.MedianHouseholdIncome)
	assert.Equal(t, "1-year estimates 2022", rec.Source)
}

func TestClient_Demographics_FallbackOrder(t *testing.T) {
	var queried []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("get") == "NAME" {
			placesHandler(t)(w, r)
			return
		}
		queried = append(queried, r.URL.Path)
		// 1-year estimates refuse small places; only the final 5-year
		// dataset answers.
		if r.URL.Path != "/2021/acs/acs5" {
			http.Error(w, "unsupported geography", http.StatusNotFound)
			return
		}
		writeRows(t, w, [][]string{
			{"B01003_001E", "B19013_001E", "state", "place"},
			{"24000", "48000", "12", "71000"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.Demographics(context.Background(), "Tampa", "FL")
	require.NoError(t, err)

	assert.Equal(t, []string{"/2022/acs/acs1", "/2022/acs/acs5", "/2021/acs/acs1", "/2021/acs/acs5"}, queried)
	assert.Equal(t, 24000, *rec.TotalPopulation)
	assert.Equal(t, "5-year estimates 2021", rec.Source)
}

func TestClient_Demographics_SentinelMapsToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("get") == "NAME" {
			placesHandler(t)(w, r)
			return
		}
		writeRows(t, w, [][]string{
			{"B01003_001E", "B19013_001E", "state", "place"},
			{"384959", "-999999999", "12", "71000"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL)
	rec, err := c.Demographics(context.Background(), "Tampa", "FL")
	require.NoError(t, err)

	assert.Equal(t, 384959, *rec.TotalPopulation)
	assert.Equal(t, 0, *rec.MedianHouseholdIncome)
}

func TestClient_Demographics_PlaceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeRows(t, w, [][]string{
			{"NAME", "state", "place"},
			{"Jacksonville city, Florida", "12", "35000"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Demographics(context.Background(), "Smallville", "FL")
	assert.ErrorContains(t, err, "resolve place FIPS")
}

func TestClient_Demographics_AllDatasetsFail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("get") == "NAME" {
			placesHandler(t)(w, r)
			return
		}
		http.Error(w, "unavailable", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Demographics(context.Background(), "Tampa", "FL")
	assert.ErrorContains(t, err, "no census dataset available")
}

func TestClient_PopulationGrowth_Placeholders(t *testing.T) {
	c := testClient("http://unused")
	growth, err := c.PopulationGrowth(context.Background(), "Tampa", "FL")
	require.NoError(t, err)

	assert.Equal(t, 2.1, *growth.OneYear)
	assert.Equal(t, 8.5, *growth.FiveYear)
}
