// Command mockupstream serves canned Census and BLS responses for local
// development, so the service can run end to end without API keys or network
// access to the real upstreams.
//
// Usage:
//
//	go run ./cmd/mockupstream -addr :9090
//
// Then point the service at it:
//
//	CENSUS_BASE_URL=http://localhost:9090/census \
//	BLS_BASE_URL=http://localhost:9090/bls \
//	BLS_API_KEY=mock go run ./cmd/server
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// places is the mock state place listing, shared across all states for
// simplicity. Rows are [NAME, state FIPS, place FIPS].
var places = [][]string{
	{"NAME", "state", "place"},
	{"Tampa city, Florida", "12", "71000"},
	{"Orlando city, Florida", "12", "53000"},
	{"Miami city, Florida", "12", "45000"},
	{"Austin city, Texas", "48", "05000"},
	{"Portland city, Oregon", "41", "59000"},
}

// demographics maps place FIPS to [population, median income]. Unknown places
// fall back to the sentinel row to exercise suppressed-value handling.
var demographics = map[string][2]string{
	"71000": {"384959", "59893"},
	"53000": {"307573", "58968"},
	"45000": {"442241", "47860"},
	"05000": {"961855", "78691"},
	"59000": {"652503", "-999999999"},
}

type seriesRequest struct {
	SeriesID []string `json:"seriesid"`
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /census/", handleCensus(logger))
	mux.HandleFunc("POST /bls", handleBLS(logger))

	logger.Info("mock upstream listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("mock upstream failed", "error", err)
		os.Exit(1)
	}
}

func handleCensus(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forParam := r.URL.Query().Get("for")
		logger.Info("census request", "path", r.URL.Path, "for", forParam)

		if forParam == "place:*" {
			writeRows(w, places)
			return
		}

		placeFIPS := strings.TrimPrefix(forParam, "place:")
		stateFIPS := strings.TrimPrefix(r.URL.Query().Get("in"), "state:")
		values, ok := demographics[placeFIPS]
		if !ok {
			values = [2]string{"-999999999", "-999999999"}
		}
		writeRows(w, [][]string{
			{"B01003_001E", "B19013_001E", "state", "place"},
			{values[0], values[1], stateFIPS, placeFIPS},
		})
	}
}

func handleBLS(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		logger.Info("bls request", "series", req.SeriesID)

		series := make([]map[string]any, 0, len(req.SeriesID))
		for _, id := range req.SeriesID {
			series = append(series, map[string]any{
				"seriesID": id,
				"data": []map[string]string{
					{"year": "2023", "period": "M12", "value": seriesValue(id)},
					{"year": "2023", "period": "M11", "value": seriesValue(id)},
				},
			})
		}

		resp := map[string]any{
			"status": "REQUEST_SUCCEEDED",
			"Results": map[string]any{
				"series": series,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck // best-effort response
	}
}

// seriesValue returns a fixed observation per LAUS measure code: unemployment
// rate (03), employment level in thousands (05), labor force in thousands (06).
func seriesValue(seriesID string) string {
	switch {
	case strings.HasSuffix(seriesID, "03"):
		return "3.1"
	case strings.HasSuffix(seriesID, "05"):
		return "10500"
	case strings.HasSuffix(seriesID, "06"):
		return "10900"
	default:
		return "0"
	}
}

func writeRows(w http.ResponseWriter, rows [][]string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		fmt.Fprintln(os.Stderr, "encode response:", err)
	}
}
