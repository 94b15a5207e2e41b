package addressapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"location-dedup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const databaseBody = `[
	{"ADR_NAME1":"Duvenbeck","ADR_NAME2":"Logistik","ADR_STRASSE":"Wesel 1","ADR_LND":"D","ADR_PLZ":"46395",
	 "ADR_ORT":"Bocholt","ADR_LATITUDE2":6.6108,"ADR_LONGITUDE2":51.8388,
	 "ADR_LATITUDE_MERCATOR2":0,"ADR_LONGITUDE_MERCATOR2":0},
	{"ADR_NAME1":"Spedition Nord","ADR_NAME2":null,"ADR_STRASSE":"Kai 7","ADR_LND":"NL","ADR_PLZ":"3011",
	 "ADR_ORT":"Rotterdam","ADR_LATITUDE2":4.4777,"ADR_LONGITUDE2":51.9244,
	 "ADR_LATITUDE_MERCATOR2":0,"ADR_LONGITUDE_MERCATOR2":0}
]`

func TestClient_MatchAddress(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/match-address", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req matchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"ADR_NAME1":"Duvenbeck","ADR_ORT":"Bocholt","ADR_LND":"D",
			"ADR_LATITUDE2":6.6108,"ADR_LONGITUDE2":51.8388,"confidence_percent":87}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	results, err := client.MatchAddress(context.Background(), "Duvenbeck Bocholt")

	require.NoError(t, err)
	assert.Equal(t, "Duvenbeck Bocholt", gotQuery)
	require.Len(t, results, 1)
	assert.Equal(t, "Duvenbeck", results[0].Name1)
	assert.Equal(t, 87.0, results[0].ConfidencePercent)
}

func TestClient_FetchDatabase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/address-database", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(databaseBody))
	}))
	defer server.Close()

	rows, err := NewClient(server.URL).FetchDatabase(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Name2)
	assert.Equal(t, "Logistik", *rows[0].Name2)
	assert.Nil(t, rows[1].Name2)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errPart string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			errPart: "500",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			errPart: "decode",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			errPart: "/address-database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, WithTimeouts(50*time.Millisecond, 50*time.Millisecond))
			_, err := client.FetchDatabase(context.Background())

			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errPart), err.Error())
		})
	}
}

func TestSource_ExistingLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(databaseBody))
	}))
	defer server.Close()

	locs, err := NewSource(NewClient(server.URL)).ExistingLocations(context.Background())

	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Duvenbeck Logistik", locs[0].Name)
	assert.Equal(t, "Germany", locs[0].Country)
	assert.Equal(t, "NL", locs[1].Country)
	assert.Equal(t, models.Coord(51.9244), locs[1].Latitude)
}
