package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "api", cfg.LocationSource)
	assert.Equal(t, 0.5, cfg.Matching.MinSimilarity)
	assert.Equal(t, 3, cfg.Matching.MaxResults)
	assert.Equal(t, "factor_count", cfg.Matching.Aggregation)
	assert.Equal(t, 10*time.Second, cfg.AddressAPI.MatchTimeout)
	assert.Equal(t, 15*time.Second, cfg.AddressAPI.DatabaseTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server_address: ":9090"
location_source: postgres
matching:
  aggregation: weight
  max_results: 5
address_api:
  base_url: http://addresses.internal
  match_timeout: 3s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(yaml), 0o600))
	t.Setenv("ADDRESS_API_BASE_URL", "http://override.internal")
	t.Setenv("MATCHING_MIN_SIMILARITY", "0.6")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "postgres", cfg.LocationSource)
	assert.Equal(t, "weight", cfg.Matching.Aggregation)
	assert.Equal(t, 5, cfg.Matching.MaxResults)
	assert.Equal(t, 0.6, cfg.Matching.MinSimilarity)
	assert.Equal(t, "http://override.internal", cfg.AddressAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.AddressAPI.MatchTimeout)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("matching: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
