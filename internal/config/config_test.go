package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 90, cfg.Engine.Lookahead)
	assert.Equal(t, []int{30, 90, 365}, cfg.Engine.Forecast)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := `
server:
  port: 9090
  timezone: Europe/Lisbon
db:
  name: planner
engine:
  window: 14
  forecast: [7, 30]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("WEALTHFLOW_DB_HOST", "db.internal")
	t.Setenv("WEALTHFLOW_SERVER_TOKEN", "s3cret")
	t.Setenv("WEALTHFLOW_ENGINE_WINDOW", "21")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Server.Token)
	assert.Equal(t, "planner", cfg.Database.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 21, cfg.Engine.Window, "environment wins over the file")
	assert.Equal(t, []int{7, 30}, cfg.Engine.Forecast)
	assert.Equal(t, 45, cfg.Engine.Autopay, "untouched keys keep their default")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabase_ConnString(t *testing.T) {
	d := defaults().Database
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=wealthflow sslmode=disable", d.ConnString())

	d.Conn = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", d.ConnString())
}

func TestServer_Location(t *testing.T) {
	assert.Equal(t, time.UTC, Server{Timezone: "Nowhere/Imaginary"}.Location())
	assert.Equal(t, "UTC", Server{Timezone: "UTC"}.Location().String())
}
