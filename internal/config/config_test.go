package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: app
  password: secret
  name: resumelens
minio:
  endpoint: blob.internal:9000
  bucketName: resumes
analyzer:
  mode: remote
  baseURL: https://analyzer.internal
auth:
  tokens:
    tok-1:
      uid: alice
      displayName: Alice
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://analyzer.internal", cfg.Analyzer.BaseURL)
	assert.Equal(t, "alice", cfg.Auth.Tokens["tok-1"].UID)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `server: {}`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "remote", cfg.Analyzer.Mode)
	assert.Equal(t, DefaultAnalyzerURL, cfg.Analyzer.BaseURL)
}

func TestAnalyzerURLEnvOverride(t *testing.T) {
	t.Setenv("ANALYZER_API_URL", "http://analyzer.test:8000")

	cfg, err := Load(writeConfig(t, `
analyzer:
  baseURL: http://from-file:8000
`))
	require.NoError(t, err)
	assert.Equal(t, "http://analyzer.test:8000", cfg.Analyzer.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 3306
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "resumelens"

	assert.Equal(t,
		"app:pw@tcp(127.0.0.1:3306)/resumelens?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}
