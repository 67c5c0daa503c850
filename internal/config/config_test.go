package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/moodlog/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "2m"
shutdown_timeout = "30s"

[store]
driver = "postgres"
max_scan = 500

[database]
host = "localhost"
port = 5432
name = "moodlog"
user = "moodlog"
password = "moodlog"
ssl_mode = "disable"

[storage]
enabled = true
container_name = "mood-exports"
connection_string = "DefaultEndpointsProtocol=http;AccountName=moodstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/moodstore;"

[classifier]
provider = "openai"
base_url = "http://localhost:11434/v1"
model = "llava:13b"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[classifier]
provider = "anthropic"
model = "claude-sonnet-4-5"
`

const minimalConfig = `
[database]
user = "moodlog"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func loadBase(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadBase(t)

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != config.DriverPostgres {
		t.Errorf("store driver: got %s, want postgres", cfg.Store.Driver)
	}
	if cfg.Store.MaxScan != 500 {
		t.Errorf("store max_scan: got %d, want 500", cfg.Store.MaxScan)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if !cfg.Storage.Enabled || cfg.Storage.ContainerName != "mood-exports" {
		t.Errorf("storage: got enabled=%v container=%s", cfg.Storage.Enabled, cfg.Storage.ContainerName)
	}
	if cfg.Classifier.Model != "llava:13b" {
		t.Errorf("classifier model: got %s, want llava:13b", cfg.Classifier.Model)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Chdir(dir)

	t.Setenv(config.EnvMoodlogEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Classifier.Provider != config.ProviderAnthropic {
		t.Errorf("classifier provider: got %s, want anthropic", cfg.Classifier.Provider)
	}
	if cfg.Classifier.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("classifier base_url should remain from base, got %s", cfg.Classifier.BaseURL)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	t.Setenv(config.EnvMoodlogVersion, "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv(config.EnvStoreMaxScan, "250")
	t.Setenv(config.EnvClassifierToken, "sk-test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Store.MaxScan != 250 {
		t.Errorf("max_scan: got %d, want 250", cfg.Store.MaxScan)
	}
	if cfg.Classifier.Token != "sk-test" {
		t.Errorf("classifier token: got %q", cfg.Classifier.Token)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("MOODLOG_DB_NAME", "testdb")
	t.Setenv("MOODLOG_DB_USER", "testuser")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.Enabled {
		t.Error("storage should default to disabled")
	}
	if cfg.Store.MaxScan != 1000 {
		t.Errorf("max_scan default: got %d, want 1000", cfg.Store.MaxScan)
	}
	if cfg.Classifier.Provider != config.ProviderOpenAI {
		t.Errorf("classifier provider default: got %s, want openai", cfg.Classifier.Provider)
	}
}

func TestLoadMongoDriverSkipsDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv(config.EnvStoreDriver, "mongo")
	t.Setenv("MOODLOG_MONGO_URI", "mongodb://mongo:27017")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Mongo.URI != "mongodb://mongo:27017" {
		t.Errorf("mongo uri: got %s", cfg.Mongo.URI)
	}
	if cfg.Mongo.Collection != "mood_entries" {
		t.Errorf("mongo collection: got %s, want mood_entries", cfg.Mongo.Collection)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, `[server`)
	t.Chdir(dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv(config.EnvMoodlogEnv, "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := loadBase(t)
	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := loadBase(t)
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestServerTimeouts(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvServerIdleTimeout, "45s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"read", cfg.Server.ReadTimeoutDuration(), time.Minute},
		{"read header", cfg.Server.ReadHeaderTimeoutDuration(), 10 * time.Second},
		{"write", cfg.Server.WriteTimeoutDuration(), 2 * time.Minute},
		{"idle from env", cfg.Server.IdleTimeoutDuration(), 45 * time.Second},
		{"shutdown", cfg.Server.ShutdownTimeoutDuration(), 30 * time.Second},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s timeout: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
	if cfg.API.OpenAPI.Title != "Moodlog API" {
		t.Errorf("openapi title: got %s", cfg.API.OpenAPI.Title)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 512KB", "512KB", 512 * 1024},
		{"invalid falls back to 10MB", "bad", 10 * 1024 * 1024},
		{"empty falls back to 10MB", "", 10 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBasePathNormalized(t *testing.T) {
	for _, raw := range []string{"moods", "/moods/", "moods/"} {
		t.Run(raw, func(t *testing.T) {
			cfg := &config.APIConfig{BasePath: raw}
			if err := cfg.Finalize(); err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			if cfg.BasePath != "/moods" {
				t.Errorf("base_path = %q, want /moods", cfg.BasePath)
			}
		})
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	t.Setenv(config.EnvAPIMaxUploadSize, "2MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := cfg.API.MaxUploadSizeBytes(); got != 2*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, 2*1024*1024)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n[database]\nuser = \"moodlog\"\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid read_timeout",
			config:  "[server]\nread_timeout = \"bad\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "invalid read_timeout",
		},
		{
			name:    "unsupported store driver",
			config:  "[store]\ndriver = \"sqlite\"\n",
			wantErr: "unsupported driver",
		},
		{
			name:    "unsupported classifier provider",
			config:  "[classifier]\nprovider = \"deepface\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "unsupported provider",
		},
		{
			name:    "storage enabled without connection string",
			config:  "[storage]\nenabled = true\n[database]\nuser = \"moodlog\"\n",
			wantErr: "connection_string required",
		},
		{
			name:    "unknown log level",
			config:  "[logging]\nlevel = \"verbose\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "logging: invalid level",
		},
		{
			name:    "unknown log format",
			config:  "[logging]\nformat = \"yaml\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "logging: unsupported format",
		},
		{
			name:    "nested base_path",
			config:  "[api]\nbase_path = \"/api/v1\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "single path segment",
		},
		{
			name:    "zero max_upload_size",
			config:  "[api]\nmax_upload_size = \"0B\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "max_upload_size must be positive",
		},
		{
			name:    "invalid shutdown_timeout",
			config:  "shutdown_timeout = \"eventually\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "invalid shutdown_timeout",
		},
		{
			name:    "invalid max_upload_size",
			config:  "[api]\nmax_upload_size = \"lots\"\n[database]\nuser = \"moodlog\"\n",
			wantErr: "max_upload_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.config)
			t.Chdir(dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
