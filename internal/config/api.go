package config

import (
	"cmp"
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/moodlog/pkg/formatting"
	"github.com/JaimeStill/moodlog/pkg/middleware"
	"github.com/JaimeStill/moodlog/pkg/openapi"
	"github.com/JaimeStill/moodlog/pkg/pagination"
)

const (
	EnvAPIBasePath      = "MOODLOG_API_BASE_PATH"
	EnvAPIMaxUploadSize = "MOODLOG_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize int64 = 10 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MOODLOG_CORS_ENABLED",
	Origins:          "MOODLOG_CORS_ORIGINS",
	AllowedMethods:   "MOODLOG_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MOODLOG_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MOODLOG_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MOODLOG_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MOODLOG_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MOODLOG_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "MOODLOG_OPENAPI_TITLE",
	Description: "MOODLOG_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, upload limits, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the image upload limit in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize resolves the API settings and each nested config. The base path
// is normalized to a leading slash without a trailing one, so "api/" and
// "/api" mount identically. It must be a single path segment.
func (c *APIConfig) Finalize() error {
	c.BasePath = normalizeBasePath(cmp.Or(os.Getenv(EnvAPIBasePath), c.BasePath, "/api"))
	if c.BasePath == "" || strings.Contains(c.BasePath[1:], "/") {
		return fmt.Errorf("base_path %q must be a single path segment", c.BasePath)
	}
	c.MaxUploadSize = cmp.Or(os.Getenv(EnvAPIMaxUploadSize), c.MaxUploadSize, "10MB")

	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("max_upload_size: %w", err)
	}
	if size == 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}

	nested := []struct {
		name     string
		finalize func() error
	}{
		{"cors", func() error { return c.CORS.Finalize(corsEnv) }},
		{"pagination", func() error { return c.Pagination.Finalize(paginationEnv) }},
		{"openapi", func() error { return c.OpenAPI.Finalize(openapiEnv) }},
	}
	for _, n := range nested {
		if err := n.finalize(); err != nil {
			return fmt.Errorf("%s: %w", n.name, err)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	c.BasePath = cmp.Or(overlay.BasePath, c.BasePath)
	c.MaxUploadSize = cmp.Or(overlay.MaxUploadSize, c.MaxUploadSize)

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func normalizeBasePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
