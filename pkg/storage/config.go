package storage

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// MaxListCap is the largest page the blob service returns for a single list call.
const MaxListCap int32 = 5000

// containerPattern follows the blob service naming rules: 3 to 63 lowercase
// letters, digits, and single hyphens, starting and ending alphanumeric.
var containerPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Config holds Azure Blob Storage connection parameters. Storage is optional;
// when Enabled is false no client is created and archive features are off.
// ServiceURL authenticates with the default Azure credential chain and is
// only used when ConnectionString is empty.
type Config struct {
	Enabled          bool   `toml:"enabled"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Enabled          string
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	MaxListSize      string
}

// Finalize resolves each field from environment, then file, then default,
// and validates the result when storage is enabled.
func (c *Config) Finalize(env *Env) error {
	var e Env
	if env != nil {
		e = *env
	}

	if b, err := strconv.ParseBool(getenv(e.Enabled)); err == nil {
		c.Enabled = b
	}
	c.ContainerName = cmp.Or(getenv(e.ContainerName), c.ContainerName, "mood-exports")
	c.ConnectionString = cmp.Or(getenv(e.ConnectionString), c.ConnectionString)
	c.ServiceURL = cmp.Or(getenv(e.ServiceURL), c.ServiceURL)

	if n, err := strconv.ParseInt(getenv(e.MaxListSize), 10, 32); err == nil && n > 0 {
		c.MaxListSize = int32(n)
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)

	if !c.Enabled {
		return nil
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Enabled only ever turns on.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = c.Enabled || overlay.Enabled
	c.ContainerName = cmp.Or(overlay.ContainerName, c.ContainerName)
	c.ConnectionString = cmp.Or(overlay.ConnectionString, c.ConnectionString)
	c.ServiceURL = cmp.Or(overlay.ServiceURL, c.ServiceURL)
	c.MaxListSize = cmp.Or(overlay.MaxListSize, c.MaxListSize)
}

func (c *Config) validate() error {
	var errs []error

	if n := len(c.ContainerName); n < 3 || n > 63 || !containerPattern.MatchString(c.ContainerName) {
		errs = append(errs, fmt.Errorf("container_name %q is not a valid container name", c.ContainerName))
	}

	switch {
	case c.ConnectionString != "":
	case c.ServiceURL == "":
		errs = append(errs, errors.New("connection_string required unless service_url is set"))
	default:
		u, err := url.Parse(c.ServiceURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			errs = append(errs, fmt.Errorf("service_url %q must be an absolute http(s) URL", c.ServiceURL))
		}
	}

	return errors.Join(errs...)
}

func getenv(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(key))
}
