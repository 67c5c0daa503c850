package database

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds PostgreSQL connection and pool parameters. Durations are Go
// duration strings.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	ApplicationName string `toml:"application_name"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override Config. Blank names
// are not consulted.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

type stringField struct {
	dst *string
	env string
	def string
}

type intField struct {
	dst *int
	env string
	def int
}

func (c *Config) stringFields(env Env) []stringField {
	return []stringField{
		{&c.Host, env.Host, "localhost"},
		{&c.Name, env.Name, "moodlog"},
		{&c.User, env.User, ""},
		{&c.Password, env.Password, ""},
		{&c.SSLMode, env.SSLMode, "disable"},
		{&c.ApplicationName, env.ApplicationName, "moodlog"},
		{&c.ConnMaxLifetime, env.ConnMaxLifetime, "15m"},
		{&c.ConnTimeout, env.ConnTimeout, "5s"},
	}
}

func (c *Config) intFields(env Env) []intField {
	return []intField{
		{&c.Port, env.Port, 5432},
		{&c.MaxOpenConns, env.MaxOpenConns, 25},
		{&c.MaxIdleConns, env.MaxIdleConns, 5},
	}
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn returns a keyword/value connection string with every value quoted,
// so passwords containing spaces or quotes survive.
func (c *Config) Dsn() string {
	pairs := []struct{ k, v string }{
		{"host", c.Host},
		{"port", strconv.Itoa(c.Port)},
		{"dbname", c.Name},
		{"user", c.User},
		{"password", c.Password},
		{"sslmode", c.SSLMode},
		{"application_name", c.ApplicationName},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		parts = append(parts, p.k+"="+quote(p.v))
	}
	return strings.Join(parts, " ")
}

// URL returns the parameters as a postgres:// URL for the migration tool.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Finalize fills defaults, applies env overrides, and validates.
func (c *Config) Finalize(env *Env) error {
	var e Env
	if env != nil {
		e = *env
	}

	for _, f := range c.stringFields(e) {
		if *f.dst == "" {
			*f.dst = f.def
		}
		if v := lookup(f.env); v != "" {
			*f.dst = v
		}
	}
	for _, f := range c.intFields(e) {
		if *f.dst == 0 {
			*f.dst = f.def
		}
		if n, err := strconv.Atoi(lookup(f.env)); err == nil {
			*f.dst = n
		}
	}

	return c.validate()
}

// Merge overwrites fields that overlay sets.
func (c *Config) Merge(overlay *Config) {
	theirs := overlay.stringFields(Env{})
	for i, f := range c.stringFields(Env{}) {
		if v := *theirs[i].dst; v != "" {
			*f.dst = v
		}
	}

	theirInts := overlay.intFields(Env{})
	for i, f := range c.intFields(Env{}) {
		if v := *theirInts[i].dst; v != 0 {
			*f.dst = v
		}
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.User == "" {
		errs = append(errs, errors.New("user required"))
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errs = append(errs, fmt.Errorf("max_idle_conns %d exceeds max_open_conns %d", c.MaxIdleConns, c.MaxOpenConns))
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		errs = append(errs, fmt.Errorf("invalid conn_max_lifetime: %w", err))
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid conn_timeout: %w", err))
	}
	return errors.Join(errs...)
}

func lookup(key string) string {
	if key == "" {
		return ""
	}
	return os.Getenv(key)
}

func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
