package openapi

import "os"

// Config holds the document's info metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize fills blank fields with defaults, then applies env overrides.
// It never fails; the error keeps the signature shared with other sections.
func (c *Config) Finalize(env *ConfigEnv) error {
	setDefault(&c.Title, "Moodlog API")
	setDefault(&c.Description, "Mood journal with image-based emotion detection.")

	if env != nil {
		setFromEnv(&c.Title, env.Title)
		setFromEnv(&c.Description, env.Description)
	}
	return nil
}

// Merge overwrites fields that overlay sets.
func (c *Config) Merge(overlay *Config) {
	override(&c.Title, overlay.Title)
	override(&c.Description, overlay.Description)
}

func override(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setFromEnv(field *string, key string) {
	if key == "" {
		return
	}
	override(field, os.Getenv(key))
}
