package main

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/moodlog/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

var dbEnv = &database.Env{
	Host:     "MOODLOG_DB_HOST",
	Port:     "MOODLOG_DB_PORT",
	Name:     "MOODLOG_DB_NAME",
	User:     "MOODLOG_DB_USER",
	Password: "MOODLOG_DB_PASSWORD",
	SSLMode:  "MOODLOG_DB_SSL_MODE",
}

type cli struct {
	DSN string `help:"Database URL. Defaults to one built from MOODLOG_DB_* variables." env:"MOODLOG_DB_DSN"`

	Up      upCmd      `cmd:"" help:"Apply all pending migrations."`
	Down    downCmd    `cmd:"" help:"Revert all migrations."`
	Steps   stepsCmd   `cmd:"" help:"Apply N migrations (negative reverts)."`
	Version versionCmd `cmd:"" help:"Print the current migration version."`
	Force   forceCmd   `cmd:"" help:"Force the recorded version without running migrations."`
}

type upCmd struct{}

func (upCmd) Run(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("up migrations: %w", err)
	}
	fmt.Println("migrations applied successfully")
	return nil
}

type downCmd struct{}

func (downCmd) Run(m *migrate.Migrate) error {
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("down migrations: %w", err)
	}
	fmt.Println("migrations reverted successfully")
	return nil
}

type stepsCmd struct {
	N int `arg:"" help:"Number of migrations to apply."`
}

func (c stepsCmd) Run(m *migrate.Migrate) error {
	if err := m.Steps(c.N); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("step migrations: %w", err)
	}
	fmt.Printf("applied %d migration steps\n", c.N)
	return nil
}

type versionCmd struct{}

func (versionCmd) Run(m *migrate.Migrate) error {
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	return nil
}

type forceCmd struct {
	Version int `arg:"" help:"Version to record."`
}

func (c forceCmd) Run(m *migrate.Migrate) error {
	if err := m.Force(c.Version); err != nil {
		return fmt.Errorf("force version: %w", err)
	}
	fmt.Printf("forced to version %d\n", c.Version)
	return nil
}

func (c *cli) dsn() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	cfg := &database.Config{}
	if err := cfg.Finalize(dbEnv); err != nil {
		return "", fmt.Errorf("database config: %w", err)
	}
	return cfg.URL(), nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("migrate"),
		kong.Description("Manage the moodlog Postgres schema."),
		kong.UsageOnError(),
	)

	dsn, err := c.dsn()
	if err != nil {
		log.Fatal(err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		log.Fatalf("failed to create migration source: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	ctx.FatalIfErrorf(ctx.Run(m))
}
