package main

import (
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/taskhive/taskhive-api/migrations"
)

// runMigrations applies the embedded goose migrations against the
// application database. Supported commands are up, down and status.
func (app *application) runMigrations(command string) error {
	log := app.logger.With("component", "migrations", "command", command)

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	log.Info("Starting migration operation")

	var err error
	switch command {
	case "up":
		err = goose.Up(app.db, ".")
	case "down":
		err = goose.Down(app.db, ".")
	case "status":
		err = goose.Status(app.db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or status)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("Migration operation finished", "duration", time.Since(start))
	return nil
}
