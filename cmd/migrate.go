package cmd

import (
	"fmt"
	"io"
	"strconv"

	"nontransitive/config"
	"nontransitive/database"
)

// Migrate runs the migrate up|down [n]|status subcommands
func Migrate(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: migrate needs up, down or status", ErrUsage)
	}
	if !cfg.UsesDatabase() {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)

	switch args[0] {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: steps must be a positive integer, got %q", ErrUsage, args[1])
			}
			steps = n
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		version, dirty, err := database.MigrateStatus(databaseURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Current migration version: %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("%w: unknown migration command %q", ErrUsage, args[0])
	}
}
