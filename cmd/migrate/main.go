// Command migrate applies the invoice_records schema migrations.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"smartinvoice/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("opening migrations: %v", err)
	}
	defer m.Close()

	if err := run(m, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(m *migrate.Migrate, args []string) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating up: %w", err)
		}
		log.Println("schema is up to date")
		return nil

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating down: %w", err)
		}
		log.Println("schema reverted")
		return nil

	case "steps":
		if len(args) < 2 {
			return errors.New("steps requires a number argument")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid steps argument %q: %w", args[1], err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("stepping %d: %w", n, err)
		}
		log.Printf("applied %d migration steps", n)
		return nil

	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid force argument %q: %w", args[1], err)
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("forcing version %d: %w", v, err)
		}
		log.Printf("forced schema version to %d", v)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("reading version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
