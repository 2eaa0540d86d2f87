// cmd/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"clubnexus/internal/config"
	"clubnexus/internal/store/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
)

func main() {
	var (
		command = flag.String("command", "", "Migration command: up, down, version, force")
		steps   = flag.Int("steps", 0, "Number of migration steps (for up/down)")
		version = flag.Int("version", 0, "Migration version (for force)")
	)
	flag.Parse()

	if *command == "" {
		fmt.Println("Usage: migrate -command [up|down|version|force] [options]")
		fmt.Println("  up       - Apply pending migrations (all, or -steps N)")
		fmt.Println("  down     - Roll back -steps N migrations (default 1)")
		fmt.Println("  version  - Show the current migration version")
		fmt.Println("  force    - Force the version given by -version")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	m, err := postgres.NewMigrator(db)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("Failed to close migration instance: %v %v", srcErr, dbErr)
		}
	}()

	switch *command {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
		report("apply", err)
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		report("roll back", m.Steps(-n))
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("Failed to read version: %v", err)
		}
		fmt.Printf("Version %d (dirty: %t)\n", v, dirty)
	case "force":
		if err := m.Force(*version); err != nil {
			log.Fatalf("Failed to force version: %v", err)
		}
		fmt.Printf("Forced version %d\n", *version)
	default:
		log.Fatalf("Unknown command %q", *command)
	}
}

func report(action string, err error) {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Printf("Nothing to %s\n", action)
	case err != nil:
		log.Fatalf("Failed to %s migrations: %v", action, err)
	default:
		fmt.Printf("Migrations %s: done\n", action)
	}
}
