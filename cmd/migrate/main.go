package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/nusatech-dev/backoffice-api/internal/config"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate <up|down|redo|status|version|create> [args]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", usage)
	}
	command, rest := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "./migrations"
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("up: %w", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("down: %w", err)
		}
		fmt.Println("last migration rolled back")
	case "redo":
		if err := goose.Redo(db, dir); err != nil {
			return fmt.Errorf("redo: %w", err)
		}
		fmt.Println("last migration re-applied")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("status: %w", err)
		}
	case "version":
		if err := goose.Version(db, dir); err != nil {
			return fmt.Errorf("version: %w", err)
		}
	case "create":
		if len(rest) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, dir, rest[0], "sql"); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		fmt.Printf("created migration %s\n", rest[0])
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	return nil
}
