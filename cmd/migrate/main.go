// Command migrate applies versioned SQL migrations to the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"warbler/internal/config"
	"warbler/internal/database"

	"github.com/jackc/pgx/v5"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DBDriver != "postgres" {
		return fmt.Errorf("migrate supports postgres only, DB_DRIVER is %q", cfg.DBDriver)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := ensureVersionTable(ctx, conn); err != nil {
		return err
	}

	migrations, err := database.LoadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		return migrateUp(ctx, conn, migrations, applied)
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: go run ./cmd/migrate down <version>")
		}
		return migrateDown(ctx, conn, migrations, applied, flag.Arg(1))
	case "status":
		for _, m := range migrations {
			state := "pending"
			if applied[m.Version] {
				state = "applied"
			}
			log.Printf("%s_%s: %s", m.Version, m.Name, state)
		}
		return nil
	default:
		return usage()
	}
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
}

func ensureVersionTable(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(16) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func appliedVersions(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migrateUp(ctx context.Context, conn *pgx.Conn, migrations []database.Migration, applied map[string]bool) error {
	ran := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s_%s failed: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		log.Printf("applied %s_%s", m.Version, m.Name)
		ran++
	}
	if ran == 0 {
		log.Println("database is up to date")
	}
	return nil
}

func migrateDown(ctx context.Context, conn *pgx.Conn, migrations []database.Migration, applied map[string]bool, version string) error {
	for _, m := range migrations {
		if m.Version != version {
			continue
		}
		if !applied[m.Version] {
			return fmt.Errorf("migration %s is not applied", version)
		}
		if m.DownSQL == "" {
			return fmt.Errorf("migration %s has no down script", version)
		}
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, m.DownSQL); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("rollback %s_%s failed: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.Version); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		log.Printf("rolled back %s_%s", m.Version, m.Name)
		return nil
	}
	return fmt.Errorf("unknown migration version %q", version)
}
