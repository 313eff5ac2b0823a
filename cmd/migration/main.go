package main

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strconv"
	"time"
	"turnovers/cmd/migration/initialize"
	"turnovers/cmd/migration/seed"
	"turnovers/config"
	"turnovers/internal/database"
	. "turnovers/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	dialect = "postgres"
	// sql-migrate bookkeeping table
	migrationTable = "gorp_migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationSource = &migrate.EmbedFileSystemMigrationSource{
	FileSystem: migrationFiles,
	Root:       "migrations",
}

var models = []any{
	&Turnover{},
}

// migrator carries the connections for one command run.
type migrator struct {
	db     database.DB
	config config.Config
	log    logger.Logger
}

// usage: migration [up | down [steps] | seed | status]
func main() {
	log := logger.New("migrations").Function("main")

	cfg, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}

	m := migrator{db: db, config: cfg, log: log}
	err = m.run(os.Args[1:])

	if closeErr := db.Close(); closeErr != nil {
		log.Er("failed to close database", closeErr)
	}

	if err != nil {
		log.Er("migration command failed", err)
		os.Exit(1)
	}
}

func (m migrator) run(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "up":
		return m.up()
	case "down":
		steps, err := parseSteps(args[1:])
		if err != nil {
			return err
		}
		return m.down(steps)
	case "seed":
		return m.seed()
	case "status":
		return m.status()
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

// up creates the tables before the SQL files run so they can index and
// constrain them, then prepares the export directory.
func (m migrator) up() error {
	log := m.log.Function("up")

	if err := m.db.SQL.AutoMigrate(models...); err != nil {
		return log.Err("failed to auto migrate models", err)
	}

	applied, err := m.exec(migrate.Up, 0)
	if err != nil {
		return err
	}
	log.Info("Migrated up", "models", len(models), "applied", applied)

	return initialize.InitializeStorage(m.config, log)
}

func (m migrator) down(steps int) error {
	reverted, err := m.exec(migrate.Down, steps)
	if err != nil {
		return err
	}

	m.log.Function("down").Info("Migrated down", "requested", steps, "reverted", reverted)
	return nil
}

// seed rebuilds the schema from nothing and loads sample turnovers around today.
func (m migrator) seed() error {
	log := m.log.Function("seed")

	schema := m.db.SQL.Migrator()
	if err := schema.DropTable(models...); err != nil {
		return log.Err("failed to drop tables", err)
	}
	if err := schema.DropTable(migrationTable); err != nil {
		log.Warn("failed to drop migration table", "error", err)
	}

	if err := m.db.FlushAllCaches(); err != nil {
		return err
	}

	if err := m.up(); err != nil {
		return err
	}

	location, err := m.config.Location()
	if err != nil {
		return log.Err("failed to resolve timezone", err)
	}

	return seed.Seed(m.db.SQL, time.Now(), location, log)
}

func (m migrator) status() error {
	log := m.log.Function("status")

	return m.withSQL(func(db *sql.DB) error {
		records, err := migrate.GetMigrationRecords(db, dialect)
		if err != nil {
			return log.Err("failed to read migration records", err)
		}

		for _, record := range records {
			log.Info("Applied", "id", record.Id, "appliedAt", record.AppliedAt)
		}
		log.Info("Migration status", "applied", len(records))
		return nil
	})
}

func (m migrator) exec(direction migrate.MigrationDirection, maxSteps int) (int, error) {
	var applied int

	err := m.withSQL(func(db *sql.DB) error {
		var err error
		applied, err = migrate.ExecMax(db, dialect, migrationSource, direction, maxSteps)
		if err != nil {
			return m.log.Function("exec").Err("failed to execute migrations", err)
		}
		return nil
	})

	return applied, err
}

// withSQL opens a plain database/sql connection for sql-migrate.
func (m migrator) withSQL(fn func(*sql.DB) error) error {
	db, err := sql.Open(dialect, database.DSN(m.config))
	if err != nil {
		return m.log.Function("withSQL").Err("failed to open database for migrations", err)
	}
	defer db.Close()

	return fn(db)
}
