package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/stocker/backend/internal/infrastructure/config"
	"github.com/stocker/backend/internal/infrastructure/logger"
	"github.com/stocker/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up                  Apply all pending migrations
  down                Roll back the most recent migration
  steps <n>           Apply n migrations (negative rolls back)
  goto <version>      Migrate to a specific version
  version             Print the current migration version
  force <version>     Set the version without running migrations
  drop -confirm       Drop everything in the database
  create <name>       Create a new migration file pair
  list                List migration files

Flags:
  -path string        Migrations directory (default "migrations")
`

func main() {
	var (
		migrationsPath = flag.String("path", "migrations", "migrations directory")
		confirm        = flag.Bool("confirm", false, "confirm destructive operations")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command := args[0]

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "create requires a migration name")
			os.Exit(2)
		}
		file, err := migration.CreateMigration(*migrationsPath, args[1], "")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to create migration:", err)
			os.Exit(1)
		}
		fmt.Println("created", file.UpPath)
		fmt.Println("created", file.DownPath)
		return
	case "list":
		files, err := migration.ListMigrations(*migrationsPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to list migrations:", err)
			os.Exit(1)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	migrator, err := migration.New(db, *migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		_ = migrator.Close()
	}()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("steps requires a count")
		}
		n, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("invalid step count", zap.String("arg", args[1]))
		}
		err = migrator.Steps(n)
	case "goto":
		if len(args) < 2 {
			log.Fatal("goto requires a version")
		}
		v, parseErr := strconv.ParseUint(args[1], 10, 32)
		if parseErr != nil {
			log.Fatal("invalid version", zap.String("arg", args[1]))
		}
		err = migrator.GoTo(uint(v))
	case "version":
		version, dirty, verErr := migrator.Version()
		if verErr != nil {
			log.Fatal("Failed to read version", zap.Error(verErr))
		}
		fmt.Printf("version: %d dirty: %v\n", version, dirty)
		return
	case "force":
		if len(args) < 2 {
			log.Fatal("force requires a version")
		}
		v, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("invalid version", zap.String("arg", args[1]))
		}
		err = migrator.Force(v)
	case "drop":
		if !*confirm {
			log.Fatal("drop requires -confirm")
		}
		err = migrator.Drop()
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("Migration complete", zap.String("command", command))
}
