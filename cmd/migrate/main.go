package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/config"
	"clinic-scheduler/internal/infrastructure/migration"
	"clinic-scheduler/migrations"
)

func main() {
	configPath := flag.String("config", ".env", "path to the env file")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := bootstrap.SetupLogger(cfg.Log)

	m, err := migration.New(migrations.FS, cfg.DB.URL(), log)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warnf("Failed to close migrator: %+v", err)
		}
	}()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		var n int
		if n, err = intArg(args); err == nil {
			err = m.Steps(n)
		}
	case "force":
		var v int
		if v, err = intArg(args); err == nil {
			err = m.Force(v)
		}
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration %s failed: %v", args[0], err)
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", args[0])
	}
	return strconv.Atoi(args[1])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-config .env] <command>

Commands:
  up          apply all pending migrations
  down        roll back all migrations
  steps N     apply N migrations (negative rolls back)
  force V     set the version without running migrations
  version     print the applied version`)
}
