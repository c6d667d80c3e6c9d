package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const usage = "usage: migrator -dsn <postgres url> [-path dir] up|down|steps N|version|force V"

func main() {
	os.Exit(run())
}

func run() int {
	var dsn, path string

	flag.StringVar(&dsn, "dsn", os.Getenv("MIGRATOR_DSN"), "postgres connection url")
	flag.StringVar(&path, "path", "./migrations", "directory with migration files")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if dsn == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	m, err := migrate.New("file://"+path, dsn)
	if err != nil {
		log.Error("failed to create migrate instance", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			log.Warn("failed to close migrate instance", slog.String("error", err.Error()))
		}
	}()

	if err := apply(m, flag.Args()); err != nil {
		log.Error("migration failed", slog.String("command", flag.Arg(0)), slog.String("error", err.Error()))
		return 1
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Error("failed to read version", slog.String("error", err.Error()))
		return 1
	}

	log.Info("done", slog.String("command", flag.Arg(0)), slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return 0
}

func apply(m *migrate.Migrate, args []string) error {
	var err error

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a number argument", args[0])
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return fmt.Errorf("invalid %s argument: %w", args[0], convErr)
		}
		if args[0] == "steps" {
			err = m.Steps(n)
		} else {
			err = m.Force(n)
		}
	case "version":
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	return err
}
