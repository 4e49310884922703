package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/ironquant/internal/config"
	"github.com/claude/ironquant/internal/restore"
	"github.com/claude/ironquant/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	backupPath := flag.String("path", "", "path to directory of CSV exports (required)")
	statePath := flag.String("state", "", "directory for the restore state database (default: backup path)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *backupPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironquant-import -config config.yaml -path /path/to/backups [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*backupPath)
	if err != nil || !info.IsDir() {
		log.Error("backup path does not exist or is not a directory", "path", *backupPath)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	stateDir := *statePath
	if stateDir == "" {
		stateDir = *backupPath
	}
	state, err := restore.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	r := restore.New(db, state, log, *dryRun)
	stats, err := r.Restore(ctx, *backupPath)
	if err != nil {
		log.Error("restore failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("restore complete")
}

func printStats(log *slog.Logger, stats *restore.Stats) {
	if stats == nil {
		return
	}
	log.Info("restore stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"rows_inserted", stats.RowsInserted,
		"rows_duplicated", stats.RowsDuplicated,
		"rows_errored", stats.RowsErrored,
	)
}
