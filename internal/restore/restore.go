// Package restore re-imports workout history from CSV exports produced by
// the /export endpoint or the bot's /export command.
package restore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/storage"
)

// Store is the subset of the storage layer a restore run needs.
type Store interface {
	GetWorkout(ctx context.Context, id uuid.UUID, userID string) (*models.Workout, error)
	InsertWorkout(ctx context.Context, w models.Workout) error
}

var _ Store = (*storage.DB)(nil)

// Stats counts what a restore run did.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	RowsInserted   int
	RowsDuplicated int
	RowsErrored    int
}

// Restorer reads CSV export files and inserts missing workouts.
type Restorer struct {
	store  Store
	state  *StateDB
	log    *slog.Logger
	dryRun bool
}

// New creates a Restorer. state may be nil to disable file-level skipping
// (every file is re-scanned; row-level dedupe still applies).
func New(store Store, state *StateDB, log *slog.Logger, dryRun bool) *Restorer {
	return &Restorer{store: store, state: state, log: log, dryRun: dryRun}
}

// Restore walks dir for .csv files and imports each one.
func (r *Restorer) Restore(ctx context.Context, dir string) (*Stats, error) {
	stats := &Stats{}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".csv") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		var size int64
		var hash string
		if r.state != nil {
			info, err := d.Info()
			if err != nil {
				return err
			}
			size = info.Size()
			hash, err = HashFile(path)
			if err != nil {
				return err
			}
			done, err := r.state.IsRestored(rel, size, hash)
			if err != nil {
				return err
			}
			if done {
				stats.FilesSkipped++
				return nil
			}
		}

		if err := r.restoreFile(ctx, path, stats); err != nil {
			return fmt.Errorf("restoring %s: %w", rel, err)
		}
		stats.FilesProcessed++

		if r.state != nil && !r.dryRun {
			if err := r.state.MarkRestored(rel, size, hash); err != nil {
				r.log.Warn("marking file restored", "path", rel, "error", err)
			}
		}
		return nil
	})
	return stats, err
}

func (r *Restorer) restoreFile(ctx context.Context, path string, stats *Stats) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	col := indexColumns(header)
	if _, ok := col["id"]; !ok {
		return errors.New("not an export file: no id column")
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			stats.RowsErrored++
			r.log.Warn("skipping malformed row", "error", err)
			continue
		}

		w, err := decodeRow(col, rec)
		if err != nil {
			stats.RowsErrored++
			r.log.Warn("skipping row", "error", err)
			continue
		}

		if _, err := r.store.GetWorkout(ctx, w.ID, w.UserID); err == nil {
			stats.RowsDuplicated++
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if r.dryRun {
			stats.RowsInserted++
			continue
		}
		if err := r.store.InsertWorkout(ctx, *w); err != nil {
			return err
		}
		stats.RowsInserted++
	}
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func decodeRow(col map[string]int, rec []string) (*models.Workout, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	num := func(name string) float64 {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	id, err := uuid.Parse(get("id"))
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", get("id"), err)
	}
	date := get("workout_date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("bad workout_date %q: %w", date, err)
	}
	createdAt, err := time.Parse(time.RFC3339, get("created_at"))
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", get("created_at"), err)
	}

	w := &models.Workout{
		ID:                id,
		UserID:            models.DefaultUserID,
		WorkoutDate:       date,
		Title:             get("title"),
		TotalVolume:       num("total_volume"),
		AverageRPE:        num("average_rpe"),
		DurationMinutes:   num("duration_minutes"),
		EstimatedCalories: num("estimated_calories"),
		CardioDistanceKm:  num("cardio_distance_km"),
		Mood:              get("mood"),
		CreatedAt:         createdAt,
		// Exports from older versions carry stringly-typed numbers in
		// logs_json; DecodeLogs normalizes them.
		Logs: models.DecodeLogs([]byte(get("logs_json"))),
	}
	return w, nil
}
