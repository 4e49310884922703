// Package export renders workout history as CSV or JSON documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironquant/internal/models"
)

var csvHeader = []string{
	"id", "workout_date", "title", "total_volume", "average_rpe",
	"duration_minutes", "estimated_calories", "cardio_distance_km",
	"mood", "created_at", "logs_json",
}

// CSV renders workouts as a CSV document matching the import format.
func CSV(workouts []models.Workout) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range workouts {
		logsJSON, err := json.Marshal(row.Logs)
		if err != nil {
			return "", fmt.Errorf("marshaling logs for %s: %w", row.ID, err)
		}
		rec := []string{
			row.ID.String(),
			row.WorkoutDate,
			row.Title,
			formatFloat(row.TotalVolume),
			formatFloat(row.AverageRPE),
			formatFloat(row.DurationMinutes),
			formatFloat(row.EstimatedCalories),
			formatFloat(row.CardioDistanceKm),
			row.Mood,
			row.CreatedAt.UTC().Format(time.RFC3339),
			string(logsJSON),
		}
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return sb.String(), nil
}

// JSON renders workouts as an indented JSON array.
func JSON(workouts []models.Workout) (string, error) {
	if workouts == nil {
		workouts = []models.Workout{}
	}
	data, err := json.MarshalIndent(workouts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling workouts: %w", err)
	}
	return string(data), nil
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
