package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/models"
)

func sampleWorkout() models.Workout {
	rpe := 8.0
	return models.Workout{
		ID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		UserID:      models.DefaultUserID,
		WorkoutDate: "2026-08-29",
		Title:       "스쿼트 +1",
		TotalVolume: 2700,
		AverageRPE:  8,
		CreatedAt:   time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		Logs: []models.ExerciseLog{
			{Name: "스쿼트", Weight: 100, Reps: 5, Sets: 3, RPE: &rpe},
		},
	}
}

// TestCSVRoundTrippable verifies the CSV output parses back with the same
// header and field values the restore path expects.
func TestCSVRoundTrippable(t *testing.T) {
	out, err := CSV([]models.Workout{sampleWorkout()})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("reparsing output: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(recs))
	}
	if recs[0][0] != "id" || recs[0][10] != "logs_json" {
		t.Errorf("header = %v", recs[0])
	}

	row := recs[1]
	if row[0] != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("id = %s", row[0])
	}
	if row[1] != "2026-08-29" || row[3] != "2700" || row[4] != "8" {
		t.Errorf("row = %v", row)
	}
	if row[9] != "2026-08-29T10:30:00Z" {
		t.Errorf("created_at = %s", row[9])
	}

	var logs []models.ExerciseLog
	if err := json.Unmarshal([]byte(row[10]), &logs); err != nil {
		t.Fatalf("logs_json: %v", err)
	}
	if len(logs) != 1 || logs[0].Name != "스쿼트" || logs[0].Weight != 100 {
		t.Errorf("logs = %+v", logs)
	}
}

// TestCSVEmpty verifies an empty history still renders the header.
func TestCSVEmpty(t *testing.T) {
	out, err := CSV(nil)
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if !strings.HasPrefix(out, "id,workout_date,") {
		t.Errorf("out = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("want exactly one line, got %q", out)
	}
}

// TestJSONEmptySliceNotNull verifies nil history renders as [] rather than
// null.
func TestJSONEmptySliceNotNull(t *testing.T) {
	out, err := JSON(nil)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("out = %q, want []", out)
	}
}

// TestFormatFloat verifies trailing-zero trimming.
func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		2700:  "2700",
		8.5:   "8.5",
		8.25:  "8.25",
		0:     "0",
		12.10: "12.1",
	}
	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
