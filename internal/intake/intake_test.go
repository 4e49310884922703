package intake

import (
	"strings"
	"testing"
	"time"
)

var intakeNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// TestBuildMixedText verifies a realistic submission: strength lines, a
// cardio line, and a note line skipped silently.
func TestBuildMixedText(t *testing.T) {
	text := strings.Join([]string{
		"스쿼트 100 5 3 @8",
		"벤치프레스 80x5x3",
		"오늘 컨디션 괜찮음",
		"러닝머신 30분 8km/h",
	}, "\n")

	w, rep := Build(text, 75, intakeNow, time.UTC)
	if w == nil {
		t.Fatal("expected workout")
	}
	if rep.Parsed != 3 || rep.Skipped != 1 || rep.Bad != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if w.WorkoutDate != "2026-08-30" {
		t.Errorf("date = %s", w.WorkoutDate)
	}
	// Every log counts weight x reps x sets; the cardio row adds its 30x1x1.
	if w.TotalVolume != 100*5*3+80*5*3+30 {
		t.Errorf("volume = %v, want 2730", w.TotalVolume)
	}
	if w.CardioDistanceKm != 4 {
		t.Errorf("distance = %v, want 4", w.CardioDistanceKm)
	}
	if w.AverageRPE != 8 {
		t.Errorf("rpe = %v, want 8", w.AverageRPE)
	}
	if w.Title != "스쿼트 +2" {
		t.Errorf("title = %q", w.Title)
	}
	if len(w.Logs) != 3 {
		t.Errorf("logs = %d", len(w.Logs))
	}
}

// TestBuildTimezone verifies the workout date follows the given location, not
// UTC.
func TestBuildTimezone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	// 2026-08-30 23:30 UTC is already the 31st in Seoul.
	late := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	w, _ := Build("스쿼트 100 5 3", 75, late, seoul)
	if w == nil {
		t.Fatal("expected workout")
	}
	if w.WorkoutDate != "2026-08-31" {
		t.Errorf("date = %s, want 2026-08-31", w.WorkoutDate)
	}
}

// TestBuildRejectsWholeBatch verifies one failing line voids the entire
// submission, including lines that parsed fine.
func TestBuildRejectsWholeBatch(t *testing.T) {
	w, rep := Build("스쿼트 100 5 3\nasdf 123 qwer zxc", 75, intakeNow, time.UTC)
	if w != nil {
		t.Fatalf("workout = %+v, want nil when any line fails", w)
	}
	if rep.Parsed != 1 || rep.Bad != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.BadLines) != 1 || rep.BadLines[0] != "asdf 123 qwer zxc" {
		t.Errorf("bad lines = %v", rep.BadLines)
	}
}

// TestBuildRejectsZeroWeight verifies a line parsing to a non-positive weight
// is a validation failure, not a silent zero-volume log.
func TestBuildRejectsZeroWeight(t *testing.T) {
	w, rep := Build("스쿼트 0 5 3", 75, intakeNow, time.UTC)
	if w != nil {
		t.Fatalf("workout = %+v, want nil", w)
	}
	if rep.Bad != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

// TestBuildNothingParsed verifies a nil workout with the failures still
// reported.
func TestBuildNothingParsed(t *testing.T) {
	w, rep := Build("오늘은 쉬는 날\nzzz 111 yyy", 75, intakeNow, time.UTC)
	if w != nil {
		t.Fatalf("workout = %+v, want nil", w)
	}
	if rep.Parsed != 0 || rep.Skipped != 1 || rep.Bad != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

// TestReportSummaryTruncation verifies bad-line echoing caps at five with a
// +N more suffix.
func TestReportSummaryTruncation(t *testing.T) {
	var lines []string
	for i := 0; i < 7; i++ {
		lines = append(lines, "x1x garbage line")
	}
	_, rep := Build(strings.Join(lines, "\n"), 75, intakeNow, time.UTC)
	if rep.Bad != 7 || len(rep.BadLines) != 5 {
		t.Fatalf("report = %+v", rep)
	}
	s := rep.Summary()
	if !strings.Contains(s, "7 could not be read") || !strings.Contains(s, "+2 more") {
		t.Errorf("summary = %q", s)
	}
}

// TestReportSummaryClean verifies the happy-path one-liner.
func TestReportSummaryClean(t *testing.T) {
	_, rep := Build("스쿼트 100 5 3", 75, intakeNow, time.UTC)
	if got := rep.Summary(); got != "1 lines logged" {
		t.Errorf("summary = %q", got)
	}
}

// TestBuildCardioAverages verifies speed and heart-rate averaging across
// cardio entries.
func TestBuildCardioAverages(t *testing.T) {
	text := "러닝 30분 속도 10 hr 150\n걷기 30분 속도 6 hr 110"
	w, rep := Build(text, 75, intakeNow, time.UTC)
	if w == nil || rep.Parsed != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if w.CardioAvgSpeedKph != 8 {
		t.Errorf("speed = %v, want 8", w.CardioAvgSpeedKph)
	}
	if w.AvgHeartRate != 130 {
		t.Errorf("hr = %v, want 130", w.AvgHeartRate)
	}
	if w.DurationMinutes != 60 {
		t.Errorf("duration = %v, want 60", w.DurationMinutes)
	}
	// Each cardio row contributes minutes x 1 x 1.
	if w.TotalVolume != 60 {
		t.Errorf("volume = %v, want 60", w.TotalVolume)
	}
	// Unrated entries count as RPE 8 in the session average.
	if w.AverageRPE != 8 {
		t.Errorf("rpe = %v, want default 8", w.AverageRPE)
	}
}
