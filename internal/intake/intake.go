// Package intake turns a free-text log submission (one exercise per line)
// into a persisted workout. Both the HTTP API and the Telegram bot feed
// through here so aggregates and the bad-line report stay identical.
package intake

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/parser"
)

// maxBadExamples caps how many failed lines the report echoes back.
const maxBadExamples = 5

// Report summarizes what happened to each submitted line.
type Report struct {
	Parsed   int      `json:"parsed"`
	Skipped  int      `json:"skipped"` // lines with no digits, ignored silently
	Bad      int      `json:"bad"`     // lines with digits that failed to parse
	BadLines []string `json:"bad_lines,omitempty"`
}

// Summary is a human-readable one-liner for chat replies.
func (r Report) Summary() string {
	if r.Bad == 0 {
		return fmt.Sprintf("%d lines logged", r.Parsed)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d lines logged, %d could not be read:", r.Parsed, r.Bad)
	for _, l := range r.BadLines {
		b.WriteString("\n  ")
		b.WriteString(l)
	}
	if extra := r.Bad - len(r.BadLines); extra > 0 {
		fmt.Fprintf(&b, "\n  +%d more", extra)
	}
	return b.String()
}

// Build parses raw text into a workout dated in loc. A submission is
// all-or-nothing: if any digit-bearing line fails to parse, nothing is built
// and the report names the failures so the user can fix and resubmit.
func Build(text string, bodyWeightKg float64, now time.Time, loc *time.Location) (*models.Workout, Report) {
	var rep Report
	var entries []*parser.Entry

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !hasDigit(line) {
			// Free-form notes between exercises are normal, not errors.
			rep.Skipped++
			continue
		}
		e := parser.Parse(line, bodyWeightKg)
		if e == nil || e.Weight <= 0 {
			rep.Bad++
			if len(rep.BadLines) < maxBadExamples {
				rep.BadLines = append(rep.BadLines, line)
			}
			continue
		}
		rep.Parsed++
		entries = append(entries, e)
	}
	if rep.Bad > 0 || len(entries) == 0 {
		return nil, rep
	}

	w := aggregate(entries, now, loc)
	return w, rep
}

// aggregate folds parsed entries into one workout row.
func aggregate(entries []*parser.Entry, now time.Time, loc *time.Location) *models.Workout {
	w := &models.Workout{
		ID:          uuid.New(),
		UserID:      models.DefaultUserID,
		WorkoutDate: now.In(loc).Format("2006-01-02"),
		CreatedAt:   now,
	}

	var rpeSum float64
	var rpeN int
	var speedSum, inclineSum, hrSum float64
	var speedN, inclineN, hrN int

	for _, e := range entries {
		log := models.ExerciseLog{
			Name:   e.Name,
			Weight: e.Weight,
			Reps:   e.Reps,
			Sets:   e.Sets,
			RPE:    e.RPE,
		}
		w.Logs = append(w.Logs, log)

		// Cardio rows carry minutes x 1 x 1, so the sum stays a meaningful
		// lifting metric while matching the export formula.
		w.TotalVolume += log.Volume()
		w.DurationMinutes += e.DurationMinutes
		w.EstimatedCalories += float64(e.Calories)
		// Unrated sets count as RPE 8 so one rated line doesn't skew the
		// session average.
		if e.RPE != nil {
			rpeSum += *e.RPE
		} else {
			rpeSum += 8
		}
		rpeN++
		if e.DistanceKm != nil {
			w.CardioDistanceKm += *e.DistanceKm
		}
		if e.SpeedKph != nil {
			speedSum += *e.SpeedKph
			speedN++
		}
		if e.InclinePct != nil {
			inclineSum += *e.InclinePct
			inclineN++
		}
		if e.AvgHeartRate != nil {
			hrSum += *e.AvgHeartRate
			hrN++
		}
	}

	if rpeN > 0 {
		w.AverageRPE = rpeSum / float64(rpeN)
	}
	if speedN > 0 {
		w.CardioAvgSpeedKph = speedSum / float64(speedN)
	}
	if inclineN > 0 {
		w.CardioAvgInclinePct = inclineSum / float64(inclineN)
	}
	if hrN > 0 {
		w.AvgHeartRate = hrSum / float64(hrN)
	}
	w.Title = titleFor(w.Logs)
	return w
}

// titleFor names the workout after its first exercise, with a count suffix
// when more follow.
func titleFor(logs []models.ExerciseLog) string {
	if len(logs) == 0 {
		return ""
	}
	if len(logs) == 1 {
		return logs[0].Name
	}
	return fmt.Sprintf("%s +%d", logs[0].Name, len(logs)-1)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
