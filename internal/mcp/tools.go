package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/parser"
	"github.com/claude/ironquant/internal/reports"
)

// defaultDateRange returns start/end (YYYY-MM-DD, inclusive) defaulting to
// the last 28 days ending today in loc.
func (h *handlers) defaultDateRange(startStr, endStr string) (string, string, error) {
	today := h.now().In(h.loc)
	end := today.Format("2006-01-02")
	if endStr != "" {
		if _, err := time.Parse("2006-01-02", endStr); err != nil {
			return "", "", fmt.Errorf("end must be YYYY-MM-DD: %w", err)
		}
		end = endStr
	}
	start := today.AddDate(0, 0, -27).Format("2006-01-02")
	if startStr != "" {
		if _, err := time.Parse("2006-01-02", startStr); err != nil {
			return "", "", fmt.Errorf("start must be YYYY-MM-DD: %w", err)
		}
		start = startStr
	}
	return start, end, nil
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query parsed workouts in a date range. Each workout carries its exercise logs (name, weight, reps, sets, RPE), total volume, duration, and estimated calories."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 28 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetLatestWorkout = mcp.NewTool("get_latest_workout",
	mcp.WithDescription("Fetch the most recently submitted workout."),
)

var toolGetConditions = mcp.NewTool("get_conditions",
	mcp.WithDescription("Query daily wellness check-ins: sleep hours, fatigue, stress, soreness (0-10 scales), and resting heart rate."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 28 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Fetch the training profile: goal mode (fat_loss or muscle_gain), body weight, estimated squat/bench/deadlift 1RMs, and the current streak."),
)

var toolGetCouncilAdvice = mcp.NewTool("get_council_advice",
	mcp.WithDescription("Run the three-agent advice council (trend analyst, recovery physio, adherence psych) over recent history and return the merged, prioritized recommendations."),
)

var toolParseWorkoutLine = mcp.NewTool("parse_workout_line",
	mcp.WithDescription("Parse one free-text workout line (mixed Korean/English, e.g. '스쿼트 100 5 3 @8' or '러닝머신 30분 8km/h') without persisting anything. Useful for previewing how a line will be interpreted."),
	mcp.WithString("line", mcp.Required(), mcp.Description("The raw log line")),
)

var toolGetWeeklyReport = mcp.NewTool("get_weekly_report",
	mcp.WithDescription("Render the 7-day trading-desk style report: volume sparkline, session count, average RPE, top exercises, and a one-line verdict."),
)

var toolGetMonthlyReport = mcp.NewTool("get_monthly_report",
	mcp.WithDescription("Render the monthly report with week-by-week volume, upper/lower sector balance, and month-over-month delta."),
	mcp.WithString("year", mcp.Description("Year, e.g. 2026. Defaults to the current year.")),
	mcp.WithString("month", mcp.Description("Month 1-12. Defaults to the current month.")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := h.defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workouts, err := h.ds.QueryWorkouts(ctx, models.DefaultUserID, start, end)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workout, err := h.ds.LatestWorkout(ctx, models.DefaultUserID)
	if err != nil {
		return mcp.NewToolResultError("no workouts found: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(workout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getConditions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := h.defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conditions, err := h.ds.QueryConditions(ctx, models.DefaultUserID, start, end)
	if err != nil {
		h.log.Error("mcp get_conditions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(conditions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.ds.GetUser(ctx, models.DefaultUserID)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(user)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCouncilAdvice(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := h.ds.FetchCouncilInput(ctx, models.DefaultUserID, h.now(), h.loc)
	if err != nil {
		h.log.Error("mcp get_council_advice", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(council.Consult(*in))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) parseWorkoutLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError("line parameter is required"), nil
	}
	weight := float64(models.DefaultBodyWeightKg)
	if user, err := h.ds.GetUser(ctx, models.DefaultUserID); err == nil {
		weight = user.BodyWeightOrDefault()
	}
	entry := parser.Parse(line, weight)
	if entry == nil {
		return mcp.NewToolResultError("line did not parse; no digits or no recognizable grammar"), nil
	}
	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyReport(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := h.now().In(h.loc)
	start := today.AddDate(0, 0, -6).Format("2006-01-02")
	end := today.Format("2006-01-02")
	workouts, err := h.ds.QueryWorkouts(ctx, models.DefaultUserID, start, end)
	if err != nil {
		h.log.Error("mcp get_weekly_report", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(reports.Weekly(h.now(), h.loc, workouts)), nil
}

func (h *handlers) getMonthlyReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := h.now().In(h.loc)
	year, month := today.Year(), today.Month()
	if v := req.GetString("year", ""); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := req.GetString("month", ""); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, h.loc)
	start := first.AddDate(0, -1, 0).Format("2006-01-02")
	end := first.AddDate(0, 1, -1).Format("2006-01-02")
	workouts, err := h.ds.QueryWorkouts(ctx, models.DefaultUserID, start, end)
	if err != nil {
		h.log.Error("mcp get_monthly_report", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(reports.Monthly(year, month, workouts, workouts)), nil
}
