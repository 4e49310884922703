package mcp

import (
	"context"
	"time"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkouts(ctx context.Context, userID, start, end string) ([]models.Workout, error)
	LatestWorkout(ctx context.Context, userID string) (*models.Workout, error)
	QueryConditions(ctx context.Context, userID, start, end string) ([]models.DailyCondition, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	FetchCouncilInput(ctx context.Context, userID string, now time.Time, loc *time.Location) (*council.Input, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
