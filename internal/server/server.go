package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/ironquant/internal/council"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/ratelimit"
)

// Store is the persistence surface the handlers need. *storage.DB satisfies
// it; tests substitute a fake.
type Store interface {
	InsertWorkout(ctx context.Context, w models.Workout) error
	GetWorkout(ctx context.Context, id uuid.UUID, userID string) (*models.Workout, error)
	LatestWorkout(ctx context.Context, userID string) (*models.Workout, error)
	QueryWorkouts(ctx context.Context, userID, start, end string) ([]models.Workout, error)
	AllWorkouts(ctx context.Context, userID string) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, w models.Workout) error
	DeleteWorkout(ctx context.Context, id uuid.UUID, userID string) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	SetGoalMode(ctx context.Context, id string, mode models.GoalMode) error
	UpdateWeight(ctx context.Context, id string, weightKg float64) error
	ApplyBig3(ctx context.Context, id string, squat, bench, dead float64) error

	UpsertCondition(ctx context.Context, c models.DailyCondition) error
	QueryConditions(ctx context.Context, userID, start, end string) ([]models.DailyCondition, error)

	FetchCouncilInput(ctx context.Context, userID string, now time.Time, loc *time.Location) (*council.Input, error)
	RecomputeStreak(ctx context.Context, userID string, now time.Time, loc *time.Location) (int, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	log     *slog.Logger
	apiKey  string
	limiter *ratelimit.Limiter
	loc     *time.Location
	now     func() time.Time
	router  chi.Router
}

// New creates a new Server with all routes configured. loc is the user's
// home timezone; workout dates are resolved in it. limiter throttles the
// log-submission endpoint per remote IP; the caller owns it and is
// responsible for sweeping expired windows.
func New(store Store, apiKey string, limiter *ratelimit.Limiter, loc *time.Location, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		log:     log,
		apiKey:  apiKey,
		limiter: limiter,
		loc:     loc,
		now:     time.Now,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.With(RateLimit(s.limiter)).Post("/logs", s.handleSubmitLogs)

		r.Get("/workouts", s.handleQueryWorkouts)
		r.Get("/workouts/latest", s.handleLatestWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Put("/workouts/{id}", s.handleEditWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)

		r.Get("/council", s.handleCouncil)

		r.Post("/conditions", s.handleSubmitCondition)
		r.Get("/conditions", s.handleQueryConditions)

		r.Get("/user", s.handleGetUser)
		r.Patch("/user", s.handlePatchUser)

		r.Get("/export", s.handleExport)
		r.Get("/reports/weekly", s.handleWeeklyReport)
		r.Get("/reports/monthly", s.handleMonthlyReport)

		r.Post("/recompute", s.handleRecompute)
	})
}
