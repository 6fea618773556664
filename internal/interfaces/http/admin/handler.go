package admin

import (
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/pocketpro-tw/lead-services/api/internal/public/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger      *log.Logger
	submissions publicapp.SubmissionService
	stats       publicapp.StatsService
	location    *time.Location
}

// Config provides dependencies for Handler.
type Config struct {
	Logger      *log.Logger
	Submissions publicapp.SubmissionService
	Stats       publicapp.StatsService
	Location    *time.Location
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		logger:      cfg.Logger,
		submissions: cfg.Submissions,
		stats:       cfg.Stats,
		location:    location,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.meHandler())
	r.Get("/contacts", h.contactListHandler())
	r.Get("/stats", h.statsHandler())
}
