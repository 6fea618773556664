package public

import (
	"log"

	"github.com/go-chi/chi/v5"
	publicapp "github.com/pocketpro-tw/lead-services/api/internal/public/application"
)

// Handler wires the public form endpoints to the submission service.
type Handler struct {
	logger      *log.Logger
	submissions publicapp.SubmissionService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *log.Logger
	Submissions publicapp.SubmissionService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		submissions: cfg.Submissions,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contacts", h.contactCreateHandler())
	r.Post("/leads", h.leadCreateHandler())
}
