package httpapi

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v81"

	"github.com/mixelka/subgate/internal/config"
	"github.com/mixelka/subgate/internal/database"
	"github.com/mixelka/subgate/internal/reconcile"
	appmodels "github.com/mixelka/subgate/pkg/models"
)

// EventParser authenticates and parses Stripe webhook bodies
type EventParser interface {
	ParseEvent(payload []byte, signature string) (*stripe.Event, error)
}

// EventHandler reconciles verified Stripe events
type EventHandler interface {
	Handle(ctx context.Context, event *stripe.Event) reconcile.Result
}

// UpdateProcessor runs bot handlers for a Telegram update
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, update *models.Update)
}

// LinkLister returns the identity store snapshot for the admin page
type LinkLister interface {
	ListLinks(ctx context.Context, order database.SortOrder) ([]*appmodels.IdentityLink, error)
}

// Server serves the webhooks, the admin page and health endpoints
type Server struct {
	config  *config.Config
	events  EventParser
	handler EventHandler
	updates UpdateProcessor
	links   LinkLister
	admin   *template.Template
	logger  *slog.Logger
	now     func() time.Time
}

// ServerDeps dependencies for creating a server
type ServerDeps struct {
	Config  *config.Config
	Events  EventParser
	Handler EventHandler
	Updates UpdateProcessor
	Links   LinkLister
	Logger  *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(deps ServerDeps) *Server {
	return &Server{
		config:  deps.Config,
		events:  deps.Events,
		handler: deps.Handler,
		updates: deps.Updates,
		links:   deps.Links,
		admin:   template.Must(template.New("admin").Parse(adminTemplate)),
		logger:  deps.Logger.With("component", "http"),
		now:     time.Now,
	}
}

// Router sets up the HTTP router with all routes and middleware
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")

	router.HandleFunc(routePath(s.config.StripeWebhookPath), s.handleStripeWebhook).Methods("POST")
	router.HandleFunc(routePath(s.config.WebhookPath), s.handleTelegramUpdate).Methods("POST")

	router.HandleFunc("/admin/links", s.handleAdminLinks).Methods("GET")

	return s.logRequest(router)
}

func routePath(p string) string {
	return "/" + strings.Trim(p, "/")
}
