// Package http implements the JSON API gateway: routing, authentication,
// CORS, and the mapping from domain errors to HTTP status codes.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgetwise/internal/auth"
	"budgetwise/internal/core"
	"budgetwise/internal/events"
	"budgetwise/internal/quote"
)

// UserStore is the slice of the repository the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, u *core.User) error
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
}

// TransactionStore persists transactions scoped to their owning user.
// Implementations must make cross-user access structurally unreachable.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	UpdateTransaction(ctx context.Context, t *core.Transaction) (*core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// LookupStore serves the static reference rows.
type LookupStore interface {
	ListTypes(ctx context.Context) ([]core.LookupRow, error)
	ListCategories(ctx context.Context) ([]core.LookupRow, error)
}

// QuoteFetcher returns a quote, falling back internally on upstream failure.
type QuoteFetcher interface {
	Fetch(ctx context.Context) quote.Quote
}

// EventPublisher records transaction mutations on the audit stream.
type EventPublisher interface {
	Publish(ctx context.Context, evt *events.TransactionEvent) error
}

// Options collects the dependencies and settings for a Server.
type Options struct {
	Addr       string
	CORSOrigin string

	// IncludeErrorDetail adds the underlying error text to 500 bodies.
	// Keep it off in production.
	IncludeErrorDetail bool

	Tokens       *auth.TokenManager
	Users        UserStore
	Transactions TransactionStore
	Lookups      LookupStore
	Quotes       QuoteFetcher
	Events       EventPublisher
}

type Server struct {
	http.Server

	users        UserStore
	transactions TransactionStore
	lookups      LookupStore
	quotes       QuoteFetcher
	events       EventPublisher
	tokens       *auth.TokenManager

	includeErrorDetail bool

	rateLimiter  *rateLimiter
	metrics      *apiMetrics
	registry     *prometheus.Registry
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	s := &Server{
		users:              opts.Users,
		transactions:       opts.Transactions,
		lookups:            opts.Lookups,
		quotes:             opts.Quotes,
		events:             opts.Events,
		tokens:             opts.Tokens,
		includeErrorDetail: opts.IncludeErrorDetail,
		rateLimiter:        newRateLimiter(),
		registry:           prometheus.NewRegistry(),
	}
	s.metrics = newAPIMetrics(s.registry)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleNotFound)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/types", s.handleListTypes).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/quote", s.handleQuote).Methods(http.MethodGet)

	tx := api.PathPrefix("/transactions").Subrouter()
	tx.Use(s.requireAuth)
	tx.HandleFunc("", s.handleListTransactions).Methods(http.MethodGet)
	tx.HandleFunc("", s.handleCreateTransaction).Methods(http.MethodPost)
	tx.HandleFunc("/{id:[0-9]+}", s.handleUpdateTransaction).Methods(http.MethodPut)
	tx.HandleFunc("/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	// CORS is scoped to the known frontend origin, never a wildcard.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{opts.CORSOrigin}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: s.withObservability(s.withRecovery(cors(r))),
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Simple in-memory rate limiter for mutating requests.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
