// Package apitest runs an in-process fake of the commerce REST API for tests.
// It keeps just enough state to exercise shopctl: accounts, created objects
// and a log of every request received.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// BrowserOrigin is the storefront origin the API admits cross-origin.
const BrowserOrigin = "http://localhost:3000"

// Recorded is one request as the fake saw it.
type Recorded struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	RequestID     string
	Body          map[string]any
}

type failure struct {
	status  int
	message string
}

// Server is the fake backend. Construct with New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Recorded
	tokens   map[string]string // token -> role
	users    []map[string]any
	objects  map[string]map[string]map[string]any // collection -> id -> object
	nextID   int
	echo     bool
	failures map[string]failure // "METHOD /path" -> forced failure
}

// Option customises a Server.
type Option func(*Server)

// WithUsers seeds the admin user listing.
func WithUsers(users ...map[string]any) Option {
	return func(s *Server) {
		s.users = append([]map[string]any{}, users...)
	}
}

// WithoutEcho makes creation endpoints answer without the created object.
func WithoutEcho() Option {
	return func(s *Server) {
		s.echo = false
	}
}

// WithFailure forces method+path (relative to the API root) to answer with
// status and an {"error": message} body.
func WithFailure(method, path string, status int, message string) Option {
	return func(s *Server) {
		s.failures[method+" "+path] = failure{status: status, message: message}
	}
}

// New starts a fake and registers its shutdown with t.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		tokens:   map[string]string{},
		objects:  map[string]map[string]map[string]any{},
		echo:     true,
		failures: map[string]failure{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root clients should target.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request, or false when none arrived.
func (s *Server) Last() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// TokenFor returns the bearer token the fake issues for role.
func TokenFor(role string) string {
	return "fake-token-" + role
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{BrowserOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(s.record)
	r.Use(s.forcedFailures)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
		})
		r.Get("/search", s.search)

		r.Post("/auth/register", s.issueToken)
		r.Post("/auth/login", s.issueToken)
		r.With(s.require()).Get("/auth/profile", s.profile)
		r.With(s.require()).Put("/auth/profile", s.echoBody("user"))

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.require("admin"))
			r.Get("/users", s.listUsers)
			r.Get("/users/{id}", s.getObject("users", "user"))
			r.Put("/users/{id}", s.echoBody("user"))
			r.Get("/analytics/summary", s.static(map[string]any{"summary": map[string]any{"orders": 0}}))
			r.Get("/analytics/sales", s.sales)
			r.Get("/audit-logs", s.static(map[string]any{"logs": []any{}}))
		})

		s.catalog(r, "products", "product", "prod", s.require("vendor", "admin"))
		s.catalog(r, "services", "service", "svc", s.require("vendor", "admin"))
		s.catalog(r, "resources", "resource", "res", s.require())
		r.Get("/products/{id}/reviews", s.static(map[string]any{"reviews": []any{}}))
		r.With(s.require()).Post("/resources/{id}/download", s.static(map[string]any{"download_url": "https://files.example/dl"}))

		r.Group(func(r chi.Router) {
			r.Use(s.require())
			r.Post("/orders", s.create("orders", "order", "ord"))
			r.Get("/orders", s.list("orders"))
			r.Get("/orders/{id}", s.getObject("orders", "order"))
			r.Get("/orders/{id}/tracking", s.static(map[string]any{"tracking": []any{}}))
			r.With(s.require("vendor", "admin")).Put("/orders/{id}/status", s.echoBody("order"))
			r.With(s.require("vendor", "admin")).Post("/orders/{id}/tracking", s.echoBody("tracking"))
			r.Post("/payments", s.create("payments", "payment", "pay"))
			r.Post("/reviews", s.create("reviews", "review", "rev"))
		})
	})
	return r
}

func (s *Server) catalog(r chi.Router, collection, envelope, prefix string, writers func(http.Handler) http.Handler) {
	r.Get("/"+collection, s.list(collection))
	r.Get("/"+collection+"/{id}", s.getObject(collection, envelope))
	r.With(writers).Post("/"+collection, s.create(collection, envelope, prefix))
	r.With(writers).Put("/"+collection+"/{id}", s.echoBody(envelope))
	r.With(writers).Delete("/"+collection+"/{id}", s.static(map[string]any{"message": "deleted"}))
}

// record logs the request and restores its body for downstream handlers.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Recorded{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		r.Body = io.NopCloser(strings.NewReader(string(data)))

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) forcedFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		s.mu.Unlock()
		if ok {
			writeJSON(w, f.status, map[string]any{"error": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// require rejects requests without a known bearer token, or whose role is
// not in roles when roles are given.
func (s *Server) require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			s.mu.Lock()
			role, ok := s.tokens[token]
			s.mu.Unlock()
			if token == "" || !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
				return
			}
			if len(roles) > 0 && !contains(roles, role) {
				writeJSON(w, http.StatusForbidden, map[string]any{"error": "Insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "email is required"})
		return
	}

	// Logins pick the role from the local part: "vendor@x" logs in as vendor.
	role := body.Role
	if role == "" {
		role = strings.SplitN(body.Email, "@", 2)[0]
	}
	if !contains([]string{"customer", "vendor", "admin"}, role) {
		role = "customer"
	}

	token := TokenFor(role)
	s.mu.Lock()
	s.tokens[token] = role
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         map[string]any{"id": "user_" + role, "email": body.Email, "role": role},
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"city":       "London",
		"phone":      nil,
	}})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := append([]map[string]any{}, s.users...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) create(collection, envelope, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body == nil {
			body = map[string]any{}
		}

		s.mu.Lock()
		s.nextID++
		id := fmt.Sprintf("%s_%d", prefix, s.nextID)
		body["id"] = id
		if s.objects[collection] == nil {
			s.objects[collection] = map[string]map[string]any{}
		}
		s.objects[collection][id] = body
		echo := s.echo
		s.mu.Unlock()

		if !echo {
			writeJSON(w, http.StatusCreated, map[string]any{"message": envelope + " created"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": envelope + " created", envelope: body})
	}
}

func (s *Server) list(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		items := make([]any, 0, len(s.objects[collection]))
		for _, obj := range s.objects[collection] {
			items = append(items, obj)
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{collection: items})
	}
}

func (s *Server) getObject(collection, envelope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		obj, ok := s.objects[collection][id]
		if !ok && collection == "users" {
			for _, u := range s.users {
				if fmt.Sprint(u["id"]) == id {
					obj, ok = u, true
				}
			}
		}
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": envelope + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{envelope: obj})
	}
}

func (s *Server) echoBody(envelope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if id := chi.URLParam(r, "id"); id != "" {
			if body == nil {
				body = map[string]any{}
			}
			body["id"] = id
		}
		writeJSON(w, http.StatusOK, map[string]any{envelope: body})
	}
}

func (s *Server) sales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"days": r.URL.Query().Get("days"), "sales": []any{}})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"query": r.URL.Query().Get("q"), "results": []any{}})
}

func (s *Server) static(payload map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, payload)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
