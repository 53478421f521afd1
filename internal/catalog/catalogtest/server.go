// Package catalogtest provides an in-process catalog service implementing
// the batch-lookup contract, for tests and local development. Throttling
// and failures are scriptable so retry behavior can be exercised
// deterministically.
package catalogtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/reptrack/service_layer/internal/catalog"
)

// Server is a fake catalog service backed by httptest.
type Server struct {
	mu sync.Mutex

	exercises  map[catalog.ExerciseID]catalog.Exercise
	limiter    *rate.Limiter
	retryAfter int // seconds advertised on 429; 0 omits the header
	failStatus int
	failCount  int
	requests   int

	httpServer *httptest.Server
}

// NewServer starts a fake catalog seeded with the given exercises.
func NewServer(exercises ...catalog.Exercise) *Server {
	s := &Server{exercises: make(map[catalog.ExerciseID]catalog.Exercise, len(exercises))}
	for _, e := range exercises {
		s.exercises[e.ID] = e
	}

	r := mux.NewRouter()
	r.HandleFunc("/entities/batch", s.handleBatch).Methods(http.MethodGet)
	r.HandleFunc("/entities/{id:[0-9]+}", s.handleOne).Methods(http.MethodGet)
	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts the server down.
func (s *Server) Close() { s.httpServer.Close() }

// Requests returns how many lookup requests the server has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Add seeds another exercise.
func (s *Server) Add(e catalog.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[e.ID] = e
}

// Throttle installs a token-bucket limiter; requests beyond it get 429.
func (s *Server) Throttle(limit rate.Limit, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = rate.NewLimiter(limit, burst)
}

// SetRetryAfter sets the Retry-After value, in seconds, advertised on
// 429 responses. Zero omits the header.
func (s *Server) SetRetryAfter(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAfter = seconds
}

// FailNext makes the next n lookup requests answer with the given
// status before normal handling resumes.
func (s *Server) FailNext(status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failCount = n
}

// intercept applies request counting and scripted throttling/failures.
// It reports whether the response has already been written.
func (s *Server) intercept(w http.ResponseWriter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if s.failCount > 0 {
		s.failCount--
		status := s.failStatus
		if status == http.StatusTooManyRequests && s.retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(s.retryAfter))
		}
		w.WriteHeader(status)
		return true
	}

	if s.limiter != nil && !s.limiter.Allow() {
		if s.retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(s.retryAfter))
		}
		w.WriteHeader(http.StatusTooManyRequests)
		return true
	}

	return false
}

type batchData struct {
	Entities           []catalog.Exercise   `json:"entities"`
	MissingIdentifiers []catalog.ExerciseID `json:"missingIdentifiers"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}

	data := batchData{
		Entities:           []catalog.Exercise{},
		MissingIdentifiers: []catalog.ExerciseID{},
	}
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		raw, err := strconv.ParseInt(part, 10, 64)
		if err != nil || raw <= 0 {
			http.Error(w, "invalid id: "+part, http.StatusBadRequest)
			return
		}
		id := catalog.ExerciseID(raw)

		s.mu.Lock()
		e, ok := s.exercises[id]
		s.mu.Unlock()
		if ok {
			data.Entities = append(data.Entities, e)
		} else {
			data.MissingIdentifiers = append(data.MissingIdentifiers, id)
		}
	}

	writeJSON(w, map[string]batchData{"data": data})
}

func (s *Server) handleOne(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}

	raw, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	e, ok := s.exercises[catalog.ExerciseID(raw)]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]map[string]catalog.Exercise{"data": {"entity": e}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
