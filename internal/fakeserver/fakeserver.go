package fakeserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/trellisforge/trellis-build/trbuild"
)

// Routes that the server answers beneath /api/v1/project/{id}/.
var knownRoutes = []string{
	"build/reset_gitlab",
	"build/project",
	"build/subgroups",
	"build/project_users",
	"build/subgroup_users",
	"build/deploy_key",
	"build/repository_files",
	"build/labels",
	"edit/subgroups",
	"edit/project_users",
	"edit/subgroup_users",
	"edit/repository_files",
	"file_consistency_check",
}

// Call is a request received by the server.
type Call struct {
	Project       trbuild.ProjectID
	Route         string
	Authorization string
}

// Server is a fake provisioning service. Every operation succeeds unless
// it has been told otherwise.
type Server struct {
	mu        sync.Mutex
	calls     []Call
	results   map[string]trbuild.Result
	statuses  map[string]int
	token     string
	workspace string
}

// New returns a new fake provisioning service.
func New() *Server {
	return &Server{
		results:   make(map[string]trbuild.Result),
		statuses:  make(map[string]int),
		workspace: "https://gitlab.example.com/trellis/project",
	}
}

// Fail causes the given route to respond with an unsuccessful result.
func (s *Server) Fail(route, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[route] = trbuild.Result{Success: false, Message: message}
}

// Status causes the given route to respond with the given HTTP status code.
func (s *Server) Status(route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[route] = code
}

// RequireToken causes every request without the given bearer token to be
// rejected.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetWorkspace sets the address returned for the workspace url route.
func (s *Server) SetWorkspace(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspace = address
}

// Calls returns the requests received by the server in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Routes returns the route of each request received by the server in
// order.
func (s *Server) Routes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	routes := make([]string, 0, len(s.calls))
	for _, call := range s.calls {
		routes = append(routes, call.Route)
	}
	return routes
}

// Handler returns an HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1/project/{id:[0-9]+}").Subrouter()
	api.HandleFunc("/{kind:build|edit}/{step}", s.handleOperation).Methods(http.MethodPost)
	api.HandleFunc("/file_consistency_check", s.handleOperation).Methods(http.MethodPost)
	api.HandleFunc("/gitlab_url", s.handleWorkspace).Methods(http.MethodGet)
	return r
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	project, route, ok := s.accept(w, r)
	if !ok {
		return
	}

	if !slices.Contains(knownRoutes, route) {
		http.NotFound(w, r)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "the request body is not a json object", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	code, hasCode := s.statuses[route]
	result, hasResult := s.results[route]
	s.mu.Unlock()

	if hasCode {
		http.Error(w, http.StatusText(code), code)
		return
	}
	if !hasResult {
		result = trbuild.Result{Success: true, Message: fmt.Sprintf("%s completed for project %d", route, project)}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := s.accept(w, r); !ok {
		return
	}

	s.mu.Lock()
	code, hasCode := s.statuses["gitlab_url"]
	workspace := s.workspace
	s.mu.Unlock()

	if hasCode {
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(workspace))
}

// accept records the call and checks its authorization.
func (s *Server) accept(w http.ResponseWriter, r *http.Request) (trbuild.ProjectID, string, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return 0, "", false
	}
	project := trbuild.ProjectID(id)

	var route string
	switch {
	case vars["kind"] != "":
		route = vars["kind"] + "/" + vars["step"]
	default:
		route = lastSegment(r.URL.Path)
	}

	auth := r.Header.Get("Authorization")

	s.mu.Lock()
	s.calls = append(s.calls, Call{Project: project, Route: route, Authorization: auth})
	token := s.token
	s.mu.Unlock()

	if token != "" && auth != "Bearer "+token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return 0, "", false
	}

	return project, route, true
}

func lastSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
