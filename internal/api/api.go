// Package api exposes the trellis core over HTTP.
//
// The API is the handle shell as a service: clients create a graph from a
// scene or a JSON document, receive an opaque handle, and drive the same
// operations the in-process boundary offers — paint, path marking,
// annotation, release — through REST calls. Rendered artifacts are cached
// through the pipeline runner, so repeated paints of an unchanged graph hit
// the artifact cache.
//
// # Routes
//
//	POST   /api/v1/graphs                     create a graph (scene TOML or JSON document)
//	GET    /api/v1/graphs/{handle}            JSON document of the current model
//	POST   /api/v1/graphs/{handle}/paint      render and return one artifact
//	PUT    /api/v1/graphs/{handle}/path       replace the highlighted path
//	PUT    /api/v1/graphs/{handle}/annotations annotate one node
//	DELETE /api/v1/graphs/{handle}            release the handle
//	GET    /healthz                           liveness probe
//	GET    /metrics                           Prometheus metrics
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lattix/trellis/pkg/app"
	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/observability"
	"github.com/lattix/trellis/pkg/pipeline"
)

// Server holds the shared state behind the handlers.
type Server struct {
	registry *app.Registry
	runner   *pipeline.Runner
	logger   *log.Logger
}

// NewServer creates a server over the given registry and pipeline runner.
// A nil registry gets a fresh one; a nil runner disables artifact caching.
func NewServer(registry *app.Registry, runner *pipeline.Runner, logger *log.Logger) *Server {
	if registry == nil {
		registry = app.NewRegistry()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{registry: registry, runner: runner, logger: logger}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Route("/api/v1/graphs", func(r chi.Router) {
		r.Post("/", s.createGraph)
		r.Route("/{handle}", func(r chi.Router) {
			r.Get("/", s.getGraph)
			r.Post("/paint", s.paintGraph)
			r.Put("/path", s.putPath)
			r.Put("/annotations", s.putAnnotation)
			r.Delete("/", s.deleteGraph)
		})
	})

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// observe logs every request and feeds the HTTP hooks. The route pattern,
// not the raw URL, goes to the hooks so metric label cardinality stays
// bounded.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, ww.status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", elapsed.Round(time.Microsecond))
	})
}

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// handleParam parses the {handle} URL parameter.
func handleParam(r *http.Request) (app.Handle, error) {
	raw := chi.URLParam(r, "handle")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "handle %q is not an integer", raw)
	}
	return app.Handle(id), nil
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps an error code onto an HTTP status and writes the JSON
// envelope. Contract violations on a valid graph are 422s: the request was
// well-formed, the model rejected it.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDimension,
		errors.ErrCodeSurfaceUnavailable, errors.ErrCodeEmptyGraph:
		status = http.StatusBadRequest
	case errors.ErrCodeOutOfRange, errors.ErrCodeBrokenPath:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeHandleNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body into v. An empty body leaves v at
// its zero value so requests can rely on defaults.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || err == io.EOF {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
}
