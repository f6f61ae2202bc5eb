package api

import (
	"mime"
	"net/http"
	"strings"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/graph"
	"github.com/lattix/trellis/pkg/pipeline"
	"github.com/lattix/trellis/pkg/scene"
	"github.com/lattix/trellis/pkg/trellis"
)

// artifactContentTypes maps render formats onto response content types.
var artifactContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

// graphInfo is the response body for graph creation.
type graphInfo struct {
	Handle int64 `json:"handle"`
	States int   `json:"states"`
	Layers int   `json:"layers"`
	Nodes  int   `json:"nodes"`
	Edges  int   `json:"edges"`
}

// createGraph builds a graph from the request body and registers it.
// A TOML body is read as a scene; anything else is read as a JSON document.
func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	g, err := decodeGraph(r)
	if err != nil {
		writeError(w, err)
		return
	}

	h := s.registry.Add(g)
	s.logger.Info("graph created",
		"handle", h, "states", g.States(), "layers", g.Layers())

	writeJSON(w, http.StatusCreated, graphInfo{
		Handle: int64(h),
		States: g.States(),
		Layers: g.Layers(),
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
	})
}

// decodeGraph reads the request body as a scene or a graph document,
// depending on the declared content type.
func decodeGraph(r *http.Request) (*trellis.Graph, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err == nil {
			ct = parsed
		}
	}

	if ct == "application/toml" || strings.HasSuffix(ct, "+toml") || ct == "text/toml" {
		sc, err := scene.Parse(r.Body)
		if err != nil {
			return nil, err
		}
		return sc.Graph()
	}
	return graph.Read(r.Body)
}

// getGraph returns the current model as a JSON document.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var doc graph.Document
	err = s.registry.View(h, func(g *trellis.Graph) error {
		doc = graph.FromGraph(g)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// paintRequest selects the viewport and artifact for one paint call.
type paintRequest struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Format      string  `json:"format"`
	Engine      string  `json:"engine"`
	Labels      bool    `json:"labels"`
	MarginRatio float64 `json:"margin_ratio"`
}

// paintGraph renders the current model and responds with the artifact
// bytes. Rendering happens under the handle's lock, so a concurrent path
// update never produces a half-marked frame.
func (s *Server) paintGraph(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req paintRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Width:       req.Width,
		Height:      req.Height,
		Labels:      req.Labels,
		MarginRatio: req.MarginRatio,
		Formats:     []string{req.Format},
		Engine:      req.Engine,
		Logger:      s.logger,
	}

	var artifact []byte
	err = s.registry.View(h, func(g *trellis.Graph) error {
		artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), g, opts)
		if err != nil {
			return err
		}
		artifact = artifacts[req.Format]
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", artifactContentTypes[req.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}

// pathRequest replaces the highlighted path, either as one state per layer
// or as explicit edge references. An empty request clears every highlight.
type pathRequest struct {
	States []int             `json:"states"`
	Edges  []trellis.EdgeRef `json:"edges"`
}

func (s *Server) putPath(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req pathRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.States != nil && req.Edges != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"path accepts states or edges, not both"))
		return
	}

	if req.States != nil {
		err = s.registry.MarkStates(h, req.States)
	} else {
		err = s.registry.MarkPath(h, req.Edges)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// annotationRequest sets one node's annotation.
type annotationRequest struct {
	Layer int     `json:"layer"`
	State int     `json:"state"`
	Value float64 `json:"value"`
}

func (s *Server) putAnnotation(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req annotationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.registry.Annotate(h, req.Layer, req.State, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// deleteGraph releases the handle.
func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.registry.Release(h); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("graph released", "handle", h)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
