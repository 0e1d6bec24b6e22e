package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mistaa/flowstudio/pkg/cache"
	"github.com/mistaa/flowstudio/pkg/canvas"
	flowerrors "github.com/mistaa/flowstudio/pkg/errors"
	"github.com/mistaa/flowstudio/pkg/graph"
	"github.com/mistaa/flowstudio/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	operatorID := chi.URLParam(r, "operatorID")
	if err := flowerrors.ValidateID(operatorID); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ids, err := s.store.List(r.Context(), operatorID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeStorage, err, "listing graphs"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	operatorID, graphID, err := s.pathIDs(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := r.Context()

	key := s.keyer.GraphKey(operatorID, graphID)
	if payload, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	g, err := s.store.Load(ctx, operatorID, graphID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeStorage, err, "loading graph %s", graphID))
		return
	}

	payload, err := graph.MarshalGraph(g)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeInternal, err, "encoding graph %s", graphID))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	operatorID, graphID, err := s.pathIDs(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := r.Context()

	g, err := graph.ReadGraph(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			flowerrors.Wrap(flowerrors.ErrCodeInvalidInput, err, "decoding graph payload"))
		return
	}
	// Reject payloads the editor could never have produced.
	if _, err := graph.ToFlow(g); err != nil {
		s.writeError(w, http.StatusBadRequest,
			flowerrors.Wrap(flowerrors.ErrCodeInvalidInput, err, "invalid graph payload"))
		return
	}

	if err := s.store.Save(ctx, operatorID, graphID, g); err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeStorage, err, "saving graph %s", graphID))
		return
	}
	s.invalidate(r, operatorID, graphID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	operatorID, graphID, err := s.pathIDs(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.Delete(r.Context(), operatorID, graphID); err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeStorage, err, "deleting graph %s", graphID))
		return
	}
	s.invalidate(r, operatorID, graphID)
	w.WriteHeader(http.StatusNoContent)
}

// handleExport renders the stored graph as svg, dot or png. Render settings
// come from query parameters: format, pixel_ratio, dark.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	operatorID, graphID, err := s.pathIDs(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if err := flowerrors.ValidateExportFormat(format); err != nil || format == "json" {
		s.writeError(w, http.StatusBadRequest,
			flowerrors.New(flowerrors.ErrCodeInvalidFormat, "unknown export format %q (svg, dot, png)", format))
		return
	}

	pixelRatio, _ := strconv.ParseFloat(r.URL.Query().Get("pixel_ratio"), 64)
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	dark := r.URL.Query().Get("dark") == "true"

	opts := cache.ExportKeyOpts{Format: format, PixelRatio: pixelRatio, Dark: dark}
	key := s.keyer.ExportKey(operatorID, graphID, opts)
	if artifact, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("Content-Type", exportContentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact)
		return
	}

	wire, err := s.store.Load(ctx, operatorID, graphID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeStorage, err, "loading graph %s", graphID))
		return
	}
	g, err := graph.ToFlow(wire)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			flowerrors.Wrap(flowerrors.ErrCodeInternal, err, "hydrating graph %s", graphID))
		return
	}

	var artifact []byte
	switch format {
	case "svg":
		engine := canvas.NewEngine(g)
		width, height := canvas.FrameBounds(g)
		svgOpts := []canvas.SVGOption{canvas.WithPixelRatio(pixelRatio)}
		if dark {
			svgOpts = append(svgOpts, canvas.WithDarkBackground())
		}
		artifact = canvas.RenderSVG(engine.BuildFrame(width, height), svgOpts...)
	case "dot":
		artifact = []byte(canvas.ToDOT(g))
	case "png":
		artifact, err = canvas.RenderDOTPNG(ctx, canvas.ToDOT(g))
		if err != nil {
			s.writeError(w, http.StatusInternalServerError,
				flowerrors.Wrap(flowerrors.ErrCodeInternal, err, "rendering graph %s", graphID))
			return
		}
	}

	if err := s.cache.Set(ctx, key, artifact, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
	w.Header().Set("Content-Type", exportContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}

func (s *Server) pathIDs(r *http.Request) (operatorID, graphID string, err error) {
	operatorID = chi.URLParam(r, "operatorID")
	graphID = chi.URLParam(r, "graphID")
	if err := flowerrors.ValidateID(operatorID); err != nil {
		return "", "", err
	}
	if err := flowerrors.ValidateID(graphID); err != nil {
		return "", "", err
	}
	return operatorID, graphID, nil
}

// invalidate drops the graph's cached payload. Export artifacts are keyed by
// hashed render options and cannot be enumerated; they age out via TTL.
func (s *Server) invalidate(r *http.Request, operatorID, graphID string) {
	key := s.keyer.GraphKey(operatorID, graphID)
	if err := s.cache.Delete(r.Context(), key); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if errors.Is(err, store.ErrBadID) {
		status = http.StatusBadRequest
	}
	code := string(flowerrors.GetCode(err))
	if code == "" {
		code = string(flowerrors.ErrCodeInternal)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: flowerrors.UserMessage(err)})
}

func exportContentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}
