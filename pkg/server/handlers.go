package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
	"github.com/kustodian/sunburst/pkg/integrations"
	"github.com/kustodian/sunburst/pkg/pipeline"
	"github.com/kustodian/sunburst/pkg/render"
	"github.com/kustodian/sunburst/pkg/render/sunburst"
	"github.com/kustodian/sunburst/pkg/view"
)

// maxBodyBytes bounds request bodies; every body here is a few numbers.
const maxBodyBytes = 64 << 10

type createRequest struct {
	ContainerID int64 `json:"containerId"`
	Refresh     bool  `json:"refresh,omitempty"`
}

type viewResponse struct {
	ID     uuid.UUID   `json:"id"`
	Source string      `json:"source"`
	Nodes  int         `json:"nodes"`
	Update view.Update `json:"update"`
}

// activateRequest addresses a node by child indices or, failing that, by
// labels. Placeholders can only be addressed by index.
type activateRequest struct {
	Path   []int    `json:"path,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

type transitionResponse struct {
	Changed bool        `json:"changed"`
	Update  view.Update `json:"update"`
}

type errorBody struct {
	Error struct {
		Code    errs.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "views": s.views.len()})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	width, height, err := s.size(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := s.runner.Overview(r.Context(), r.URL.Query().Get("refresh") == "true", width, height)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeBytes(w, render.FormatSVG.ContentType(), svg)
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ContainerID <= 0 {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "containerId must be positive"))
		return
	}

	src := pipeline.Source{ContainerID: req.ContainerID}
	tree, err := s.runner.Load(r.Context(), src, req.Refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}

	e := s.views.add(src, view.New(tree, s.viewOptions()...))
	s.logger.Info("view created", "id", e.id, "source", src, "nodes", tree.Len())
	writeJSON(w, http.StatusCreated, viewResponse{
		ID:     e.id,
		Source: src.String(),
		Nodes:  tree.Len(),
		Update: e.view.Snapshot(),
	})
}

func (s *Server) viewOptions() []view.Option {
	opts := []view.Option{
		view.WithLogger(s.logger),
		view.WithContext(s.ctx),
		view.WithLookupTimeout(s.cfg.LookupTimeout),
	}
	if s.lookup != nil {
		opts = append(opts, view.WithLookup(s.lookup))
	}
	return opts
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		ID:     e.id,
		Source: e.source.String(),
		Nodes:  e.view.Tree().Len(),
		Update: e.view.Snapshot(),
	})
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || !s.views.remove(id) {
		s.writeError(w, errs.New(errs.ErrCodeViewNotFound, "view %q not found", chi.URLParam(r, "id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req activateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	node, err := resolve(e.view.Tree(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	changed := e.view.HandleNodeActivated(node)
	writeJSON(w, http.StatusOK, transitionResponse{Changed: changed, Update: e.view.Snapshot()})
}

func resolve(tree *capacity.Tree, req activateRequest) (*capacity.Node, error) {
	if req.Path != nil {
		return pipeline.FocusIndices(tree, req.Path)
	}
	n, ok := tree.Find(req.Labels...)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidPath, "no node labelled %q", req.Labels)
	}
	return n, nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*view.View).Reset)
}

func (s *Server) handleUp(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*view.View).Up)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(*view.View) bool) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	changed := fn(e.view)
	writeJSON(w, http.StatusOK, transitionResponse{Changed: changed, Update: e.view.Snapshot()})
}

func (s *Server) handleSunburst(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	width, height, err := s.size(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := render.FormatSVG
	if f := r.URL.Query().Get("format"); f != "" {
		if format, err = render.ParseFormat(f); err != nil {
			s.writeError(w, err)
			return
		}
	}

	opts := pipeline.Options{
		VizType: pipeline.VizSunburst,
		Formats: []string{string(format)},
		Width:   width,
		Height:  height,
	}
	artifacts, err := s.runner.Render(r.Context(), e.view.Tree(), e.view.Current(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeBytes(w, format.ContentType(), artifacts[string(format)])
}

func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	writeBytes(w, render.FormatSVG.ContentType(), sunburst.RenderTrail(e.view.Snapshot().Trail))
}

// entry looks up the view named in the URL, writing a 404 when it is gone.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err == nil {
		if e, ok := s.views.get(id); ok {
			return e, true
		}
	}
	s.writeError(w, errs.New(errs.ErrCodeViewNotFound, "view %q not found", raw))
	return nil, false
}

func (s *Server) size(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	width, err := floatParam(q.Get("width"), s.cfg.Width)
	if err != nil {
		return 0, 0, err
	}
	height, err := floatParam(q.Get("height"), s.cfg.Height)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func floatParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > 10000 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid size %q", raw)
	}
	return v, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidVizType,
		errs.ErrCodeInvalidPath, errs.ErrCodeInvalidSelection:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeViewNotFound:
		return http.StatusNotFound
	case errs.ErrCodeMalformedTree:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNetwork, errs.ErrCodeLookupFailed:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, integrations.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
