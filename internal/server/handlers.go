package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/heatmap"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
)

// MapClickRequest is a click on the street map together with the panel
// content currently displayed. A nil Event clears the panel.
type MapClickRequest struct {
	Event *streetmap.ClickEvent  `json:"event"`
	State streetmap.DisplayState `json:"state"`
}

// HeatmapClickRequest is a click on a heatmap cell. A nil Cell returns the
// placeholder chart.
type HeatmapClickRequest struct {
	Cell *heatmap.CellClick `json:"cell"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) mapFigure(w http.ResponseWriter, r *http.Request) {
	s.writeFigure(w, r, s.mapFig, "map")
}

func (s *Server) heatmapFigure(w http.ResponseWriter, r *http.Request) {
	s.writeFigure(w, r, s.heatFig, "heatmap")
}

func (s *Server) writeFigure(w http.ResponseWriter, r *http.Request, fig *figure.Figure, name string) {
	if fig == nil {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("%s data not loaded", name))
		return
	}
	render.JSON(w, r, fig)
}

func (s *Server) mapClick(w http.ResponseWriter, r *http.Request) {
	if s.mapFig == nil {
		s.fail(w, r, http.StatusNotFound, errors.New("map data not loaded"))
		return
	}
	var req MapClickRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := streetmap.HandleClick(s.mapFig, req.Event, req.State)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, out)
}

func (s *Server) heatmapClick(w http.ResponseWriter, r *http.Request) {
	if s.trees == nil {
		s.fail(w, r, http.StatusNotFound, errors.New("heatmap data not loaded"))
		return
	}
	var req HeatmapClickRequest
	if !s.decode(w, r, &req) {
		return
	}
	fig, err := heatmap.HandleClick(s.trees, req.Cell, s.theme)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, fig)
}

// decode reads and validates a JSON body into v, answering the request
// itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return false
	}
	if len(body) > maxBodySize {
		s.fail(w, r, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return false
	}
	if err := render.DecodeJSON(bytes.NewReader(body), v); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	if fe.Param() != "" {
		return fmt.Errorf("field %s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("field %s must satisfy %s", fe.Namespace(), fe.Tag())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, streetmap.ErrInvalidEvent),
		errors.Is(err, dataset.ErrMissingField):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.WarnContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
