// Package server exposes the interactive figures and their click callbacks
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/heatmap"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
)

// maxBodySize bounds click request bodies.
const maxBodySize = 1 << 20

// Options configures a Server. A nil data source disables its routes.
type Options struct {
	Theme figure.Theme
	View  streetmap.View
	Years analysis.YearRange
	Dates analysis.FilterOptions

	Neighborhoods *dataset.FeatureCollection
	Streets       *dataset.FeatureCollection
	Trees         *dataset.Table

	Logger *slog.Logger
}

// Server holds the figures built at startup and answers click callbacks.
type Server struct {
	logger    *slog.Logger
	theme     figure.Theme
	validator *validator.Validate

	mapFig  *figure.Figure
	heatFig *figure.Figure
	trees   *dataset.Table
}

// New builds every configured figure once.
func New(opt Options) (*Server, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	s := &Server{
		logger:    logger.With(slog.String("component", "server")),
		theme:     opt.Theme,
		validator: v,
	}
	if opt.Neighborhoods != nil && opt.Streets != nil {
		fig, err := streetmap.Build(opt.Neighborhoods, opt.Streets, opt.View, opt.Theme)
		if err != nil {
			return nil, fmt.Errorf("build map: %w", err)
		}
		s.mapFig = fig
	}
	if opt.Trees != nil {
		filtered, grid, st, err := heatmap.Prepare(opt.Trees, opt.Years, opt.Dates)
		if err != nil {
			return nil, fmt.Errorf("prepare trees: %w", err)
		}
		if st.Unparsable > 0 {
			s.logger.Warn("excluded rows with unparsable dates", "rows", st.Unparsable)
		}
		fig, err := heatmap.Figure(grid, opt.Theme)
		if err != nil {
			return nil, fmt.Errorf("build heatmap: %w", err)
		}
		s.heatFig = fig
		s.trees = filtered
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Route("/map", func(r chi.Router) {
			r.Get("/figure", s.mapFigure)
			r.Post("/click", s.mapClick)
		})
		r.Route("/heatmap", func(r chi.Router) {
			r.Get("/figure", s.heatmapFigure)
			r.Post("/click", s.heatmapClick)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
