package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/msve-edl/internal/export"
	"github.com/heimdex/msve-edl/internal/photos"
	"github.com/samber/lo"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		if cfg.AuthToken != "" {
			r.Use(AuthMiddleware(cfg.AuthToken, cfg.Logger))
		}

		r.Get("/projects", listProjectsHandler(cfg))
		r.Get("/projects/{name}/export", renderProjectHandler(cfg))
		r.Post("/export", exportHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := cfg.Store.ListProjects(r.Context())
		if err != nil {
			cfg.Logger.Error("failed to list projects", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, ProjectsResponse{
			Projects: lo.Map(names, func(name string, _ int) ProjectResponse {
				return ProjectResponse{Name: name}
			}),
		})
	}
}

func renderProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := projectNameParam(r)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "project name required", "BAD_REQUEST")
			return
		}

		q := r.URL.Query()
		format, err := export.ParseFormat(lo.Ternary(q.Has("format"), q.Get("format"), cfg.Format))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		frameRate := cfg.FrameRate
		if v := q.Get("frame_rate"); v != "" {
			frameRate, err = strconv.Atoi(v)
			if err != nil || frameRate <= 0 {
				WriteError(w, http.StatusBadRequest, "frame_rate must be a positive integer", "BAD_REQUEST")
				return
			}
		}

		p, err := cfg.Store.GetProject(r.Context(), name)
		if err != nil {
			writeProjectError(w, cfg, name, err)
			return
		}

		doc, err := export.Render(format, p, frameRate)
		if err != nil {
			writeProjectError(w, cfg, name, err)
			return
		}

		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", "attachment; filename=\""+export.DefaultFileName(p.Name, format)+"\"")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(doc))
	}
}

// projectNameParam returns the decoded {name} segment. chi matches on the
// raw path when the request carried escaped slashes.
func projectNameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func writeProjectError(w http.ResponseWriter, cfg ServerConfig, name string, err error) {
	var mpe *export.MalformedProjectError
	switch {
	case errors.Is(err, photos.ErrProjectNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.As(err, &mpe):
		WriteError(w, http.StatusUnprocessableEntity, mpe.Error(), "MALFORMED_PROJECT")
	default:
		cfg.Logger.Error("project export failed", "project", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to export project", "INTERNAL_ERROR")
	}
}
