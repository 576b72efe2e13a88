package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/heimdex/msve-edl/internal/export"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if strings.TrimSpace(req.ProjectName) == "" {
			WriteError(w, http.StatusBadRequest, "project_name is required", "BAD_REQUEST")
			return
		}

		if req.Format == "" {
			req.Format = cfg.Format
		}
		format, err := export.ParseFormat(req.Format)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		frameRate := req.FrameRate
		if frameRate < 0 {
			WriteError(w, http.StatusBadRequest, "frame_rate must not be negative", "BAD_REQUEST")
			return
		}
		if frameRate == 0 {
			frameRate = cfg.FrameRate
		}

		p, err := cfg.Store.GetProject(r.Context(), req.ProjectName)
		if err != nil {
			writeProjectError(w, cfg, req.ProjectName, err)
			return
		}

		doc, err := export.Render(format, p, frameRate)
		if err != nil {
			writeProjectError(w, cfg, req.ProjectName, err)
			return
		}

		outputPath := filepath.Join(req.OutputDir, export.DefaultFileName(p.Name, format))
		if err := export.WriteFile(outputPath, doc); err != nil {
			cfg.Logger.Error("failed to write export file", "path", outputPath, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("project exported", "project", p.Name, "format", format, "path", outputPath, "events", len(p.Entries))

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:     "ok",
			Format:     format,
			OutputPath: outputPath,
			EventCount: len(p.Entries),
		})
	}
}
