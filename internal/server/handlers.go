// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/selection"
	"github.com/pdiddy/doc-digest/internal/workspace"
	"github.com/pdiddy/doc-digest/pkg/types"
)

const uploadField = "files"

// addFilesResponse reports how many uploaded files were new.
type addFilesResponse struct {
	Added int                `json:"added"`
	State workspace.Snapshot `json:"state"`
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self'; style-src 'self'; "+
			"img-src 'self' data:; connect-src 'self'; object-src 'none'; frame-ancestors 'none'")
	w.Write(data)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Snapshot())
}

func (s *Server) handleAddFiles(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "expected a multipart upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		jsonError(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	files := make([]types.SelectedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, types.SelectedFile{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	added := s.ws.AddFiles(files...)
	s.logger.Debug("files uploaded", zap.Int("received", len(files)), zap.Int("added", added))
	writeJSON(w, http.StatusOK, addFilesResponse{Added: added, State: s.ws.Snapshot()})
}

func (s *Server) handleRemoveFile(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, "invalid file index", http.StatusBadRequest)
		return
	}
	if err := s.ws.RemoveFile(index); err != nil {
		if errors.Is(err, selection.ErrIndexOutOfRange) {
			jsonError(w, "no file at that index", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.ws.Snapshot())
}

func (s *Server) handleClearFiles(w http.ResponseWriter, r *http.Request) {
	s.ws.ClearFiles()
	writeJSON(w, http.StatusOK, s.ws.Snapshot())
}

// handleProcess runs the workspace to completion. The run is detached from
// the request context so a closed tab does not cancel the generation call.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	err := s.ws.Process(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, workspace.ErrBusy):
		jsonError(w, "processing already in progress", http.StatusConflict)
		return
	case errors.Is(err, workspace.ErrNoFiles):
		jsonError(w, "no files selected", http.StatusBadRequest)
		return
	case err != nil && !errors.Is(err, workspace.ErrRunFailed):
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	// A failed run is reported through the snapshot's error panel.
	writeJSON(w, http.StatusOK, s.ws.Snapshot())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	art, err := s.ws.Download()
	if errors.Is(err, workspace.ErrNoResult) {
		jsonError(w, "no result to download", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", attachment(art.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(art.Data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// attachment returns a Content-Disposition value with control characters
// and quotes removed from name.
func attachment(name string) string {
	safe := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"`, safe)
}
