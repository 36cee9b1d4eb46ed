package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/dataprocess/internal/core"
	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/ingest"
	"github.com/go-chi/chi/v5"
)

// maxDirectiveBody bounds the apply-conversion request body.
const maxDirectiveBody = 1 << 20

// handleProcessFile reads the multipart "file" field, stores it and returns
// the inferred conversion.
func (s *Server) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, fmt.Errorf("parse upload: %w", ingest.ErrTooLarge))
			return
		}
		s.fail(w, r, fmt.Errorf("parse upload: %w: %w", core.ErrNoFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, fmt.Errorf("form file: %w", core.ErrNoFile))
		return
	}
	defer file.Close()

	res, err := s.service.ProcessFile(r.Context(), header.Filename, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, res)
}

// handleApplyConversion converts a stored dataset with the directives in
// the JSON body. The dataset query parameter is optional.
func (s *Server) handleApplyConversion(w http.ResponseWriter, r *http.Request) {
	directives, err := decodeDirectives(http.MaxBytesReader(w, r.Body, maxDirectiveBody))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.service.ApplyConversion(r.Context(), r.URL.Query().Get("dataset"), directives)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, res)
}

func decodeDirectives(body io.Reader) ([]infer.Directive, error) {
	var directives []infer.Directive
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&directives); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDirectives, err)
	}
	return directives, nil
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Dataset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.Preview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "column"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, p)
}

// handleDatasetView renders the converted dataset as an HTML table.
func (s *Server) handleDatasetView(w http.ResponseWriter, r *http.Request) {
	ds, table, err := s.service.ConvertedTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := datasetPage(ds, table).Render(r.Context(), &buf); err != nil {
		s.fail(w, r, fmt.Errorf("render dataset %s: %w", ds.ID, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type healthResponse struct {
	Status  string             `json:"status"`
	Limiter core.LimiterStatus `json:"limiter"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, healthResponse{
		Status:  "ok",
		Limiter: s.service.Limiter().Status(),
	})
}
