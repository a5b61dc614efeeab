// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/filmshelf/internal/film"
	"github.com/ManuGH/filmshelf/internal/log"
)

type updateResponse struct {
	Updated bool        `json:"updated"`
	Video   *film.Video `json:"video,omitempty"`
}

type deleteResponse struct {
	Deleted bool        `json:"deleted"`
	Video   *film.Video `json:"video,omitempty"`
}

// handleIndex renders every record.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderHTML(w, r, func(wr io.Writer) error {
		return s.pages.RenderList(wr, s.catalog.List())
	})
}

// handleDetail renders one record. An unknown id renders the not-found
// state with status 200.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := film.ParseID(chi.URLParam(r, "video_id"))
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	var found *film.Video
	if v, ok := s.catalog.Find(id); ok {
		found = &v
	}
	s.renderHTML(w, r, func(wr io.Writer) error {
		return s.pages.RenderDetail(wr, found)
	})
}

// handleCreate appends the body record and echoes it back.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	v, ok := s.decodeVideo(w, r, nil)
	if !ok {
		return
	}
	if err := s.catalog.Append(r.Context(), v); err != nil {
		writeInternalError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Info().
		Str(log.FieldEvent, "video.created").
		Int(log.FieldVideoID, v.ID).
		Msg("video created")
	writeJSON(w, http.StatusOK, v)
}

// handleUpdate overwrites the text fields of the first record with the path
// id. The response echoes the request body, including its own id.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, pathErr := film.ParseID(chi.URLParam(r, "video_id"))
	v, ok := s.decodeVideo(w, r, pathErr)
	if !ok {
		return
	}

	updated, err := s.catalog.Update(r.Context(), id, v)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if !updated {
		writeJSON(w, http.StatusOK, updateResponse{Updated: false})
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Updated: true, Video: &v})
}

// handleDelete removes the first record with the path id.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := film.ParseID(chi.URLParam(r, "video_id"))
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	removed, ok, err := s.catalog.Remove(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, deleteResponse{Deleted: false})
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: true, Video: &removed})
}

// decodeVideo reads and validates the request body. pathErr, when set, is
// reported ahead of any body errors in a single 422. It returns false once
// a response has been written.
func (s *Server) decodeVideo(w http.ResponseWriter, r *http.Request, pathErr error) (film.Video, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeTooLarge(w)
			return film.Video{}, false
		}
		writeInternalError(w, r, err)
		return film.Video{}, false
	}

	v, bodyErr := film.Decode(data)
	if pathErr == nil && bodyErr == nil {
		return v, true
	}
	if bodyErr != nil && !film.IsValidation(bodyErr) {
		writeInternalError(w, r, bodyErr)
		return film.Video{}, false
	}

	merged := &film.ValidationError{}
	for _, e := range []error{pathErr, bodyErr} {
		var verr *film.ValidationError
		if errors.As(e, &verr) {
			merged.Errors = append(merged.Errors, verr.Errors...)
		}
	}
	writeValidationError(w, r, merged)
	return film.Video{}, false
}

// renderHTML writes an HTML page. Pages render into a buffer first, so a
// failed render leaves the response untouched.
func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w); err != nil {
		writeInternalError(w, r, err)
	}
}
