// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package views renders the HTML list and detail pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	"github.com/ManuGH/filmshelf/internal/film"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "layout.html"
	listFile   = "index.html"
	detailFile = "video.html"
)

// ListPage is the data passed to index.html.
type ListPage struct {
	Title string
	Films []film.Video
}

// DetailPage is the data passed to video.html. Video is nil when the
// requested id does not exist.
type DetailPage struct {
	Title string
	Video *film.Video
}

// Renderer holds the parsed page templates.
type Renderer struct {
	list   *template.Template
	detail *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return parse(sub)
}

// NewFromDir parses templates from dir, which must contain layout.html,
// index.html and video.html.
func NewFromDir(dir string) (*Renderer, error) {
	return parse(os.DirFS(dir))
}

func parse(fsys fs.FS) (*Renderer, error) {
	list, err := template.ParseFS(fsys, layoutFile, listFile)
	if err != nil {
		return nil, fmt.Errorf("parse list template: %w", err)
	}
	detail, err := template.ParseFS(fsys, layoutFile, detailFile)
	if err != nil {
		return nil, fmt.Errorf("parse detail template: %w", err)
	}
	return &Renderer{list: list, detail: detail}, nil
}

// RenderList writes the list page for videos.
func (r *Renderer) RenderList(w io.Writer, videos []film.Video) error {
	return execute(w, r.list, ListPage{Title: "Videos", Films: videos})
}

// RenderDetail writes the detail page. A nil video renders the not-found state.
func (r *Renderer) RenderDetail(w io.Writer, v *film.Video) error {
	page := DetailPage{Title: "Video not found", Video: v}
	if v != nil {
		page.Title = v.Name
	}
	return execute(w, r.detail, page)
}

// execute renders into a buffer first so a template error never leaves a
// half-written page on the wire.
func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
