package httpadapter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutTemplate = "layout"

	viewHome     = "home.html"
	viewClassify = "classify.html"
	viewAbout    = "about.html"
	viewNotFound = "notfound.html"
)

type viewDef struct {
	Template string
	Title    string
}

var views = []viewDef{
	{Template: viewHome, Title: "Resume Classifier"},
	{Template: viewClassify, Title: "Classify a resume"},
	{Template: viewAbout, Title: "About the model"},
	{Template: viewNotFound, Title: "Page not found"},
}

type viewData struct {
	Title string
	Data  any
}

// templateSet holds one parsed template tree per view, each a clone of the
// shared layout.
type templateSet struct {
	views  map[string]*template.Template
	titles map[string]string
}

func newTemplateSet(fsys fs.FS, layoutFile string, defs []viewDef) (*templateSet, error) {
	layout, err := template.ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	ts := &templateSet{
		views:  make(map[string]*template.Template, len(defs)),
		titles: make(map[string]string, len(defs)),
	}
	for _, def := range defs {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", def.Template, err)
		}
		if _, err := t.ParseFS(fsys, "templates/"+def.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", def.Template, err)
		}
		ts.views[def.Template] = t
		ts.titles[def.Template] = def.Title
	}
	return ts, nil
}

// render executes into a buffer so a template failure never leaves a half
// written page behind a success status.
func (ts *templateSet) render(w http.ResponseWriter, status int, view string, data any) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, viewData{Title: ts.titles[view], Data: data}); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
