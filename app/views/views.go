package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
)

//go:embed layout.html posts/admin/*.html
var files embed.FS

// Files holds the templates compiled into the binary.
var Files fs.FS = files

// Page names understood by Load.
const (
	AdminIndex = "admin/index"
	AdminEdit  = "admin/edit"
)

var pages = map[string][]string{
	AdminIndex: {"layout.html", "posts/admin/index.html"},
	AdminEdit:  {"layout.html", "posts/admin/edit.html"},
}

// funcs are available to every page.
var funcs = template.FuncMap{
	// pathEscape makes a slug safe as a single path segment
	"pathEscape": url.PathEscape,
}

// Load parses every page from fsys. Each page is executed through "layout".
func Load(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, patterns := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// MustLoad is Load over the embedded files, panicking on error.
func MustLoad() map[string]*template.Template {
	templates, err := Load(Files)
	if err != nil {
		panic(err)
	}
	return templates
}
