// Package views holds the server-rendered HTML templates.
package views

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"timestamp": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
}

// Templates parses every page template. Templates are addressed by file
// name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
