// Package ui embeds the demo page templates and static assets.
package ui

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.tmpl static/*
var Files embed.FS

// Static is the static/ directory with the prefix stripped.
func Static() fs.FS {
	static, err := fs.Sub(Files, "static")
	if err != nil {
		panic(err)
	}
	return static
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(Files, "templates/*.tmpl")
}
