package server

import (
	"embed"
	"html/template"

	"github.com/ButyrinIA/qotd/internal/relativetime"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"ago":    relativetime.Format,
	"date":   relativetime.Date,
	"indent": func(depth int) int { return depth * 24 },
	"initial": func(name string) string {
		for _, r := range name {
			return string(r)
		}
		return "?"
	},
}).ParseFS(templateFS, "templates/*.html"))
