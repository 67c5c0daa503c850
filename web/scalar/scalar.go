// Package scalar serves the Scalar API reference page for the mood tracker API.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/moodlog/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var page = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module at basePath that renders the reference for the
// OpenAPI document published at specURL.
func NewModule(basePath, title, specURL string) *module.Module {
	return module.New(basePath, buildRouter(title, specURL))
}

func buildRouter(title, specURL string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page.Execute(w, map[string]string{
			"Title":   title,
			"SpecURL": specURL,
		})
	})

	return mux
}
