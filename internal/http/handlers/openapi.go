package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"
)

//go:embed openapi.json
var openAPIDocument []byte

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} {{.Version}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="{{.DocumentURL}}"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

const openAPIDocumentURL = "/api/openapi.json"

// renderDocs builds the viewer page once from the embedded document's info block.
var renderDocs = sync.OnceValues(func() ([]byte, error) {
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(openAPIDocument, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err := docsPage.Execute(&buf, map[string]string{
		"Title":       doc.Info.Title,
		"Version":     doc.Info.Version,
		"DocumentURL": openAPIDocumentURL,
	})
	return buf.Bytes(), err
})

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	a.raw(w, http.StatusOK, "application/json; charset=utf-8", openAPIDocument)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	page, err := renderDocs()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.raw(w, http.StatusOK, "text/html; charset=utf-8", page)
}
