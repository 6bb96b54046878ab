package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// Web serves the built frontend from root. Missing files answer 404 "Not found".
func (a *App) Web(root string) http.HandlerFunc {
	files := http.FileServer(http.Dir(root))
	return func(w http.ResponseWriter, r *http.Request) {
		if root == "" {
			notFound(w)
			return
		}
		target := filepath.Join(root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			_, err = os.Stat(filepath.Join(target, "index.html"))
		}
		if err != nil {
			notFound(w)
			return
		}
		files.ServeHTTP(w, r)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not found"))
}
