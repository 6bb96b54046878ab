package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	images, err := a.Images.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	collections := make(map[string]int, len(a.Collections))
	for name, repo := range a.Collections {
		collections[string(name)] = repo.Len()
	}
	titled := 0
	for _, img := range images {
		if img.Title != nil {
			titled++
		}
	}
	a.json(w, http.StatusOK, map[string]any{
		"images":      len(images),
		"titled":      titled,
		"collections": collections,
	})
}
