package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Greet is the original landing probe of the API.
func (a *App) Greet(w http.ResponseWriter, r *http.Request) {
	a.raw(w, http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Nice to meet you!</h1>"))
}
