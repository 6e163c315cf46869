package calculator

import (
	"github.com/go-chi/chi/v5"

	"go-chi-keypad/internal/session"
)

// RegisterRoutes mounts the arithmetic endpoints under /calculator and the
// keypad session endpoints under /keypad.
func RegisterRoutes(r chi.Router, store *session.Store) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/chain", Chain)
		r.Post("/{op}", Binary)
	})

	k := NewKeypad(store)
	r.Route("/keypad", func(r chi.Router) {
		r.Get("/layout", k.Layout)
		r.Post("/sessions", k.Create)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", k.Get)
			r.Delete("/", k.Delete)
			r.Post("/keys", k.Press)
		})
	})
}
