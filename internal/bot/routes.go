package bot

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack webhook endpoints on the given router.
// Both endpoints are signature-verified when a signing secret is set.
func RegisterRoutes(r chi.Router, h *Handler, signingSecret string) {
	r.Group(func(r chi.Router) {
		r.Use(VerifySignature(signingSecret))
		r.Post("/command", h.HandleCommand)
		r.Post("/interactions", h.HandleInteraction)
	})
}
