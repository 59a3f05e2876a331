package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.healthCheck)
	mux.HandleFunc("GET /roles", h.listRoles)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/feedback", h.getFeedback)
	mux.HandleFunc("GET /sessions/{sessionID}/transcript", h.getTranscript)

	// History
	mux.HandleFunc("GET /history", h.getHistory)
}
