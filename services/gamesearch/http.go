package gamesearch

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// diagnosticsResponse mirrors the original deployment check payload.
// there is no database behind this service, each query is stateless.
type diagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseUrl      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response body", "err", err)
	}
}

// RegisterRoutes attaches the public http surface to mux.
func (s Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, messageResponse{Message: "Game Finder API running"})
	})
	mux.HandleFunc("GET /api/hello", func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, messageResponse{Message: "Hello from the backend API!"})
	})
	mux.HandleFunc("GET /test", func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, diagnosticsResponse{
			Backend:          "✅ Running",
			Database:         "❌ Not Used",
			ConnectionStatus: "Not Connected",
			Collections:      []string{},
		})
	})
	mux.HandleFunc("GET /api/search", s.handleSearch)
}

func (s Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := s.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJson(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}
	writeJson(w, http.StatusOK, res)
}
