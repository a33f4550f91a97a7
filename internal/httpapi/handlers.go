package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/darts-scoreboard/internal/engine"
	"github.com/DoyleJ11/darts-scoreboard/internal/lobby"
	"github.com/DoyleJ11/darts-scoreboard/pkg/types"
)

// State returns the current snapshot, the same one subscribers get.
func State(lb *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := lb.State(r.Context())
		if err != nil {
			http.Error(w, "game unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, types.ServerMessage{
			Type:    types.MsgStateSnapshot,
			Version: view.Version,
			State:   &view.State,
		})
	}
}

// Hits lists the accepted hit tokens.
func Hits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.HitTokens())
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
