package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/guessit-backend/internal"
	"github.com/scythe504/guessit-backend/internal/metrics"
	"github.com/scythe504/guessit-backend/internal/words"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.gatherer)).Methods(http.MethodGet)
	}

	rooms := r.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", s.createRoomHandler).Methods(http.MethodPost, http.MethodOptions)
	rooms.HandleFunc("/ready", s.readyHandler).Methods(http.MethodPut, http.MethodOptions)
	rooms.HandleFunc("/guess", s.guessHandler).Methods(http.MethodPost, http.MethodOptions)
	rooms.HandleFunc("/words", s.addWordHandler).Methods(http.MethodPost, http.MethodOptions)
	rooms.HandleFunc("/ws", s.websocketHandler).Methods(http.MethodGet)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "up",
		"rooms":  s.registry.Count(),
	}
	if s.db != nil {
		db := s.db.Health(r.Context())
		resp["database"] = db
		if db["status"] != "up" {
			resp["status"] = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// ROOM ENDPOINTS
// =============================================================================

func (s *Server) createRoomHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.parseSettings(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res := s.registry.Create(settings)
	log.Info().Str("room", string(res.Key)).Msg("[createRoomHandler] room created")
	writeJSON(w, http.StatusCreated, res)
}

// parseSettings reads the optional room options from the query string and
// validates them after defaults are applied.
func (s *Server) parseSettings(r *http.Request) (internal.RoomSettings, error) {
	q := r.URL.Query()
	settings := internal.RoomSettings{
		DisableHints:           q.Get("disableHints") == "true",
		CustomWordsMode:        q.Get("customWords") == "true",
		DeactivateAfterSeconds: s.graceSecs,
	}

	var err error
	if settings.MaxPlayers, err = optionalInt(q.Get("maxPlayers")); err != nil {
		return settings, errors.New("maxPlayers must be an integer")
	}
	if settings.GameDurationSeconds, err = optionalInt(q.Get("gameDurationSeconds")); err != nil {
		return settings, errors.New("gameDurationSeconds must be an integer")
	}

	settings = settings.WithDefaults()
	return settings, settings.Validate()
}

func optionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// participantParams returns key and id, writing a 400 when either is
// missing.
func participantParams(w http.ResponseWriter, r *http.Request) (internal.RoomKey, string, bool) {
	key := r.URL.Query().Get("key")
	id := r.URL.Query().Get("id")
	if key == "" || id == "" {
		writeBadRequest(w, "key and id are required")
		return "", "", false
	}
	return internal.RoomKey(key), id, true
}

// allow rate limits a participant. Ids the room does not know get no
// bucket; the registry rejects them with WRONG_KEY or WRONG_ID.
func (s *Server) allow(w http.ResponseWriter, key internal.RoomKey, id string) bool {
	if !s.registry.IsParticipant(key, id) || s.limiters.Allow(id) {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Too many requests",
		Error:      "RATE_LIMITED",
	})
	return false
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	key, id, ok := participantParams(w, r)
	if !ok || !s.allow(w, key, id) {
		return
	}
	if err := s.registry.SetReady(key, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) guessHandler(w http.ResponseWriter, r *http.Request) {
	key, id, ok := participantParams(w, r)
	if !ok || !s.allow(w, key, id) {
		return
	}
	guess := r.URL.Query().Get("guess")
	if words.Normalize(guess) == "" {
		writeBadRequest(w, "guess is required")
		return
	}

	correct, err := s.registry.Guess(key, id, guess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"isCorrect": correct})
}

func (s *Server) addWordHandler(w http.ResponseWriter, r *http.Request) {
	key, id, ok := participantParams(w, r)
	if !ok || !s.allow(w, key, id) {
		return
	}
	raw := r.URL.Query().Get("word")
	if err := words.ValidateCustomWord(words.Normalize(raw), s.filter); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.registry.AddCustomWord(key, id, raw); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
