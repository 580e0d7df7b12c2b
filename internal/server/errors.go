package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/guessit-backend/internal/game"
)

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

var roomErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{game.ErrWrongKey, 432, "WRONG_KEY", "Provided room key is incorrect"},
	{game.ErrWrongID, 433, "WRONG_ID", "You are not participant of the room"},
	{game.ErrGameAlreadyStarted, 434, "GAME_ALREADY_STARTED", "Game had already started"},
	{game.ErrGameNotStarted, 435, "GAME_NOT_STARTED", "Game has not started yet"},
	{game.ErrAlreadyGuessed, 436, "ALREADY_GUESSED", "You have already guessed the word"},
	{game.ErrNotCustomMode, 437, "NOT_CUSTOM_MODE", "Game mode is not custom words"},
	{game.ErrDuplicateWord, 438, "DUPLICATE_WORD", "Custom word already exists"},
}

// errorCode returns the stable code of a room error, or "INTERNAL".
func errorCode(err error) string {
	for _, e := range roomErrors {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "INTERNAL"
}

func writeError(w http.ResponseWriter, err error) {
	for _, e := range roomErrors {
		if errors.Is(err, e.err) {
			writeJSON(w, e.status, errorBody{StatusCode: e.status, Message: e.message, Error: e.code})
			return
		}
	}
	log.Error().Err(err).Msg("[writeError] unexpected error")
	writeJSON(w, http.StatusInternalServerError, errorBody{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		Error:      "INTERNAL",
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Error:      "BAD_REQUEST",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("[writeJSON] error encoding response")
	}
}
