package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/lobby"
	"github.com/lazharichir/holdem/room"
	"github.com/rs/zerolog/log"
)

const kindTooManyRooms game.Kind = "too_many_rooms"

type errorBody struct {
	Error   game.Kind `json:"error"`
	Message string    `json:"message"`
	Min     uint64    `json:"min,omitempty"`
}

// errorKind maps any error the server sees onto the engine's taxonomy.
func errorKind(err error) game.Kind {
	switch {
	case errors.Is(err, lobby.ErrRoomNotFound), errors.Is(err, room.ErrDisposed):
		return game.KindRoomNotFound
	case errors.Is(err, lobby.ErrPlayerNotFound):
		return game.KindPlayerNotFound
	case errors.Is(err, lobby.ErrTooManyRooms):
		return kindTooManyRooms
	}
	if kind := game.KindOf(err); kind != "" {
		return kind
	}
	return game.KindBadRequest
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: errorKind(err), Message: err.Error()}
	var gerr *game.Error
	if errors.As(err, &gerr) {
		body.Min = gerr.Min
	}
	return body
}

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindPlayerNotFound, game.KindRoomNotFound:
		return http.StatusNotFound
	case kindTooManyRooms:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeError logs the rejection and answers with the error kind.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := newErrorBody(err)
	s.metrics.rejected.WithLabelValues(string(body.Error)).Inc()
	log.Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("kind", string(body.Error)).
		Msg(body.Message)
	writeJSON(w, statusFor(body.Error), body)
}
