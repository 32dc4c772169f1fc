package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/lobby"
	"github.com/lazharichir/holdem/room"
	serverevents "github.com/lazharichir/holdem/server/events"
	"github.com/rs/zerolog/log"
)

const (
	roomCodeHeader = "room-code"
	apidCookie     = "apid"

	defaultPollTimeout = 5 * time.Second
	maxPollTimeout     = 30 * time.Second
)

type NewRoomRequest struct {
	Name string `json:"name"`
}

type JoinRequest struct {
	Name     string `json:"name"`
	RoomCode string `json:"roomCode,omitempty"`
}

type JoinResponse struct {
	ID       string `json:"id"`
	RoomCode string `json:"roomCode"`
}

type PlayRequest struct {
	PlayerID string `json:"playerId"`
	Stake    uint64 `json:"stake"`
	Action   string `json:"action"`
}

type RoomRequest struct {
	RoomCode string `json:"roomCode,omitempty"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type SendRequest struct {
	Message string `json:"message"`
}

type AvailableResponse struct {
	RoomCode     string `json:"roomCode"`
	PlayersCount int    `json:"playersCount"`
}

type PhotoResponse struct {
	Token string `json:"token"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &game.Error{Kind: game.KindBadRequest, Detail: "invalid request body"}
	}
	return nil
}

// decodeOptional tolerates an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &game.Error{Kind: game.KindBadRequest, Detail: "invalid request body"}
}

// apid returns the caller's device id cookie, minting one when asked to.
func apid(w http.ResponseWriter, r *http.Request, mint bool) string {
	if c, err := r.Cookie(apidCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if !mint {
		return ""
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     apidCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// findRoom resolves the room a request targets: an explicit code, then the
// room-code header, then the roomCode query parameter. Without any of them
// the room currently open for new players is used.
func (s *Server) findRoom(r *http.Request, explicit string) (*room.Room, error) {
	raw := explicit
	if raw == "" {
		raw = r.Header.Get(roomCodeHeader)
	}
	if raw == "" {
		raw = r.URL.Query().Get("roomCode")
	}
	if raw == "" {
		if rm, ok := s.registry.Available(); ok {
			return rm, nil
		}
		return nil, lobby.ErrRoomNotFound
	}

	code, err := lobby.ParseCode(raw)
	if err != nil {
		return nil, &game.Error{Kind: game.KindBadRequest, Detail: err.Error()}
	}
	return s.registry.Find(code)
}

// longPoll waits for the room to change after the since query parameter.
// Without since it returns at once.
func longPoll(r *http.Request, rm *room.Room) error {
	q := r.URL.Query()
	rawSince := q.Get("since")
	if rawSince == "" {
		return nil
	}
	since, err := strconv.ParseInt(rawSince, 10, 64)
	if err != nil {
		return &game.Error{Kind: game.KindBadRequest, Detail: "since must be a unix millisecond time"}
	}

	timeout := defaultPollTimeout
	if rawTimeout := q.Get("timeout"); rawTimeout != "" {
		ms, err := strconv.ParseInt(rawTimeout, 10, 64)
		if err != nil || ms < 0 {
			return &game.Error{Kind: game.KindBadRequest, Detail: "timeout must be milliseconds"}
		}
		timeout = min(time.Duration(ms)*time.Millisecond, maxPollTimeout)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	rm.WaitForUpdate(ctx, since)
	return nil
}

func (s *Server) handleNewRoom(w http.ResponseWriter, r *http.Request) {
	var req NewRoomRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rm, err := s.registry.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.registry.Join(lobby.Code(rm.Code), req.Name, apid(w, r, true))
	if err != nil {
		_ = s.registry.Remove(lobby.Code(rm.Code))
		s.writeError(w, r, err)
		return
	}

	log.Info().Str("room", rm.Code).Str("player", id).Msg("room created")
	writeJSON(w, http.StatusOK, JoinResponse{ID: id, RoomCode: rm.Code})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var code lobby.Code
	switch {
	case req.RoomCode != "":
		c, err := lobby.ParseCode(req.RoomCode)
		if err != nil {
			s.writeError(w, r, &game.Error{Kind: game.KindBadRequest, Detail: err.Error()})
			return
		}
		code = c
	default:
		rm, ok := s.registry.Available()
		if !ok {
			created, err := s.registry.Create()
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			rm = created
		}
		code = lobby.Code(rm.Code)
	}

	id, err := s.registry.Join(code, req.Name, apid(w, r, true))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info().Str("room", string(code)).Str("player", id).Msg("player joined")
	writeJSON(w, http.StatusOK, JoinResponse{ID: id, RoomCode: string(code)})
}

func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.registry.Available()
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, AvailableResponse{RoomCode: rm.Code, PlayersCount: len(rm.PlayerIDs())})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	action, err := game.ParsePlayAction(req.Action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rm, err := s.registry.FindByPlayer(req.PlayerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rm.Play(req.PlayerID, action, req.Stake); err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info().Str("room", rm.Code).Str("player", req.PlayerID).Str("action", string(action)).Uint64("stake", req.Stake).Msg("player played")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rm, err := s.findRoom(r, req.RoomCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rm.Start(); err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info().Str("room", rm.Code).Msg("room closed for new players, game started")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if err := decodeOptional(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rm, err := s.findRoom(r, req.RoomCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rm.Reset(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.Drop(rm.Code)
	log.Info().Str("room", rm.Code).Msg("room reset")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePeek(w http.ResponseWriter, r *http.Request) {
	rm, err := s.findRoom(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rm.Peek(apid(w, r, false)))
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.findRoom(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := longPoll(r, rm); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rm.RoomView(s.clock.Now()))
}

func (s *Server) handleRoomEvents(w http.ResponseWriter, r *http.Request) {
	rm, err := s.findRoom(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	evs, err := s.store.LoadEvents(rm.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]serverevents.EventEnvelope, 0, len(evs))
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("marshal %s: %w", ev.Name(), err))
			return
		}
		out = append(out, serverevents.EventEnvelope{Name: ev.Name(), Payload: payload})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	rm, err := s.findRoom(r, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, rm.Dump())
}

// playerRoom finds the room of the {id} path parameter.
func (s *Server) playerRoom(r *http.Request) (string, *room.Room, error) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return id, nil, &game.Error{Kind: game.KindBadRequest, Detail: "invalid player id"}
	}
	rm, err := s.registry.FindByPlayer(id)
	return id, rm, err
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	id, rm, err := s.playerRoom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := longPoll(r, rm); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := rm.PlayerView(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id, rm, err := s.playerRoom(r)
	if err == nil {
		err = rm.Leave(id)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info().Str("room", rm.Code).Str("player", id).Msg("player left")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	id, rm, err := s.playerRoom(r)
	if err == nil {
		err = rm.ResetTurnDeadline(id)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	id, rm, err := s.playerRoom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	accounts, err := rm.Accounts(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, rm, err := s.playerRoom(r)
	if err == nil {
		err = rm.Transfer(id, req.To, req.Amount)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info().Str("room", rm.Code).Str("player", id).Uint64("amount", req.Amount).Msg("balance transferred")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, rm, err := s.playerRoom(r)
	if err == nil {
		err = rm.SendEmoji(id, req.Message)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, rm, err := s.playerRoom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+64<<10)
	file, _, err := r.FormFile("photo")
	if err != nil {
		s.writeError(w, r, &game.Error{Kind: game.KindBadRequest, Detail: "photo is missing or too large"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		s.writeError(w, r, &game.Error{Kind: game.KindBadRequest, Detail: "unreadable photo"})
		return
	}
	token, err := s.photos.Put(data)
	if err != nil {
		s.writeError(w, r, &game.Error{Kind: game.KindBadRequest, Detail: err.Error()})
		return
	}
	if err := rm.SetPhoto(id, token); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PhotoResponse{Token: token})
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	data, err := s.photos.Get(r.PathValue("token"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}
