package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/lobby"
	"github.com/lazharichir/holdem/room"
	"github.com/lazharichir/holdem/server/connection"
	serverevents "github.com/lazharichir/holdem/server/events"
)

var ErrUnknownCommand = errors.New("unknown command type")

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	registry *lobby.Registry
	connMgr  *connection.Manager
	now      func() time.Time
}

func NewCommandRouter(registry *lobby.Registry, connMgr *connection.Manager, now func() time.Time) *CommandRouter {
	return &CommandRouter{
		registry: registry,
		connMgr:  connMgr,
		now:      now,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return err
	}

	switch baseCmd.Name {
	case Subscribe{}.Name():
		var cmd Subscribe
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleSubscribe(client, cmd)

	case Play{}.Name():
		var cmd Play
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handlePlay(cmd)

	case StartGame{}.Name():
		var cmd StartGame
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		rm, err := r.findRoom(cmd.RoomCode)
		if err != nil {
			return err
		}
		return rm.Start()

	case SendEmoji{}.Name():
		var cmd SendEmoji
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		rm, err := r.registry.FindByPlayer(cmd.PlayerID)
		if err != nil {
			return err
		}
		return rm.SendEmoji(cmd.PlayerID, cmd.Message)

	case Leave{}.Name():
		var cmd Leave
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		rm, err := r.registry.FindByPlayer(cmd.PlayerID)
		if err != nil {
			return err
		}
		return rm.Leave(cmd.PlayerID)

	case Ping{}.Name():
		var cmd Ping
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		rm, err := r.registry.FindByPlayer(cmd.PlayerID)
		if err != nil {
			return err
		}
		return rm.ResetTurnDeadline(cmd.PlayerID)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) findRoom(raw string) (*room.Room, error) {
	code, err := lobby.ParseCode(raw)
	if err != nil {
		return nil, err
	}
	return r.registry.Find(code)
}

func (r *CommandRouter) handleSubscribe(client *connection.Client, cmd Subscribe) error {
	rm, err := r.findRoom(cmd.RoomCode)
	if err != nil {
		return err
	}
	if cmd.PlayerID != "" && !rm.HasPlayer(cmd.PlayerID) {
		return game.ErrPlayerNotFound
	}
	r.connMgr.Subscribe(client.ID, rm.Code, cmd.PlayerID)

	data, err := serverevents.Envelope("ROOM_VIEW", rm.RoomView(r.now()))
	if err != nil {
		return err
	}
	r.connMgr.SendToClient(client.ID, data)

	if cmd.PlayerID != "" {
		view, err := rm.PlayerView(cmd.PlayerID)
		if err != nil {
			return err
		}
		data, err := serverevents.Envelope("PLAYER_VIEW", view)
		if err != nil {
			return err
		}
		r.connMgr.SendToClient(client.ID, data)
	}
	return nil
}

func (r *CommandRouter) handlePlay(cmd Play) error {
	action, err := game.ParsePlayAction(cmd.Action)
	if err != nil {
		return err
	}
	rm, err := r.registry.FindByPlayer(cmd.PlayerID)
	if err != nil {
		return err
	}
	return rm.Play(cmd.PlayerID, action, cmd.Stake)
}
