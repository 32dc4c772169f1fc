package events

import (
	"fmt"
	"strings"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/hands"
)

type GameStarted struct {
	PlayerIDs []string `json:"playerIds"`
}

func (GameStarted) Name() string { return "GAME_STARTED" }

type PlayerJoined struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerJoined) Name() string { return "PLAYER_JOINED" }

type PlayerResumed struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerResumed) Name() string { return "PLAYER_RESUMED" }

type PlayerLeft struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerLeft) Name() string { return "PLAYER_LEFT" }

// PlayerBet covers checks, calls and raises. Amount is what left the
// player's balance, RaiseTo is the street target after the action.
type PlayerBet struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Action     string `json:"action"`
	Amount     uint64 `json:"amount"`
	RaiseTo    uint64 `json:"raiseTo"`
	AllIn      bool   `json:"allIn"`
}

func (PlayerBet) Name() string { return "PLAYER_BET" }

type BlindPosted struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Amount     uint64 `json:"amount"`
	Big        bool   `json:"big"`
}

func (BlindPosted) Name() string { return "BLIND_POSTED" }

type PlayerFolded struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerFolded) Name() string { return "PLAYER_FOLDED" }

type StreetDealt struct {
	Street string       `json:"street"`
	Cards  []cards.Card `json:"cards"`
}

func (StreetDealt) Name() string { return "STREET_DEALT" }

type PaidPot struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Amount     uint64 `json:"amount"`
}

func (PaidPot) Name() string { return "PAID_POT" }

// Winner names the single winner of a pot. Hand is nil when everyone
// else folded.
type Winner struct {
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName"`
	Hand       *hands.Strength `json:"hand,omitempty"`
}

func (Winner) Name() string { return "WINNER" }

type SplitPotWinners struct {
	PlayerIDs   []string       `json:"playerIds"`
	PlayerNames []string       `json:"playerNames"`
	Hand        hands.Strength `json:"hand"`
}

func (SplitPotWinners) Name() string { return "SPLIT_POT_WINNERS" }

type RoundComplete struct {
	Pot uint64 `json:"pot"`
}

func (RoundComplete) Name() string { return "ROUND_COMPLETE" }

type PlayerTurnTimeout struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (PlayerTurnTimeout) Name() string { return "PLAYER_TURN_TIMEOUT" }

type PlayerTransferredBalance struct {
	FromPlayerID string `json:"fromPlayerId"`
	FromName     string `json:"fromName"`
	ToPlayerID   string `json:"toPlayerId"`
	ToName       string `json:"toName"`
	Amount       uint64 `json:"amount"`
}

func (PlayerTransferredBalance) Name() string { return "PLAYER_TRANSFERRED_BALANCE" }

type PlayerSentEmoji struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Emoji      string `json:"emoji"`
}

func (PlayerSentEmoji) Name() string { return "PLAYER_SENT_EMOJI" }

type RoomReset struct {
	Reason string `json:"reason"`
}

func (RoomReset) Name() string { return "ROOM_RESET" }

// Text renders an event as a one-line ticker message.
func Text(event Event) string {
	switch e := event.(type) {
	case GameStarted:
		return fmt.Sprintf("New hand with %d players", len(e.PlayerIDs))
	case PlayerJoined:
		return fmt.Sprintf("%s joined", e.PlayerName)
	case PlayerResumed:
		return fmt.Sprintf("%s is back", e.PlayerName)
	case PlayerLeft:
		return fmt.Sprintf("%s left", e.PlayerName)
	case PlayerBet:
		switch {
		case e.Action == "check":
			return fmt.Sprintf("%s checked", e.PlayerName)
		case e.AllIn:
			return fmt.Sprintf("%s is all in with %d", e.PlayerName, e.Amount)
		case e.Action == "call":
			return fmt.Sprintf("%s called %d", e.PlayerName, e.Amount)
		default:
			return fmt.Sprintf("%s raised to %d", e.PlayerName, e.RaiseTo)
		}
	case BlindPosted:
		if e.Big {
			return fmt.Sprintf("%s posted the big blind of %d", e.PlayerName, e.Amount)
		}
		return fmt.Sprintf("%s posted the small blind of %d", e.PlayerName, e.Amount)
	case PlayerFolded:
		return fmt.Sprintf("%s folded", e.PlayerName)
	case StreetDealt:
		dealt := make([]string, 0, len(e.Cards))
		for _, c := range e.Cards {
			dealt = append(dealt, c.String())
		}
		return fmt.Sprintf("%s: %s", e.Street, strings.Join(dealt, " "))
	case PaidPot:
		return fmt.Sprintf("%s won %d", e.PlayerName, e.Amount)
	case Winner:
		if e.Hand == nil {
			return fmt.Sprintf("%s takes the pot", e.PlayerName)
		}
		return fmt.Sprintf("%s wins with %s", e.PlayerName, e.Hand)
	case SplitPotWinners:
		return fmt.Sprintf("%s split the pot with %s", strings.Join(e.PlayerNames, " and "), e.Hand)
	case RoundComplete:
		return fmt.Sprintf("Hand complete, pot was %d", e.Pot)
	case PlayerTurnTimeout:
		return fmt.Sprintf("%s ran out of time", e.PlayerName)
	case PlayerTransferredBalance:
		return fmt.Sprintf("%s sent %d to %s", e.FromName, e.Amount, e.ToName)
	case PlayerSentEmoji:
		return fmt.Sprintf("%s: %s", e.PlayerName, e.Emoji)
	case RoomReset:
		return "Room was reset"
	}
	return event.Name()
}
