package game

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors for the transport layer.
type Kind string

const (
	KindGameNotStarted        Kind = "game_not_started"
	KindGameAlreadyStarted    Kind = "game_already_started"
	KindNotEnoughPlayers      Kind = "not_enough_players"
	KindRoomFull              Kind = "room_full"
	KindNotYourTurn           Kind = "not_your_turn"
	KindCannotCheckAfterRaise Kind = "cannot_check_after_raise"
	KindNothingToCall         Kind = "nothing_to_call"
	KindAlreadyCalled         Kind = "already_called"
	KindRaiseTooSmall         Kind = "raise_too_small"
	KindInsufficientFunds     Kind = "insufficient_funds"
	KindUnknownDestination    Kind = "unknown_destination"
	KindTurnExpired           Kind = "turn_expired"
	KindPlayerNotFound        Kind = "player_not_found"
	KindRoomNotFound          Kind = "room_not_found"
	KindBadRequest            Kind = "bad_request"
	KindDeckEmpty             Kind = "deck_empty"
)

var messages = map[Kind]string{
	KindGameNotStarted:        "game has not started",
	KindGameAlreadyStarted:    "game already started",
	KindNotEnoughPlayers:      "not enough players",
	KindRoomFull:              "room is full",
	KindNotYourTurn:           "not your turn",
	KindCannotCheckAfterRaise: "cannot check after a raise",
	KindNothingToCall:         "no bets to call",
	KindAlreadyCalled:         "already called",
	KindRaiseTooSmall:         "raise is too small",
	KindInsufficientFunds:     "insufficient funds",
	KindUnknownDestination:    "unknown transfer destination",
	KindTurnExpired:           "player's turn has expired",
	KindPlayerNotFound:        "player not found",
	KindRoomNotFound:          "room not found",
	KindBadRequest:            "bad request",
	KindDeckEmpty:             "deck is empty",
}

// Error is returned by every failing engine command.
type Error struct {
	Kind   Kind
	Min    uint64 // smallest legal raise, set for KindRaiseTooSmall
	Detail string
}

func (e *Error) Error() string {
	msg := messages[e.Kind]
	if e.Kind == KindRaiseTooSmall {
		msg = fmt.Sprintf("raise must be at least %d", e.Min)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrGameNotStarted        = &Error{Kind: KindGameNotStarted}
	ErrGameAlreadyStarted    = &Error{Kind: KindGameAlreadyStarted}
	ErrNotEnoughPlayers      = &Error{Kind: KindNotEnoughPlayers}
	ErrRoomFull              = &Error{Kind: KindRoomFull}
	ErrNotYourTurn           = &Error{Kind: KindNotYourTurn}
	ErrCannotCheckAfterRaise = &Error{Kind: KindCannotCheckAfterRaise}
	ErrNothingToCall         = &Error{Kind: KindNothingToCall}
	ErrAlreadyCalled         = &Error{Kind: KindAlreadyCalled}
	ErrRaiseTooSmall         = &Error{Kind: KindRaiseTooSmall}
	ErrInsufficientFunds     = &Error{Kind: KindInsufficientFunds}
	ErrUnknownDestination    = &Error{Kind: KindUnknownDestination}
	ErrTurnExpired           = &Error{Kind: KindTurnExpired}
	ErrPlayerNotFound        = &Error{Kind: KindPlayerNotFound}
	ErrRoomNotFound          = &Error{Kind: KindRoomNotFound}
	ErrBadRequest            = &Error{Kind: KindBadRequest}
	ErrDeckEmpty             = &Error{Kind: KindDeckEmpty}
)

func raiseTooSmall(min uint64) error {
	return &Error{Kind: KindRaiseTooSmall, Min: min}
}

func badRequest(detail string) error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}

// KindOf extracts the kind of an engine error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
