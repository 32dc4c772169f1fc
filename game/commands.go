package game

import "strings"

// BetAction is a betting decision: Check, Call or RaiseTo.
type BetAction interface {
	ActionName() string
	isBetAction()
}

type Check struct{}

func (Check) ActionName() string { return "check" }
func (Check) isBetAction()       {}

type Call struct{}

func (Call) ActionName() string { return "call" }
func (Call) isBetAction()       {}

// RaiseTo raises the player's street total to Amount.
type RaiseTo struct {
	Amount uint64
}

func (RaiseTo) ActionName() string { return "raise" }
func (RaiseTo) isBetAction()       {}

// PlayAction is the wire form of a play request, Fold included.
type PlayAction string

const (
	PlayCheck   PlayAction = "check"
	PlayCall    PlayAction = "call"
	PlayRaiseTo PlayAction = "raiseTo"
	PlayFold    PlayAction = "fold"
)

// ParsePlayAction accepts the action names case-insensitively.
func ParsePlayAction(s string) (PlayAction, error) {
	switch strings.ToLower(s) {
	case "check":
		return PlayCheck, nil
	case "call":
		return PlayCall, nil
	case "raiseto", "raise":
		return PlayRaiseTo, nil
	case "fold":
		return PlayFold, nil
	}
	return "", badRequest("unknown action")
}

// Play applies a wire action to the engine.
func (e *Engine) Play(id string, action PlayAction, stake uint64) (Result, error) {
	switch action {
	case PlayCheck:
		return e.Bet(id, Check{})
	case PlayCall:
		return e.Bet(id, Call{})
	case PlayRaiseTo:
		if stake == 0 {
			return Result{}, badRequest("stake must be positive")
		}
		return e.Bet(id, RaiseTo{Amount: stake})
	case PlayFold:
		return e.Fold(id)
	}
	return Result{}, badRequest("unknown action")
}
