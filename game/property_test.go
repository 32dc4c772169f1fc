package game

import (
	"testing"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"pgregory.net/rapid"
)

// Random play never creates or destroys chips, a failed command never
// changes the room, and the player whose turn it is can always act.
func TestRandomPlayConservesChips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		n := rapid.IntRange(2, 6).Draw(t, "players")

		clk := clock.NewManual(epoch)
		e := New(testConfig(), clk, cards.NewSeededShuffler(seed))
		for i := 0; i < n; i++ {
			if _, _, err := e.Join(string(rune('A'+i)), ""); err != nil {
				t.Fatalf("join: %v", err)
			}
		}
		want := uint64(n) * e.cfg.StartingBalance
		anyone := func(label string) *Player {
			i := rapid.IntRange(0, len(e.state.Players)-1).Draw(t, label)
			return e.state.Players[i]
		}

		for step := 0; step < 200; step++ {
			if e.Status() != StatusPlaying {
				if _, err := e.Start(); err != nil {
					return
				}
				checkActor(t, e)
				continue
			}

			actor := e.state.Round.PlayersTurn
			p, _ := e.state.player(actor)
			b := e.state.Round.Betting

			var err error
			before := e.Snapshot()
			switch rapid.IntRange(0, 7).Draw(t, "action") {
			case 0:
				_, err = e.Fold(actor)
			case 1:
				_, err = e.Bet(actor, Check{})
			case 2:
				_, err = e.Bet(actor, Call{})
			case 3:
				_, err = e.Bet(actor, RaiseTo{Amount: b.MinRaiseTo(e.cfg.BigBlind)})
			case 4:
				_, err = e.Bet(actor, RaiseTo{Amount: b.PlayerStake(actor) + p.Balance})
			case 5:
				from, to := anyone("from"), anyone("to")
				amount := rapid.Uint64Range(1, from.Balance+1).Draw(t, "amount")
				_, err = e.Transfer(from.ID, to.FundsToken, amount)
			case 6:
				_, err = e.Leave(anyone("leaver").ID)
			case 7:
				var out TickOutcome
				out, err = e.Tick(clk.Advance(e.cfg.TurnTimeout + time.Second))
				if err == nil && out.TimedOut != actor {
					t.Fatalf("tick past the deadline did not time out %s", actor)
				}
			}

			if err != nil {
				if KindOf(err) == "" {
					t.Fatalf("unexpected error type: %v", err)
				}
				after := e.Snapshot()
				if len(after.Players) != len(before.Players) || after.Round.Pot != before.Round.Pot {
					t.Fatalf("failed command changed the room")
				}
			}
			if got := totalChips(e); got != want {
				t.Fatalf("chips: got %d, want %d", got, want)
			}

			var staked uint64
			for _, p := range e.state.Players {
				staked += p.Stake
			}
			if e.Status() == StatusPlaying && staked != e.state.Round.Pot {
				t.Fatalf("pot %d does not match stakes %d", e.state.Round.Pot, staked)
			}
			checkActor(t, e)
		}
	})
}

func checkActor(t *rapid.T, e *Engine) {
	if e.Status() != StatusPlaying {
		return
	}
	id := e.state.Round.PlayersTurn
	if id == "" {
		t.Fatalf("playing without an actor")
	}
	p, _ := e.state.player(id)
	if p == nil || !p.eligible() {
		t.Fatalf("actor %s cannot act", id)
	}
}
