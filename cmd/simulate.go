package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// maxActionsPerHand stops a runaway simulation.
const maxActionsPerHand = 500

type simulateOptions struct {
	players int
	hands   int
	seed    uint64
	dump    bool
	quiet   bool
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play hands between bots and print each street",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.players < 2 || opts.players > game.DefaultConfig().MaxPlayers {
				return fmt.Errorf("players must be between 2 and %d", game.DefaultConfig().MaxPlayers)
			}
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			out := cmd.OutOrStdout()
			if opts.quiet {
				out = io.Discard
			}
			sim := newSimulation(opts, out)
			summary, err := sim.run()
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), summary)
			if opts.dump {
				fmt.Fprintln(cmd.OutOrStdout(), sim.engine.Dump())
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&opts.players, "players", 4, "number of bots")
	fs.IntVar(&opts.hands, "hands", 10, "hands to play")
	fs.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "seed for the deck and the bots")
	fs.BoolVar(&opts.dump, "dump", false, "dump the final room state")
	fs.BoolVar(&opts.quiet, "quiet", false, "only print the summary")
	return cmd
}

// simulation drives one engine with bots on a manual clock.
type simulation struct {
	opts   simulateOptions
	engine *game.Engine
	clock  *clock.Manual
	rng    *rand.Rand
	out    io.Writer
	names  map[string]string
}

type simulationSummary struct {
	Hands    int
	Balances []game.RoomPlayerView
}

func newSimulation(opts simulateOptions, out io.Writer) *simulation {
	clk := clock.NewManual(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC))
	cfg := game.DefaultConfig()
	cfg.TickerDisabled = true
	return &simulation{
		opts:   opts,
		engine: game.New(cfg, clk, cards.NewSeededShuffler(opts.seed)),
		clock:  clk,
		rng:    rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15)),
		out:    out,
		names:  map[string]string{},
	}
}

func (s *simulation) run() (simulationSummary, error) {
	for i := 0; i < s.opts.players; i++ {
		name := "Bot " + strconv.Itoa(i+1)
		id, _, err := s.engine.Join(name, "bot-"+strconv.Itoa(i+1))
		if err != nil {
			return simulationSummary{}, fmt.Errorf("join %s: %w", name, err)
		}
		s.names[id] = name
	}

	played := 0
	for played < s.opts.hands {
		res, err := s.engine.Start()
		if err != nil {
			if game.KindOf(err) == game.KindNotEnoughPlayers {
				break
			}
			return simulationSummary{}, fmt.Errorf("start hand %d: %w", played+1, err)
		}
		played++
		pterm.Fprintln(s.out, pterm.DefaultSection.Sprintf("Hand %d", played))
		s.report(res.Events)

		if err := s.playHand(); err != nil {
			return simulationSummary{}, fmt.Errorf("hand %d: %w", played, err)
		}
		s.renderTable()
	}

	return simulationSummary{Hands: played, Balances: s.engine.RoomView(s.clock.Now()).Players}, nil
}

func (s *simulation) playHand() error {
	for n := 0; s.engine.Status() == game.StatusPlaying; n++ {
		if n >= maxActionsPerHand {
			return fmt.Errorf("no result after %d actions", n)
		}
		s.clock.Advance(time.Second)

		actor := s.engine.Snapshot().Round.PlayersTurn
		view, err := s.engine.PlayerView(actor)
		if err != nil {
			return err
		}
		action, stake := s.decide(view)
		res, err := s.engine.Play(actor, action, stake)
		if err != nil {
			// a bot that misjudged the table gives up its hand
			if res, err = s.engine.Play(actor, game.PlayFold, 0); err != nil {
				return err
			}
		}
		s.report(res.Events)
	}
	return nil
}

// decide is a loose-passive bot: it mostly calls, sometimes raises the
// minimum and rarely folds.
func (s *simulation) decide(v game.PlayerView) (game.PlayAction, uint64) {
	owed := v.CallAmount - v.CurrentRoundStake
	roll := s.rng.IntN(20)

	if roll >= 17 {
		target := min(v.MinRaiseTo, v.CurrentRoundStake+v.Balance)
		if target > v.CallAmount {
			return game.PlayRaiseTo, target
		}
	}
	switch {
	case owed == 0:
		return game.PlayCheck, 0
	case roll < 2:
		return game.PlayFold, 0
	default:
		return game.PlayCall, 0
	}
}

func (s *simulation) report(evs []events.Event) {
	for _, ev := range evs {
		switch e := ev.(type) {
		case events.StreetDealt:
			pterm.Fprintln(s.out, pterm.Info.Sprint(events.Text(e)))
		case events.BlindPosted, events.PlayerBet, events.PlayerFolded, events.PlayerLeft:
			pterm.Fprintln(s.out, "  "+events.Text(ev))
		case events.Winner, events.SplitPotWinners, events.PaidPot:
			pterm.Fprintln(s.out, pterm.Success.Sprint(events.Text(ev)))
		}
	}
}

func (s *simulation) renderTable() {
	view := s.engine.RoomView(s.clock.Now())

	var panels []pterm.Panel
	for _, p := range view.Players {
		status := pterm.LightGreen("Active")
		if p.Folded {
			status = pterm.LightRed("Folded")
		}
		box := pterm.DefaultBox.WithTitle(p.Name).WithTitleTopLeft().WithHorizontalPadding(2)
		panels = append(panels, pterm.Panel{Data: box.Sprintf("%s\nBalance: %d", status, p.Balance)})
	}

	board := pterm.DefaultBox.WithTitle(pterm.LightYellow("|BOARD|")).WithTitleTopCenter().WithHorizontalPadding(4)
	boardText := joinCards(view.Cards)
	if view.Completed != nil && view.Completed.WinningHand != nil {
		boardText += "\n" + *view.Completed.WinningHand
	}

	rendered, err := pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		panels,
		{{Data: board.Sprint(boardText)}},
	}).Srender()
	if err != nil {
		return
	}
	pterm.Fprintln(s.out, rendered)
}

func renderSummary(out io.Writer, sum simulationSummary) {
	data := pterm.TableData{{"Player", "Balance"}}
	for _, p := range sum.Balances {
		data = append(data, []string{p.Name, strconv.FormatUint(p.Balance, 10)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	pterm.Fprintln(out, pterm.DefaultSection.Sprintf("After %d hands", sum.Hands))
	pterm.Fprintln(out, table)
}

func joinCards(cs []cards.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
