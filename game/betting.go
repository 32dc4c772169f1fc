package game

// Bet records one raise or call within a street. Seq orders raises and
// calls against each other.
type Bet struct {
	PlayerID string
	Amount   uint64
	Seq      int
}

// BettingRound is the betting state of a single street. Raises carry the
// absolute street total raised to; calls carry the chips added.
type BettingRound struct {
	Raises []Bet
	Calls  []Bet
	// Acted holds the players who acted since the last raise.
	Acted map[string]bool
	seq   int
}

func (b BettingRound) clone() BettingRound {
	c := BettingRound{
		Raises: append([]Bet(nil), b.Raises...),
		Calls:  append([]Bet(nil), b.Calls...),
		Acted:  make(map[string]bool, len(b.Acted)),
		seq:    b.seq,
	}
	for id, v := range b.Acted {
		c.Acted[id] = v
	}
	return c
}

func (b *BettingRound) raise(id string, to uint64) {
	b.seq++
	b.Raises = append(b.Raises, Bet{PlayerID: id, Amount: to, Seq: b.seq})
}

func (b *BettingRound) call(id string, amount uint64) {
	b.seq++
	b.Calls = append(b.Calls, Bet{PlayerID: id, Amount: amount, Seq: b.seq})
}

func (b *BettingRound) markActed(id string) {
	if b.Acted == nil {
		b.Acted = map[string]bool{}
	}
	b.Acted[id] = true
}

// reopen clears everyone's action except the raiser's.
func (b *BettingRound) reopen(raiser string) {
	b.Acted = map[string]bool{raiser: true}
}

// CallAmount is the street total every player must reach to stay in.
func (b BettingRound) CallAmount() uint64 {
	var top uint64
	for _, r := range b.Raises {
		if r.Amount > top {
			top = r.Amount
		}
	}
	return top
}

// PlayerStake is what id has put in on this street: their latest raise
// plus any calls made after it.
func (b BettingRound) PlayerStake(id string) uint64 {
	var last *Bet
	for i := range b.Raises {
		if b.Raises[i].PlayerID == id && (last == nil || b.Raises[i].Seq > last.Seq) {
			last = &b.Raises[i]
		}
	}

	var stake uint64
	after := 0
	if last != nil {
		stake = last.Amount
		after = last.Seq
	}
	for _, c := range b.Calls {
		if c.PlayerID == id && c.Seq > after {
			stake += c.Amount
		}
	}
	return stake
}

// MinRaiseTo is the smallest legal raise target: the current top plus the
// largest increment seen on this street, and never less than bigBlind.
func (b BettingRound) MinRaiseTo(bigBlind uint64) uint64 {
	var top, increment, prev uint64
	for _, r := range b.Raises {
		if r.Amount > prev && r.Amount-prev > increment {
			increment = r.Amount - prev
		}
		if r.Amount > top {
			top = r.Amount
		}
		prev = r.Amount
	}
	if increment < bigBlind {
		increment = bigBlind
	}
	return top + increment
}

// reset starts a new street.
func (b *BettingRound) reset() {
	*b = BettingRound{Acted: map[string]bool{}}
}
