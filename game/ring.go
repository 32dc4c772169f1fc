package game

// TurnRing answers seat-order questions over the active players.
type TurnRing struct {
	seats []*Player
}

func newTurnRing(seats []*Player) TurnRing {
	return TurnRing{seats: seats}
}

func (r TurnRing) index(id string) int {
	for i, p := range r.seats {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Eligible returns the players able to act, in seat order.
func (r TurnRing) Eligible() []*Player {
	var out []*Player
	for _, p := range r.seats {
		if p.eligible() {
			out = append(out, p)
		}
	}
	return out
}

// FirstEligible returns the lowest seat able to act.
func (r TurnRing) FirstEligible() *Player {
	return r.scan(-1, (*Player).eligible)
}

// NextEligibleAfter cycles forward from id, ending at id itself.
func (r TurnRing) NextEligibleAfter(id string) *Player {
	return r.scan(r.index(id), (*Player).eligible)
}

// scan visits every seat once starting after index and returns the first
// player matching ok.
func (r TurnRing) scan(index int, ok func(*Player) bool) *Player {
	n := len(r.seats)
	for step := 1; step <= n; step++ {
		p := r.seats[((index+step)%n+n)%n]
		if ok(p) {
			return p
		}
	}
	return nil
}
