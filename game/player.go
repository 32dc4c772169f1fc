package game

import (
	"hash/fnv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lazharichir/holdem/cards"
)

const maxNameLength = 24

// Player is a seat holder in a room.
type Player struct {
	ID           string
	Apid         string
	Name         string
	FundsToken   string
	Balance      uint64
	Stake        uint64 // chips committed to the current hand
	Folded       bool
	Cards        [2]cards.Card
	TurnDeadline *time.Time
	Emoji        *EmojiMessage
	Photo        string
	// Leaving players are moved to the dormant pool when the hand ends.
	Leaving bool
	// HideCards suppresses Cards in completed-round views; set for players
	// who came back while their old cards were stale.
	HideCards bool
}

// EmojiMessage is a reaction shown next to the player until Expires.
type EmojiMessage struct {
	Emoji   Emoji
	Expires time.Time
}

func newPlayer(name, apid string, balance uint64) *Player {
	return &Player{
		ID:         uuid.NewString(),
		Apid:       apid,
		Name:       name,
		FundsToken: newFundsToken(),
		Balance:    balance,
	}
}

// newFundsToken returns the first hyphen group of a random UUID.
func newFundsToken() string {
	id := uuid.NewString()
	return id[:strings.IndexByte(id, '-')]
}

func (p *Player) clone() *Player {
	c := *p
	if p.TurnDeadline != nil {
		d := *p.TurnDeadline
		c.TurnDeadline = &d
	}
	if p.Emoji != nil {
		e := *p.Emoji
		c.Emoji = &e
	}
	return &c
}

// eligible reports whether the player can still act in this hand.
func (p *Player) eligible() bool {
	return !p.Folded && p.Balance > 0
}

// ColorHue derives a stable display hue from the player id.
func ColorHue(id string) uint16 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return uint16(h.Sum32() % 360)
}

// NormalizeName trims and collapses whitespace and validates the result.
func NormalizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", badRequest("name is empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", badRequest("name is too long")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", badRequest("name contains control characters")
		}
	}
	return name, nil
}

// Emoji is one of the reactions a player may send.
type Emoji string

const (
	EmojiThumbsUp   Emoji = "thumbsUp"
	EmojiThumbsDown Emoji = "thumbsDown"
	EmojiLaugh      Emoji = "laugh"
	EmojiShock      Emoji = "shock"
	EmojiAngry      Emoji = "angry"
	EmojiParty      Emoji = "party"
	EmojiThinking   Emoji = "thinking"
	EmojiMoney      Emoji = "money"
)

var emojiGlyphs = map[Emoji]string{
	EmojiThumbsUp:   "👍",
	EmojiThumbsDown: "👎",
	EmojiLaugh:      "😂",
	EmojiShock:      "😱",
	EmojiAngry:      "😡",
	EmojiParty:      "🎉",
	EmojiThinking:   "🤔",
	EmojiMoney:      "🤑",
}

// ParseEmoji accepts only the known reaction names.
func ParseEmoji(s string) (Emoji, error) {
	e := Emoji(s)
	if _, ok := emojiGlyphs[e]; !ok {
		return "", badRequest("unknown emoji")
	}
	return e, nil
}

func (e Emoji) Glyph() string {
	return emojiGlyphs[e]
}
