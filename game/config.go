package game

import "time"

// Config holds the per-room constants of the engine.
type Config struct {
	StartingBalance   uint64
	SmallBlind        uint64
	BigBlind          uint64
	MaxPlayers        int
	TurnTimeout       time.Duration
	IdleTimeout       time.Duration
	TickerDisabled    bool
	TickerMinGap      time.Duration
	TickerItemTimeout time.Duration
	EmojiTimeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		StartingBalance:   1000,
		SmallBlind:        10,
		BigBlind:          20,
		MaxPlayers:        8,
		TurnTimeout:       60 * time.Second,
		IdleTimeout:       300 * time.Second,
		TickerMinGap:      1500 * time.Millisecond,
		TickerItemTimeout: 8 * time.Second,
		EmojiTimeout:      8 * time.Second,
	}
}
