package handlers

// Command is a message a websocket client sends, tagged by Name.
type Command interface {
	Name() string
}

// Subscribe follows a room's events; PlayerID, if set, also routes the
// player's private notices to this connection.
type Subscribe struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

func (Subscribe) Name() string { return "SUBSCRIBE" }

type Play struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Stake    uint64 `json:"stake"`
}

func (Play) Name() string { return "PLAY" }

type StartGame struct {
	RoomCode string `json:"roomCode"`
}

func (StartGame) Name() string { return "START_GAME" }

type SendEmoji struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

func (SendEmoji) Name() string { return "SEND_EMOJI" }

type Leave struct {
	PlayerID string `json:"playerId"`
}

func (Leave) Name() string { return "LEAVE" }

// Ping keeps the actor's turn alive.
type Ping struct {
	PlayerID string `json:"playerId"`
}

func (Ping) Name() string { return "PING" }
