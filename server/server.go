package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/config"
	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/lobby"
	"github.com/lazharichir/holdem/room"
	"github.com/lazharichir/holdem/server/connection"
	serverevents "github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/server/handlers"
	"github.com/rs/zerolog/log"
)

// eventHistory is how many events each room keeps for /api/room/events.
const eventHistory = 500

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server is the HTTP and websocket front of the room registry.
type Server struct {
	cfg      config.Config
	gameCfg  game.Config
	clock    clock.Clock
	shuffler func() cards.Shuffler
	exit     func(code int)

	registry   *lobby.Registry
	store      *events.InMemoryEventStore
	photos     *PhotoStore
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
	metrics    *Metrics
	reaper     *room.Reaper
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the wall clock, for tests.
func WithClock(clk clock.Clock) Option {
	return func(s *Server) { s.clock = clk }
}

// WithShuffler sets how each new room's deck is shuffled.
func WithShuffler(newShuffler func() cards.Shuffler) Option {
	return func(s *Server) { s.shuffler = newShuffler }
}

// WithGameConfig overrides the engine settings of new rooms.
func WithGameConfig(cfg game.Config) Option {
	return func(s *Server) { s.gameCfg = cfg }
}

// WithExit replaces os.Exit, used when kill_on_idle is set.
func WithExit(exit func(code int)) Option {
	return func(s *Server) { s.exit = exit }
}

func NewServer(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		gameCfg:  game.DefaultConfig(),
		clock:    clock.System{},
		shuffler: func() cards.Shuffler { return cards.NewRandomShuffler() },
		exit:     os.Exit,
		store:    events.NewInMemoryEventStore(eventHistory),
		photos:   NewPhotoStore(),
		connMgr:  connection.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gameCfg.TickerDisabled = s.gameCfg.TickerDisabled || cfg.DisableTicker

	s.registry = lobby.NewRegistry(cfg.MaxRooms, s.newRoom)
	s.dispatcher = serverevents.NewDispatcher(s.connMgr, s.roomView)
	s.cmdRouter = handlers.NewCommandRouter(s.registry, s.connMgr, s.clock.Now)
	s.metrics = newMetrics(
		func() float64 { return float64(s.registry.Len()) },
		func() float64 { return float64(s.registry.Players()) },
		func() float64 { return float64(s.connMgr.Count()) },
	)
	s.reaper = room.NewReaper(s.registry, s.clock, cfg.TickInterval, s.handleIdle)
	return s
}

func (s *Server) newRoom(code string) *room.Room {
	rm := room.New(code, game.New(s.gameCfg, s.clock, s.shuffler()))
	rm.AddEventHandler(s.store.Handle)
	rm.AddEventHandler(s.dispatcher.HandleEvent)
	rm.AddEventHandler(s.metrics.handleEvent)
	return rm
}

func (s *Server) roomView(code string) (game.RoomView, bool) {
	rm, err := s.registry.Find(lobby.Code(code))
	if err != nil {
		return game.RoomView{}, false
	}
	return rm.RoomView(s.clock.Now()), true
}

func (s *Server) handleIdle(rm *room.Room) {
	s.store.Drop(rm.Code)
	if s.cfg.KillOnIdle {
		log.Warn().Str("room", rm.Code).Msg("room went idle, exiting")
		s.exit(0)
	}
}

// Registry exposes the rooms, mainly for tests.
func (s *Server) Registry() *lobby.Registry { return s.registry }

// Reaper exposes the tick loop, mainly for tests.
func (s *Server) Reaper() *room.Reaper { return s.reaper }

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+roomCodeHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.metrics.instrument(pattern, h))
	}

	route("GET /health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	route("POST /api/new_room", s.handleNewRoom)
	route("POST /api/join", s.handleJoin)
	route("GET /api/rooms/available", s.handleAvailable)
	route("POST /api/play", s.handlePlay)
	route("POST /api/room/close", s.handleCloseRoom)
	route("POST /api/room/reset", s.handleResetRoom)
	route("GET /api/room/peek", s.handlePeek)
	route("GET /api/room", s.handleRoom)
	route("GET /api/room/events", s.handleRoomEvents)
	route("GET /api/player/{id}", s.handlePlayer)
	route("POST /api/player/{id}/leave", s.handleLeave)
	route("POST /api/player/{id}/ping", s.handlePing)
	route("GET /api/player/{id}/transfer", s.handleAccounts)
	route("POST /api/player/{id}/transfer", s.handleTransfer)
	route("POST /api/player/{id}/send", s.handleSend)
	route("POST /api/player/{id}/photo", s.handleUploadPhoto)
	route("GET /api/photo/{token}", s.handlePhoto)
	if s.cfg.Dev {
		route("GET /api/room/debug", s.handleDebug)
	}
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return corsMiddleware(mux)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go s.connMgr.Start()
	defer s.connMgr.Stop()

	s.reaper.Start()
	defer s.reaper.Stop()

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", srv.Addr).Msg("starting server")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("error upgrading to websocket")
		return
	}

	client := &connection.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	log.Debug().Str("remote", r.RemoteAddr).Str("client", client.ID).Msg("client connected")

	if !s.connMgr.Add(client) {
		conn.Close()
		return
	}

	go s.readPump(client)
	go s.writePump(client)
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Remove(client)
		client.Conn.Close()
	}()

	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client", client.ID).Msg("websocket closed")
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			s.metrics.rejected.WithLabelValues(string(errorKind(err))).Inc()
			log.Info().Err(err).Str("client", client.ID).Msg("command rejected")
			if data, err := serverevents.Envelope("ERROR", newErrorBody(err)); err == nil {
				s.connMgr.SendToClient(client.ID, data)
			}
		}
	}
}

// writePump sends messages to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client", client.ID).Msg("error writing message")
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
