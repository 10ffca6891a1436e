// Package server bridges the engine to a local UI over a websocket. It
// implements the engine's presentation hooks by broadcasting messages and
// feeds UI input back through the engine's action API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Local single-process UI only.
		return true
	},
}

// WSMessage is the wire envelope in both directions.
type WSMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"player_id,omitempty"`
	CardID   string          `json:"card_id,omitempty"`
	TargetID string          `json:"target_id,omitempty"`
	PathID   int             `json:"path_id,omitempty"`
	Text     string          `json:"text,omitempty"`
	Style    string          `json:"style,omitempty"`
	Sound    string          `json:"sound,omitempty"`
	Battle   string          `json:"battle,omitempty"`
	Won      bool            `json:"won,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Client is one connected UI.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// Hub fans engine output out to connected clients and routes their input
// into the engine.
type Hub struct {
	logger *zap.Logger
	engine *game.Engine

	mu      sync.RWMutex
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	matchDefaults game.MatchConfig
}

// NewHub creates a hub bound to an engine.
func NewHub(engine *game.Engine, defaults game.MatchConfig, logger *zap.Logger) *Hub {
	return &Hub{
		logger:        logger,
		engine:        engine,
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 64),
		matchDefaults: defaults,
	}
}

// Run owns the client set. Blocks until ctx-free; run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("player", client.playerID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("client disconnected", zap.String("player", client.playerID))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) send(msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast channel full, dropping message", zap.String("type", msg.Type))
	}
}

// UpdateLog implements game.Presenter.
func (h *Hub) UpdateLog(entry string) {
	h.send(WSMessage{Type: "log", Text: entry})
}

// PlaySoundEffect implements game.Presenter.
func (h *Hub) PlaySoundEffect(name string) {
	h.send(WSMessage{Type: "sound", Sound: name})
}

// AnnounceEffect implements game.Presenter.
func (h *Hub) AnnounceEffect(text, style string, duration time.Duration) {
	h.send(WSMessage{Type: "announce", Text: text, Style: style})
}

// RenderAll implements game.Presenter by broadcasting the snapshot the
// engine built. The engine lock is held here, so this must not call back
// into the engine.
func (h *Hub) RenderAll(view *game.GameView) {
	if view == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("failed to marshal game view", zap.Error(err))
		return
	}
	h.send(WSMessage{Type: "game_state", Data: data})
}

// StoryWinLoss implements game.Presenter.
func (h *Hub) StoryWinLoss(battle string, won bool) {
	h.send(WSMessage{Type: "story_result", Battle: battle, Won: won})
}

func (h *Hub) handleMessage(client *Client, msg WSMessage) {
	ctx := context.Background()
	switch msg.Type {
	case "start_match":
		// StartMatch and Pass can suspend for pacing pauses and modal
		// prompts; run them off the read loop so acknowledgements still
		// get through.
		go func() {
			if err := h.engine.StartMatch(ctx, h.matchDefaults); err != nil {
				h.sendError(client, err)
			}
		}()

	case "play_card":
		err := h.engine.PlayCard(msg.PlayerID, msg.CardID, game.Target{
			PlayerID: msg.TargetID,
			PathID:   msg.PathID,
		})
		if err != nil {
			h.sendError(client, err)
		}

	case "pass":
		go func() {
			if err := h.engine.Pass(ctx, msg.PlayerID); err != nil {
				h.sendError(client, err)
			}
		}()

	case "acknowledge":
		h.engine.Acknowledge()

	case "xael_ability":
		if err := h.engine.UseXaelAbility(msg.PlayerID); err != nil {
			h.sendError(client, err)
		}

	default:
		h.logger.Debug("ignoring unknown message type", zap.String("type", msg.Type))
	}
}

func (h *Hub) sendError(client *Client, err error) {
	payload, merr := json.Marshal(WSMessage{Type: "error", Text: err.Error()})
	if merr != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.logger.Warn("malformed client message", zap.Error(err))
			continue
		}
		if msg.PlayerID != "" {
			c.playerID = msg.PlayerID
		}
		h.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

// ServeWS upgrades an HTTP request into a game client connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client
	go client.writePump()
	go client.readPump(h)
}
