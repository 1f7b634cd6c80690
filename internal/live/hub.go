package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

const (
	EventRoundStarted        = "round_started"
	EventMatchResolved       = "match_resolved"
	EventTournamentCompleted = "tournament_completed"
)

// Event is one update pushed to every subscriber of a tournament room.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type message struct {
	room uuid.UUID
	data []byte
}

// Hub fans tournament events out to websocket subscribers. Rooms are
// keyed by tournament id and all state is owned by the Run loop, so no
// locking is needed.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	rooms      map[uuid.UUID]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run owns the room registry. Call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			slog.Info("live client joined", "tournament", client.room, "subscribers", len(h.rooms[client.room]))

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.room]; ok && clients[client] {
				delete(clients, client)
				close(client.send)
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
				slog.Info("live client left", "tournament", client.room, "subscribers", len(clients))
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					// slow consumer, drop the update rather than stall the hub
				}
			}
		}
	}
}

// Publish sends an event to every subscriber of the tournament room.
func (h *Hub) Publish(room uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal live event", "type", event.Type, "error", err)
		return
	}
	h.broadcast <- message{room: room, data: data}
}

// Client is one websocket subscriber attached to a single room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room uuid.UUID
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and subscribes it to the tournament room.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, room uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 16), room: room}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs are processed. Subscribers
// are listeners, inbound payloads are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read", "tournament", c.room, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
