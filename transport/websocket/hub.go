package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Outbound is the envelope for every server-to-client message.
type Outbound struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents one WebSocket connection. A client belongs to at most
// one game room at a time; it enters a room on connect (when the URL names a
// game) or on its first successful join.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// subscription moves a client into a game room.
type subscription struct {
	client *Client
	gameID string
}

// roomMessage is a pre-marshaled broadcast addressed to one game room.
type roomMessage struct {
	gameID string
	data   []byte
}

// Hub maintains the set of active clients grouped by game and fans
// broadcasts out to exactly the connections that joined a game.
type Hub struct {
	// Registered clients by game ID
	rooms map[string]map[*Client]bool

	// Outbound room broadcasts
	broadcast chan *roomMessage

	// Room membership changes
	subscribe  chan *subscription
	unregister chan *Client

	dispatcher *Dispatcher
}

// NewHub creates a new WebSocket hub. The dispatcher handles the inbound
// protocol; pass nil for a broadcast-only hub.
func NewHub(dispatcher *Dispatcher) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *roomMessage),
		subscribe:  make(chan *subscription),
		unregister: make(chan *Client),
		dispatcher: dispatcher,
	}
}

// Run starts the hub's event loop. Room membership and fan-out are only
// touched from this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.subscribe:
			h.subscribeClient(sub.client, sub.gameID)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToRoom(message)
		}
	}
}

// ServeWS handles WebSocket upgrade requests. gameID may be empty; such a
// connection joins a room once its JOIN_GAME succeeds.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if gameID != "" {
		h.subscribe <- &subscription{client: client, gameID: gameID}
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Subscribe moves a client into a game's room, leaving any previous room.
func (h *Hub) Subscribe(client *Client, gameID string) {
	h.subscribe <- &subscription{client: client, gameID: gameID}
}

// BroadcastToGame sends a typed message to every connection in a game's
// room. Delivery is best-effort: a slow client gets dropped rather than
// stalling the rest of the room.
func (h *Hub) BroadcastToGame(gameID, messageType string, payload interface{}) {
	data, err := json.Marshal(&Outbound{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.broadcast <- &roomMessage{gameID: gameID, data: data}
}

// Send queues a typed message for this connection only.
func (c *Client) Send(messageType string, payload interface{}) {
	data, err := json.Marshal(&Outbound{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal reply message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Send buffer full; the write pump will tear the connection down
		// when it next fails, nothing more to do here.
	}
}

// subscribeClient adds a client to a game room, removing it from its old
// room first.
func (h *Hub) subscribeClient(client *Client, gameID string) {
	if client.gameID == gameID {
		return
	}
	if client.gameID != "" {
		h.removeFromRoom(client)
	}

	client.gameID = gameID
	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[*Client]bool)
	}
	h.rooms[gameID][client] = true

	log.Printf("Client joined room %s (total clients: %d)", gameID, len(h.rooms[gameID]))
}

// unregisterClient removes a client from its room and closes its send
// channel.
func (h *Hub) unregisterClient(client *Client) {
	if client.gameID == "" {
		close(client.send)
		return
	}
	if clients, ok := h.rooms[client.gameID]; ok {
		if _, ok := clients[client]; ok {
			gameID := client.gameID
			h.removeFromRoom(client)
			close(client.send)
			h.announceLeft(gameID)
		}
	}
}

// announceLeft tells the remaining room members a connection went away. The
// roster itself is untouched; a dropped connection does not remove its
// player from the game.
func (h *Hub) announceLeft(gameID string) {
	data, err := json.Marshal(&Outbound{
		Type:      MsgPlayerLeft,
		Payload:   map[string]string{"gameId": gameID},
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	h.broadcastToRoom(&roomMessage{gameID: gameID, data: data})
}

// removeFromRoom drops the client from its current room, cleaning up the
// room when it empties.
func (h *Hub) removeFromRoom(client *Client) {
	clients, ok := h.rooms[client.gameID]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.gameID)
	}
	log.Printf("Client left room %s (remaining clients: %d)", client.gameID, len(clients))
}

// broadcastToRoom fans a message out to every client in one game room.
func (h *Hub) broadcastToRoom(message *roomMessage) {
	clients, ok := h.rooms[message.gameID]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- message.data:
		default:
			// Client's send channel is full, close it
			h.removeFromRoom(client)
			close(client.send)
		}
	}
}

// readPump pumps messages from the WebSocket connection into the protocol
// dispatcher.
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if c.hub.dispatcher != nil {
			c.hub.dispatcher.Dispatch(c, raw)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
