package delivery

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"merchant-dashboard/session"
)

// Fixed notification payload; the browser shows it verbatim.
const (
	newOrderTitle = "New Order Received!"
	newOrderBody  = "You have a new pending order. Check the orders panel."
)

const wsWriteTimeout = 5 * time.Second

type wsMessage struct {
	Type  string `json:"type"`
	Panel string `json:"panel,omitempty"`
	HTML  string `json:"html,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// wsClient serializes writes to one connection. The websocket package allows
// at most one concurrent writer per conn.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) write(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// Hub pushes poller output to connected browser tabs: refreshed panel
// fragments, new-order notifications, and the session-expired alert. It is
// the poll.Sink of the application.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[string]map[*wsClient]bool
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log:   log,
		conns: make(map[string]map[*wsClient]bool),
	}
}

func (hub *Hub) register(sessionID string, conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.conns[sessionID] == nil {
		hub.conns[sessionID] = make(map[*wsClient]bool)
	}
	hub.conns[sessionID][client] = true
	return client
}

func (hub *Hub) unregister(sessionID string, client *wsClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.conns[sessionID], client)
	if len(hub.conns[sessionID]) == 0 {
		delete(hub.conns, sessionID)
	}
	client.conn.Close()
}

// send delivers msg to every tab of the session. The connection set is
// snapshotted first; writes run outside the hub lock so one slow peer cannot
// stall pushes to other sessions.
func (hub *Hub) send(sessionID string, msg wsMessage) {
	hub.mu.Lock()
	clients := make([]*wsClient, 0, len(hub.conns[sessionID]))
	for client := range hub.conns[sessionID] {
		clients = append(clients, client)
	}
	hub.mu.Unlock()

	for _, client := range clients {
		if err := client.write(msg); err != nil {
			hub.log.Debug().Err(err).Msg("websocket write failed, dropping connection")
			hub.unregister(sessionID, client)
		}
	}
}

// PanelRefreshed pushes a freshly rendered panel fragment.
func (hub *Hub) PanelRefreshed(sessionID string, panel session.Panel, fragment template.HTML) {
	hub.send(sessionID, wsMessage{
		Type:  "panel",
		Panel: string(panel),
		HTML:  string(fragment),
	})
}

// NewOrder raises the fixed new-order notification.
func (hub *Hub) NewOrder(sessionID string) {
	hub.send(sessionID, wsMessage{
		Type:  "new-order",
		Title: newOrderTitle,
		Body:  newOrderBody,
	})
}

// SessionExpired tells every tab of the session to bail to the login view,
// then drops the connections.
func (hub *Hub) SessionExpired(sessionID string) {
	hub.send(sessionID, wsMessage{Type: "session-expired"})

	hub.mu.Lock()
	clients := hub.conns[sessionID]
	delete(hub.conns, sessionID)
	hub.mu.Unlock()
	for client := range clients {
		client.conn.Close()
	}
}

// wsHandler upgrades a dashboard tab's connection and keeps it registered
// until the peer goes away.
func (h *HTTPEndpoint) wsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.app.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := h.hub.register(sess.ID(), conn)

	// Reads are only used to notice the peer closing.
	go func() {
		defer h.hub.unregister(sess.ID(), client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
