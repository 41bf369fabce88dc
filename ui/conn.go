package ui

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Conn is a Tree that streams ops to a browser over a websocket and reads
// the browser's events back.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// Upgrade switches the request to a websocket.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(64 * 1024)
	return &Conn{ws: ws}, nil
}

// Apply sends ops as one JSON array frame.
func (c *Conn) Apply(ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(ops)
}

// ReadEvent blocks for the next browser event. Only one goroutine may read.
func (c *Conn) ReadEvent() (Event, error) {
	var ev Event
	err := c.ws.ReadJSON(&ev)
	return ev, err
}

// Close sends a close frame and closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.ws.SetWriteDeadline(time.Now().Add(time.Second))
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.ws.Close()
}

// IsClosed reports whether err is an ordinary close from the browser.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
