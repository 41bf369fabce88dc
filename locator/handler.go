package locator

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"parks/app"
	"parks/places"
	"parks/ui"
)

var (
	activeMu sync.RWMutex
	active   = map[string]*Locator{}
)

// Active returns the number of open pages.
func Active() int {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return len(active)
}

// Handler upgrades the page's websocket and runs a locator on it until the
// browser goes away.
func Handler(cfg Config, svc places.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ui.Upgrade(w, r)
		if err != nil {
			app.Log("locator", "WebSocket upgrade error: %v", err)
			return
		}

		id := uuid.New().String()
		l := New(id, cfg, svc, conn)

		activeMu.Lock()
		active[id] = l
		n := len(active)
		activeMu.Unlock()
		app.Log("locator", "page connected: %s (total: %d)", id, n)

		ctx, cancel := context.WithCancel(context.Background())
		defer func() {
			cancel()
			conn.Close()
			activeMu.Lock()
			delete(active, id)
			n := len(active)
			activeMu.Unlock()
			app.Log("locator", "page disconnected: %s (total: %d)", id, n)
		}()

		go func() {
			if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				app.Log("locator", "%s stopped: %v", id, err)
				conn.Close()
			}
		}()

		for {
			ev, err := conn.ReadEvent()
			if err != nil {
				if !ui.IsClosed(err) {
					app.Log("locator", "%s read: %v", id, err)
				}
				return
			}
			l.Handle(ev)
		}
	}
}
