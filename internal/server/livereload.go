package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/knadh/koanf/providers/file"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans reload notifications out to connected browsers.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	closed  bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the request and holds the connection until the
// browser goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("livereload upgrade: %v", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast tells every connected browser to reload.
func (h *Hub) Broadcast(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reason)); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Watch broadcasts a reload whenever one of paths changes. Watch errors are
// logged and the remaining files keep being watched. The returned function
// stops all watchers.
func (h *Hub) Watch(paths ...string) func() {
	var providers []*file.File
	for _, p := range paths {
		f := file.Provider(p)
		err := f.Watch(func(event interface{}, err error) {
			if err != nil {
				log.Printf("watching %s: %v", p, err)
				return
			}
			log.Printf("%s changed, reloading %d browser(s)", p, h.Clients())
			h.Broadcast(p)
		})
		if err != nil {
			log.Printf("cannot watch %s: %v", p, err)
			continue
		}
		providers = append(providers, f)
	}
	return func() {
		for _, f := range providers {
			f.Unwatch()
		}
	}
}
