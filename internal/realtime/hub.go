package realtime

import (
	"context"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Hub fans published change events out to connected websocket clients. It
// is the delivery end of the fire-and-forget publish path: a slow or gone
// client is dropped, never waited on.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()

		case payload := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client can't keep up; drop it.
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues a payload for every connected client.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// Stop shuts the hub down and waits for Run to exit.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Relay subscribes to the event channels and forwards every published
// payload into the hub. It returns when ctx is cancelled.
func (h *Hub) Relay(ctx context.Context, client *goredis.Client, channels ...string) {
	pubsub := client.Subscribe(ctx, channels...)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				logrus.Warn("event relay subscription closed")
				return
			}
			h.Broadcast([]byte(msg.Payload))
		}
	}
}
