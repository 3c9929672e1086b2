package hub

import (
	"context"
	"log/slog"
)

// Subscriber is a single feed listener.
type Subscriber struct {
	// Send is a buffered channel of outbound frames. The Hub writes to it and
	// closes it on unregister; the client drains it.
	Send chan []byte
}

// NewSubscriber creates a subscriber with room for buffer pending frames.
func NewSubscriber(buffer int) *Subscriber {
	return &Subscriber{Send: make(chan []byte, buffer)}
}

// Hub fans frames out to every registered subscriber.
type Hub struct {
	subscribers map[*Subscriber]bool

	// Broadcast delivers a frame to all subscribers.
	Broadcast chan []byte

	// Register adds a subscriber.
	Register chan *Subscriber

	// Unregister removes a subscriber and closes its Send channel.
	Unregister chan *Subscriber

	count chan chan int
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		Broadcast:   make(chan []byte),
		Register:    make(chan *Subscriber),
		Unregister:  make(chan *Subscriber),
		subscribers: make(map[*Subscriber]bool),
		count:       make(chan chan int),
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	reply := make(chan int, 1)
	h.count <- reply
	return <-reply
}

// Run processes hub traffic until ctx is canceled, then closes every
// subscriber.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for subscriber := range h.subscribers {
				close(subscriber.Send)
				delete(h.subscribers, subscriber)
			}
			return

		case subscriber := <-h.Register:
			h.subscribers[subscriber] = true
			slog.Info("New feed subscriber registered", "total_subscribers", len(h.subscribers))

		case subscriber := <-h.Unregister:
			if _, ok := h.subscribers[subscriber]; ok {
				delete(h.subscribers, subscriber)
				close(subscriber.Send)
				slog.Info("Feed subscriber unregistered", "total_subscribers", len(h.subscribers))
			}

		case reply := <-h.count:
			reply <- len(h.subscribers)

		case message := <-h.Broadcast:
			slog.Debug("Broadcasting feed frame", "recipient_count", len(h.subscribers))
			for subscriber := range h.subscribers {
				select {
				case subscriber.Send <- message:
				default:
					// Full buffer: the client is stuck or gone.
					close(subscriber.Send)
					delete(h.subscribers, subscriber)
					slog.Warn("Unregistering slow feed subscriber", "total_subscribers", len(h.subscribers))
				}
			}
		}
	}
}
