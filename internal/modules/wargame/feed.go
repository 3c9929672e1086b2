package wargame

import (
	"context"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/hub"
)

// Frame events on the public turn feed.
const (
	FrameTurnChange = "turnChange"
	FrameGameStart  = "gameStart"
	FrameGameReset  = "gameReset"
)

// FeedFrame is one message on the public turn feed. It never carries unit
// data, so every spectator may receive it.
type FeedFrame struct {
	Event       string `json:"event"`
	User        string `json:"user,omitempty"`
	NextUser    string `json:"nextUser,omitempty"`
	Deadline    int64  `json:"deadline,omitempty"`
	CurrentTime int    `json:"currentTime"`
	Missed      bool   `json:"missed,omitempty"`
}

// feedBuffer is how many frames a slow client may lag before it is dropped.
const feedBuffer = 32

// Feed upgrades spectators to websocket connections on the turn hub.
type Feed struct {
	ctx context.Context
	hub *hub.Hub
}

// NewFeed creates a feed. Connections are closed when ctx is cancelled.
func NewFeed(ctx context.Context, h *hub.Hub) *Feed {
	return &Feed{ctx: ctx, hub: h}
}

// ServeWS handles websocket connection requests for the turn feed.
func (f *Feed) ServeWS(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true, // In production, check origin.
	})
	if err != nil {
		slog.Error("Failed to upgrade turn feed WebSocket", "error", err)
		return err
	}

	client := &feedClient{conn: conn, hub: f.hub, subscriber: hub.NewSubscriber(feedBuffer)}
	select {
	case f.hub.Register <- client.subscriber:
	case <-f.ctx.Done():
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return nil
	}

	go client.writePump(f.ctx)
	go client.readPump(f.ctx)

	return nil
}

// feedClient is a middleman between one websocket connection and the hub.
type feedClient struct {
	conn       *websocket.Conn
	hub        *hub.Hub
	subscriber *hub.Subscriber
}

// readPump discards inbound messages and unregisters the client once the
// connection closes.
func (c *feedClient) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.Unregister <- c.subscriber:
		case <-ctx.Done():
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				slog.Debug("Turn feed WebSocket closed")
			} else {
				slog.Warn("Turn feed readPump error", "error", err)
			}
			return
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *feedClient) writePump(ctx context.Context) {
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	for message := range c.subscriber.Send {
		if err := c.conn.Write(ctx, websocket.MessageText, message); err != nil {
			slog.Warn("Turn feed writePump error", "error", err)
			return
		}
	}
}
