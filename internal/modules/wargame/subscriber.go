package wargame

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/modules/wargame/events"
	"github.com/nfrund/fogwar/internal/modules/wargame/topics"
	"github.com/nfrund/fogwar/internal/pubsub"
)

// Announcer relays game events to the public turn feed.
type Announcer struct {
	subscriber pubsub.Subscriber
	feed       *hub.Hub
}

// NewAnnouncer creates an announcer.
func NewAnnouncer(sub pubsub.Subscriber, feed *hub.Hub) *Announcer {
	return &Announcer{subscriber: sub, feed: feed}
}

// Start subscribes to the game topics. Handlers run until ctx is cancelled.
func (a *Announcer) Start(ctx context.Context) error {
	slog.Info("Starting wargame announcer")

	if err := pubsub.Subscribe(ctx, a.subscriber, topics.TurnChange, a.handleTurnChange); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topics.TurnChange.Name(), err)
	}
	if err := pubsub.Subscribe(ctx, a.subscriber, topics.GameStart, a.handleGameStart); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topics.GameStart.Name(), err)
	}
	if err := pubsub.Subscribe(ctx, a.subscriber, topics.GameReset, a.handleGameReset); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topics.GameReset.Name(), err)
	}
	if err := pubsub.Subscribe(ctx, a.subscriber, topics.UnitDestroyed, a.handleUnitDestroyed); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topics.UnitDestroyed.Name(), err)
	}
	return nil
}

func (a *Announcer) handleTurnChange(ctx context.Context, e events.TurnChange) error {
	return a.broadcast(ctx, FeedFrame{
		Event:       FrameTurnChange,
		User:        e.User,
		NextUser:    e.NextUser,
		Deadline:    e.Deadline,
		CurrentTime: e.CurrentTime,
		Missed:      e.Missed,
	})
}

func (a *Announcer) handleGameStart(ctx context.Context, e events.GameStart) error {
	return a.broadcast(ctx, FeedFrame{
		Event:       FrameGameStart,
		NextUser:    e.FirstUser,
		Deadline:    e.Deadline,
		CurrentTime: e.CurrentTime,
	})
}

func (a *Announcer) handleGameReset(ctx context.Context, e events.GameReset) error {
	slog.InfoContext(ctx, "Map reset announced", "backup", e.Backup)
	return a.broadcast(ctx, FeedFrame{Event: FrameGameReset})
}

// Unit losses stay off the feed: they reveal positions and owners.
func (a *Announcer) handleUnitDestroyed(ctx context.Context, e events.UnitDestroyed) error {
	slog.InfoContext(ctx, "Unit destroyed",
		"unit_id", e.UnitID,
		"unit_type", e.UnitType,
		"owner", e.Owner,
		"destroyed_by", e.DestroyedBy)
	return nil
}

func (a *Announcer) broadcast(ctx context.Context, frame FeedFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case a.feed.Broadcast <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
