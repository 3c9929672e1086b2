package engine

import (
	"context"
	"time"

	"github.com/nfrund/fogwar/internal/game/changes"
	"github.com/nfrund/fogwar/internal/game/turn"
	"github.com/nfrund/fogwar/internal/middleware"
	"github.com/nfrund/fogwar/internal/modules/wargame/events"
	"github.com/nfrund/fogwar/internal/modules/wargame/topics"
	"github.com/nfrund/fogwar/internal/pubsub"
)

// publish announces what a committed batch did. Failures are logged; the
// batch is already persisted.
func (g *Game) publish(ctx context.Context, out *changes.Outcome, turns []turn.Advance, missed bool) {
	if g.publisher == nil {
		return
	}
	logger := middleware.FromContext(ctx)
	ts := g.now().UTC().Format(time.RFC3339)
	st := g.state

	for _, adv := range turns {
		err := pubsub.Publish(ctx, g.publisher, topics.TurnChange, events.TurnChange{
			User:        adv.User,
			NextUser:    adv.Next,
			Deadline:    adv.NextDeadline,
			CurrentTime: st.CurrentTime,
			Missed:      missed,
			Timestamp:   ts,
		})
		if err != nil {
			logger.Error("Failed to publish turn change", "error", err)
		}
	}

	if out.Started {
		first := g.scheduler.NextTurnUser(st)
		err := pubsub.Publish(ctx, g.publisher, topics.GameStart, events.GameStart{
			Players:     g.scheduler.Users(),
			FirstUser:   first,
			Deadline:    g.scheduler.Deadline(st, first),
			CurrentTime: st.CurrentTime,
			Timestamp:   ts,
		})
		if err != nil {
			logger.Error("Failed to publish game start", "error", err)
		}
	}

	if out.Reset {
		err := pubsub.Publish(ctx, g.publisher, topics.GameReset, events.GameReset{
			Backup:    out.BackupSlot,
			Timestamp: ts,
		})
		if err != nil {
			logger.Error("Failed to publish game reset", "error", err)
		}
	}

	for _, c := range out.Casualties {
		err := pubsub.Publish(ctx, g.publisher, topics.UnitDestroyed, events.UnitDestroyed{
			UnitID:      c.UnitID,
			UnitType:    c.UnitType,
			Owner:       c.Owner,
			DestroyedBy: c.By,
			Timestamp:   ts,
		})
		if err != nil {
			logger.Error("Failed to publish unit destroyed", "error", err)
		}
	}
}
