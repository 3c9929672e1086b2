package wargame

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/modules/wargame/events"
	"github.com/nfrund/fogwar/internal/modules/wargame/topics"
	"github.com/nfrund/fogwar/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type announcerFixture struct {
	ctx    context.Context
	bridge *pubsub.WatermillBridge
	sub    *hub.Subscriber
}

func newAnnouncerFixture(t *testing.T) *announcerFixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { bridge.Close() })

	h := hub.NewHub()
	go h.Run(ctx)
	sub := hub.NewSubscriber(8)
	h.Register <- sub

	require.NoError(t, NewAnnouncer(bridge, h).Start(ctx))
	return &announcerFixture{ctx: ctx, bridge: bridge, sub: sub}
}

func (f *announcerFixture) next(t *testing.T) FeedFrame {
	t.Helper()
	select {
	case data := <-f.sub.Send:
		var frame FeedFrame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a feed frame")
		return FeedFrame{}
	}
}

func TestAnnouncer_TurnChange(t *testing.T) {
	f := newAnnouncerFixture(t)

	require.NoError(t, pubsub.Publish(f.ctx, f.bridge, topics.TurnChange, events.TurnChange{
		User: "Blufor", NextUser: "Opfor", Deadline: 1234, CurrentTime: 2, Missed: true,
	}))

	frame := f.next(t)
	assert.Equal(t, FeedFrame{
		Event: FrameTurnChange, User: "Blufor", NextUser: "Opfor", Deadline: 1234, CurrentTime: 2, Missed: true,
	}, frame)
}

func TestAnnouncer_GameStart(t *testing.T) {
	f := newAnnouncerFixture(t)

	require.NoError(t, pubsub.Publish(f.ctx, f.bridge, topics.GameStart, events.GameStart{
		Players: []string{"Blufor", "Opfor"}, FirstUser: "Blufor", Deadline: 99,
	}))

	frame := f.next(t)
	assert.Equal(t, FrameGameStart, frame.Event)
	assert.Equal(t, "Blufor", frame.NextUser)
	assert.Equal(t, int64(99), frame.Deadline)
}

func TestAnnouncer_UnitLossesStayOffTheFeed(t *testing.T) {
	f := newAnnouncerFixture(t)

	require.NoError(t, pubsub.Publish(f.ctx, f.bridge, topics.UnitDestroyed, events.UnitDestroyed{
		UnitID: 7, UnitType: "Tank", Owner: "Opfor", DestroyedBy: "Blufor",
	}))
	require.NoError(t, pubsub.Publish(f.ctx, f.bridge, topics.GameReset, events.GameReset{Backup: "b.json"}))

	frame := f.next(t)
	assert.Equal(t, FrameGameReset, frame.Event, "the first frame must be the reset, not the loss")
	assert.Empty(t, frame.User)
}
