// Package engine owns the live game: the world, the turn schedule and the
// per-user sessions. Every request is handled under one lock, applied to a
// copy of the world and committed only once that copy has been persisted.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/changes"
	"github.com/nfrund/fogwar/internal/game/session"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/game/turn"
	"github.com/nfrund/fogwar/internal/game/visibility"
	"github.com/nfrund/fogwar/internal/game/world"
	"github.com/nfrund/fogwar/internal/middleware"
	"github.com/nfrund/fogwar/internal/pubsub"
)

// Snapshots is the persistence collaborator.
type Snapshots interface {
	Read(ctx context.Context) (*world.State, error)
	Write(ctx context.Context, s *world.State) error
	Backup(ctx context.Context) (string, error)
	LoadDefault(ctx context.Context) (*world.State, error)
}

// Config wires a Game.
type Config struct {
	Roster    *Roster
	Catalog   stats.Catalog
	Snapshots Snapshots
	// Publisher receives game events; nil disables them.
	Publisher pubsub.Publisher
	// Grace is how late a turn may be before the referee skips it.
	Grace           time.Duration
	DefaultTurnTime int64
	Now             func() time.Time
	Dice            func() float64
}

// Game is the process-wide game context.
type Game struct {
	mu sync.Mutex

	state     *world.State
	roster    *Roster
	catalog   stats.Catalog
	snapshots Snapshots
	scheduler *turn.Scheduler
	sessions  *session.Sessions
	processor *changes.Processor
	publisher pubsub.Publisher
	now       func() time.Time
	metrics   Metrics
}

// New loads the persisted world, falling back to the default map, and
// returns a ready game.
func New(ctx context.Context, cfg Config) (*Game, error) {
	if cfg.Roster == nil || cfg.Catalog == nil || cfg.Snapshots == nil {
		return nil, errors.New("engine: roster, catalog and snapshots are required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	g := &Game{
		roster:    cfg.Roster,
		catalog:   cfg.Catalog,
		snapshots: cfg.Snapshots,
		scheduler: turn.NewScheduler(cfg.Roster.Players(), cfg.Grace),
		sessions:  session.New(cfg.Roster.Names()),
		publisher: cfg.Publisher,
		now:       cfg.Now,
	}
	opts := []changes.Option{changes.WithClock(cfg.Now)}
	if cfg.Dice != nil {
		opts = append(opts, changes.WithDice(cfg.Dice))
	}
	g.processor = changes.NewProcessor(cfg.Catalog, g.scheduler, cfg.Snapshots, opts...)

	st, err := cfg.Snapshots.Read(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		slog.Info("No saved game, loading the default map")
		st, err = cfg.Snapshots.LoadDefault(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load default map: %w", err)
		}
		if err := cfg.Snapshots.Write(ctx, st); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load saved game: %w", err)
	}
	st.Normalize(cfg.DefaultTurnTime)
	g.state = st

	slog.Info("Game loaded",
		"units", len(st.Units),
		"airfields", len(st.Airfields),
		"game_started", st.GameStarted,
		"players", cfg.Roster.Players())
	return g, nil
}

// Metrics exposes the engine counters.
func (g *Game) Metrics() *Metrics {
	return &g.metrics
}

// Status is a read-only summary of the schedule.
type Status struct {
	GameStarted bool             `json:"gameStarted"`
	CurrentTime int              `json:"currentTime"`
	TurnTime    int64            `json:"turnTime"`
	TurnOwner   string           `json:"turnOwner"`
	Deadlines   map[string]int64 `json:"deadlines"`
}

// Status returns the current schedule.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	deadlines := make(map[string]int64, len(g.state.TurnChangeTime))
	for u, d := range g.state.TurnChangeTime {
		deadlines[u] = d
	}
	return Status{
		GameStarted: g.state.GameStarted,
		CurrentTime: g.state.CurrentTime,
		TurnTime:    g.state.TurnTime,
		TurnOwner:   g.scheduler.NextTurnUser(g.state),
		Deadlines:   deadlines,
	}
}

// Handle authenticates the caller and runs one sync or turn change.
//
// Errors: domain.ErrInvalidCredentials for a bad login, domain.ErrAdminOnly
// when a player sends changes on a sync, domain.ErrUnknownRequest for an
// unknown request type and domain.ErrPersistence when the world could not be
// saved. In every error case the live world is untouched.
func (g *Game) Handle(ctx context.Context, req Request) (*Response, error) {
	g.metrics.inc(&g.metrics.Requests)
	logger := middleware.FromContext(ctx).With("user", req.Username, "request_type", req.RequestType)

	user, err := g.roster.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		g.metrics.inc(&g.metrics.AuthFailures)
		logger.Warn("Authentication failed")
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch req.RequestType {
	case RequestSync:
		return g.sync(ctx, logger, user, req)
	case RequestTurnChange:
		return g.turnChange(ctx, logger, user, req)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRequest, req.RequestType)
	}
}

func (g *Game) sync(ctx context.Context, logger *slog.Logger, user *domain.User, req Request) (*Response, error) {
	g.metrics.inc(&g.metrics.Syncs)

	if user.Role() != domain.RoleAdmin {
		if len(req.Changes) > 0 {
			g.metrics.inc(&g.metrics.AdminViolations)
			logger.Warn("User attempted admin move", "changes", len(req.Changes))
			return nil, domain.ErrAdminOnly
		}
		return g.respond(user, req.FirstSync), nil
	}

	work := g.state.Clone()
	out := &changes.Outcome{}
	var turns []turn.Advance

	if adv, ok := g.correctMissedTurn(ctx, work, out); ok {
		logger.Info("Skipped overdue turn", "skipped", adv.User, "next", adv.Next)
		turns = append(turns, adv)
	}

	applied, err := g.processor.ApplyAdmin(ctx, work, req.Changes)
	if err != nil {
		g.metrics.inc(&g.metrics.PersistFailures)
		logger.Error("Admin batch failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	out.Merge(applied)
	g.metrics.add(&g.metrics.ChangesApplied, applied.Applied)

	if err := g.commit(ctx, work, out); err != nil {
		logger.Error("Failed to persist world", "error", err)
		return nil, err
	}
	g.publish(ctx, out, turns, true)

	return g.respond(user, req.FirstSync), nil
}

// correctMissedTurn skips the turn owner when they are past their deadline by
// more than the grace window. Their upkeep still runs; their intents are lost.
func (g *Game) correctMissedTurn(ctx context.Context, work *world.State, out *changes.Outcome) (turn.Advance, bool) {
	if !work.GameStarted {
		return turn.Advance{}, false
	}
	now := g.now()
	owner, offset, ok := g.scheduler.Overdue(work, now)
	if !ok {
		return turn.Advance{}, false
	}
	g.metrics.inc(&g.metrics.MissedTurnsCorrected)
	out.Merge(g.processor.Upkeep(ctx, work, owner))
	out.Mutated = true
	return g.scheduler.Complete(work, owner, now, offset), true
}

func (g *Game) turnChange(ctx context.Context, logger *slog.Logger, user *domain.User, req Request) (*Response, error) {
	if !g.scheduler.IsTurnOf(g.state, user.Name) {
		g.metrics.inc(&g.metrics.TurnsRejected)
		logger.Info("Turn change out of turn", "turn_owner", g.scheduler.NextTurnUser(g.state))
		resp := g.respond(user, req.FirstSync)
		resp.IsCorrectTurn = false
		return resp, nil
	}

	work := g.state.Clone()
	out := g.processor.ApplyTurn(ctx, work, user.Name, req.Changes)
	g.metrics.add(&g.metrics.ChangesApplied, out.Applied)
	out.Merge(g.processor.Upkeep(ctx, work, user.Name))
	adv := g.scheduler.Complete(work, user.Name, g.now(), 0)
	out.Mutated = true

	if err := g.commit(ctx, work, out); err != nil {
		logger.Error("Failed to persist world", "error", err)
		return nil, err
	}
	g.metrics.inc(&g.metrics.TurnsAccepted)
	logger.Info("Turn accepted", "next", adv.Next, "current_time", work.CurrentTime)
	g.publish(ctx, out, []turn.Advance{adv}, false)

	resp := g.respond(user, req.FirstSync)
	resp.IsCorrectTurn = true
	return resp, nil
}

// commit persists work and, once that succeeded, makes it the live world and
// delivers the batch's notices.
func (g *Game) commit(ctx context.Context, work *world.State, out *changes.Outcome) error {
	if !out.Mutated {
		return nil
	}
	if err := g.snapshots.Write(ctx, work); err != nil {
		g.metrics.inc(&g.metrics.PersistFailures)
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return err
	}
	g.state = work

	if out.Reset {
		g.sessions.Reset()
	}
	g.sessions.MarkAllChanged()
	for _, n := range out.Notices {
		if n.User == changes.Everyone {
			g.sessions.NotifyAll(n.Message)
			continue
		}
		g.sessions.Notify(n.User, n.Message)
	}
	return nil
}

// respond builds the caller's view of the live world and drains their
// session. IsCorrectTurn reports whether the caller owns the turn now.
func (g *Game) respond(user *domain.User, firstSync bool) *Response {
	st := g.state
	resp := &Response{
		MapState: MapState{
			Airfields:   st.Airfields,
			CurrentTime: st.CurrentTime,
			GameStarted: st.GameStarted,
		},
		TurnTime:  st.TurnTime,
		UsersList: g.roster.Players(),
	}

	if user.Role() == domain.RoleAdmin {
		resp.MapState.Units = st.Units
		resp.UnitTypes = g.catalog.Types()
	} else {
		resp.MapState.Units = visibility.Units(st, g.catalog, user.Name)
		resp.NextTurnChange = g.scheduler.Deadline(st, user.Name)
		resp.IsCorrectTurn = g.scheduler.IsTurnOf(st, user.Name)
	}

	if g.sessions.ConsumeFirstSync(user.Name) || firstSync {
		data := g.catalog.Data()
		resp.StatsData = &data
	}
	resp.Notifications, resp.AnyChanges = g.sessions.Drain(user.Name)
	return resp
}
