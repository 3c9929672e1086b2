package changes

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/game/turn"
	"github.com/nfrund/fogwar/internal/game/world"
	"github.com/nfrund/fogwar/internal/middleware"
)

// MapSource backs up the live map and provides the initial one for a reset.
type MapSource interface {
	Backup(ctx context.Context) (string, error)
	LoadDefault(ctx context.Context) (*world.State, error)
}

// Processor applies change batches to a world state. It never persists; the
// caller writes the state once the whole batch went through.
type Processor struct {
	catalog   stats.Catalog
	scheduler *turn.Scheduler
	maps      MapSource
	roll      func() float64
	now       func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithDice replaces the combat roll. It must return values in [0, 100).
func WithDice(roll func() float64) Option {
	return func(p *Processor) {
		p.roll = roll
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor creates a processor.
func NewProcessor(cat stats.Catalog, sc *turn.Scheduler, maps MapSource, opts ...Option) *Processor {
	p := &Processor{
		catalog:   cat,
		scheduler: sc,
		maps:      maps,
		roll:      func() float64 { return rand.Float64() * 100 },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ApplyAdmin runs a referee batch. Only a failed reset returns an error;
// every other problem is logged and skipped.
func (p *Processor) ApplyAdmin(ctx context.Context, s *world.State, batch []Change) (*Outcome, error) {
	logger := middleware.FromContext(ctx)
	out := &Outcome{}

	for _, c := range batch {
		switch c.Type {
		case TypeAdd:
			if c.Loc == nil || c.UnitType == "" || c.User == "" {
				logger.Warn("Ignoring incomplete add", "change", c)
				continue
			}
			if _, ok := p.catalog.Properties(c.UnitType); !ok {
				logger.Warn("Adding unit of unknown type", "unit_type", c.UnitType)
			}
			u := s.AddUnit(p.catalog, c.UnitType, c.User, *c.Loc, world.StartingHP, true)
			logger.Info("Unit added", "unit_id", u.ID, "unit_type", u.Type, "owner", u.User)
			out.Applied++
			out.Mutated = true

		case TypeMove:
			if c.UnitID == nil || c.NewLocation == nil {
				logger.Warn("Ignoring incomplete move", "change", c)
				continue
			}
			if !s.MoveUnit(*c.UnitID, *c.NewLocation) {
				logger.Warn("Move for unknown unit", "unit_id", *c.UnitID)
				continue
			}
			out.Applied++
			out.Mutated = true

		case TypeDelete:
			if c.UnitID == nil || !s.DeleteUnit(*c.UnitID) {
				logger.Warn("Delete for unknown unit", "change", c)
				continue
			}
			out.Applied++
			out.Mutated = true

		case TypeSetTurnTime:
			if c.Time == nil || *c.Time <= 0 {
				logger.Warn("Ignoring invalid turn time", "change", c)
				continue
			}
			s.TurnTime = *c.Time
			logger.Info("Turn time changed", "turn_time_ms", s.TurnTime)
			out.Applied++
			out.Mutated = true

		case TypeStartTurnChanging:
			if s.GameStarted {
				logger.Warn("Game already started")
				continue
			}
			p.scheduler.Start(s, p.now())
			out.Started = true
			out.Applied++
			out.Mutated = true
			out.notify(Everyone, "The game has started")
			logger.Info("Deployment phase over, turns are running", "first", p.scheduler.NextTurnUser(s))

		case TypeReset:
			if err := p.reset(ctx, s, out); err != nil {
				return nil, err
			}

		default:
			logger.Warn("Ignoring unknown admin change", "type", c.Type)
		}
	}
	return out, nil
}

func (p *Processor) reset(ctx context.Context, s *world.State, out *Outcome) error {
	slot, err := p.maps.Backup(ctx)
	if err != nil {
		return fmt.Errorf("failed to back up map before reset: %w", err)
	}
	fresh, err := p.maps.LoadDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to load default map: %w", err)
	}
	turnTime := s.TurnTime
	*s = *fresh
	if turnTime > 0 {
		s.TurnTime = turnTime
	}
	s.Normalize(turnTime)
	p.scheduler.Reset(s)

	out.Reset = true
	out.Applied++
	out.BackupSlot = slot
	out.Mutated = true
	out.notify(Everyone, "The map has been reset")
	middleware.FromContext(ctx).Info("Map reset", "backup", slot)
	return nil
}

// ApplyTurn runs a player's batch. Intents that target missing units or
// units the player does not own are logged and skipped. This includes moves:
// a player may relocate any of their own units anywhere, but never a unit
// owned by someone else.
func (p *Processor) ApplyTurn(ctx context.Context, s *world.State, user string, batch []Change) *Outcome {
	logger := middleware.FromContext(ctx)
	out := &Outcome{}

	for _, c := range batch {
		switch c.Type {
		case TypeMove:
			if c.UnitID == nil || c.NewLocation == nil {
				logger.Warn("Ignoring incomplete move", "change", c)
				continue
			}
			if _, ok := p.ownUnit(ctx, s, user, *c.UnitID); !ok {
				continue
			}
			s.MoveUnit(*c.UnitID, *c.NewLocation)
			out.Applied++
			out.Mutated = true

		case TypeAttack:
			if c.AttackerID == nil || c.DefenderID == nil {
				logger.Warn("Ignoring incomplete attack", "change", c)
				continue
			}
			if p.attack(ctx, s, user, *c.AttackerID, *c.DefenderID, out) {
				out.Applied++
			}

		case TypeReturnToAirfield:
			if c.UnitID == nil {
				logger.Warn("Ignoring incomplete return", "change", c)
				continue
			}
			u, ok := p.ownUnit(ctx, s, user, *c.UnitID)
			if !ok {
				continue
			}
			p.returnToAirfield(s, u, out, false)
			out.Applied++

		case TypeExitAirfield:
			if c.UnitID == nil || c.AirfieldID == nil {
				logger.Warn("Ignoring incomplete exit", "change", c)
				continue
			}
			if p.exitAirfield(ctx, s, user, *c.AirfieldID, *c.UnitID, out) {
				out.Applied++
			}

		default:
			logger.Warn("Ignoring unknown change", "type", c.Type, "user", user)
		}
	}
	return out
}

func (p *Processor) ownUnit(ctx context.Context, s *world.State, user string, id int) (*world.Unit, bool) {
	u, ok := s.FindUnit(id)
	if !ok {
		middleware.FromContext(ctx).Warn("Change targets unknown unit", "unit_id", id, "user", user)
		return nil, false
	}
	if u.User != user {
		middleware.FromContext(ctx).Warn("Change targets another player's unit", "unit_id", id, "user", user, "owner", u.User)
		return nil, false
	}
	return u, true
}

func (p *Processor) returnToAirfield(s *world.State, u *world.Unit, out *Outcome, forced bool) {
	id, unitType, owner := u.ID, u.Type, u.User
	res, err := s.ReturnToAirfield(id)
	if err != nil {
		return
	}
	out.Mutated = true

	var msg string
	switch {
	case res.Destroyed && forced:
		msg = fmt.Sprintf("%s's %s %d ran out of fuel with no airfield in reach and was lost", owner, unitType, id)
	case res.Destroyed:
		msg = fmt.Sprintf("%s %d found no airfield and was lost", unitType, id)
	case forced:
		msg = fmt.Sprintf("%s's %s %d ran out of fuel and returned to airfield %d", owner, unitType, id, res.Airfield.ID)
	default:
		msg = fmt.Sprintf("%s %d landed at airfield %d", unitType, id, res.Airfield.ID)
	}
	if res.Destroyed {
		out.Casualties = append(out.Casualties, Casualty{UnitID: id, UnitType: unitType, Owner: owner})
	}
	if forced {
		out.notify(Everyone, msg)
		return
	}
	out.notify(owner, msg)
}

func (p *Processor) exitAirfield(ctx context.Context, s *world.State, user string, airfieldID, unitID int, out *Outcome) bool {
	logger := middleware.FromContext(ctx)
	if af, ok := s.FindAirfield(airfieldID); ok && af.Affiliation() != user {
		logger.Warn("Exit from an airfield the user does not hold", "airfield_id", airfieldID, "user", user)
		return false
	}
	u, err := s.ExitAirfield(p.catalog, airfieldID, unitID)
	if err != nil {
		logger.Warn("Exit airfield failed", "airfield_id", airfieldID, "unit_id", unitID, "error", err)
		return false
	}
	out.Mutated = true
	out.notify(user, fmt.Sprintf("%s left airfield %d as unit %d", u.Type, airfieldID, u.ID))
	return true
}

// Upkeep runs the end-of-turn bookkeeping for user's units: deploy timers
// count down and fuel burns. A unit already on an empty tank is sent back to
// an airfield instead.
func (p *Processor) Upkeep(ctx context.Context, s *world.State, user string) *Outcome {
	out := &Outcome{}

	units := make([]*world.Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.User == user {
			units = append(units, u)
		}
	}

	for _, u := range units {
		if u.DeployTime > 0 {
			u.DeployTime--
			out.Mutated = true
			if u.DeployTime == 0 {
				out.notify(u.User, fmt.Sprintf("%s %d deployed", u.Type, u.ID))
			}
		}
		if u.FuelLeft == nil {
			continue
		}
		if *u.FuelLeft <= 0 {
			middleware.FromContext(ctx).Info("Unit out of fuel", "unit_id", u.ID, "owner", u.User)
			p.returnToAirfield(s, u, out, true)
			continue
		}
		*u.FuelLeft--
		out.Mutated = true
	}
	return out
}

// Merge appends the effects of other to o.
func (o *Outcome) Merge(other *Outcome) {
	if other == nil {
		return
	}
	o.Notices = append(o.Notices, other.Notices...)
	o.Casualties = append(o.Casualties, other.Casualties...)
	o.Applied += other.Applied
	o.Mutated = o.Mutated || other.Mutated
	o.Started = o.Started || other.Started
	o.Reset = o.Reset || other.Reset
	if other.BackupSlot != "" {
		o.BackupSlot = other.BackupSlot
	}
}
