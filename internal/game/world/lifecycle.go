package world

import (
	"fmt"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/stats"
)

// PropertySource is the part of the stat catalog the lifecycle needs.
type PropertySource interface {
	Properties(unitType string) (stats.Properties, bool)
}

// NextUnitID returns one more than the largest unit id in use, or 0 when the
// world holds no units. Units stored in airfields count as in use, and so does
// the carrier id behind every deck that outlived its carrier.
func (s *State) NextUnitID() int {
	next := 0
	bump := func(id int) {
		if id+1 > next {
			next = id + 1
		}
	}
	for _, u := range s.Units {
		bump(u.ID)
	}
	for _, af := range s.Airfields {
		if af.ID >= AirfieldIDOffset {
			bump(af.ID - AirfieldIDOffset)
		}
		for _, u := range af.Units {
			bump(u.ID)
		}
	}
	return next
}

// AddUnit places a new unit in the field. A delayed unit only gets the
// catalog's deploy time once the game has started. A carrier also gets an
// airfield at its location, numbered unit id plus AirfieldIDOffset.
func (s *State) AddUnit(props PropertySource, unitType, owner string, loc Location, hp int, delayed bool) *Unit {
	p, _ := props.Properties(unitType)

	u := &Unit{
		ID:   s.NextUnitID(),
		Type: unitType,
		User: owner,
		Loc:  &loc,
		HP:   hp,
	}
	if delayed && s.GameStarted {
		if d, ok := p.Int(stats.KeyDeployTime); ok && d > 0 {
			u.DeployTime = d
		}
	}
	if fuel, ok := p.Int(stats.KeyFuel); ok {
		u.FuelLeft = &fuel
	}
	if unitType == stats.CarrierType {
		afID := u.ID + AirfieldIDOffset
		u.AirfieldID = &afID
		s.Airfields = append(s.Airfields, &Airfield{ID: afID, Loc: loc, Units: []*Unit{}})
	}

	s.Units = append(s.Units, u)
	return u
}

// FindUnit looks up a unit in the field.
func (s *State) FindUnit(id int) (*Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// MustUnit is FindUnit for callers that have already proven the unit exists.
// It panics otherwise.
func (s *State) MustUnit(id int) *Unit {
	u, ok := s.FindUnit(id)
	if !ok {
		panic(fmt.Sprintf("world: unit %d must exist", id))
	}
	return u
}

// FindAirfield looks up an airfield by id.
func (s *State) FindAirfield(id int) (*Airfield, bool) {
	for _, af := range s.Airfields {
		if af.ID == id {
			return af, true
		}
	}
	return nil, false
}

// DeleteUnit removes the unit from whichever collection holds it. It reports
// whether anything was removed.
func (s *State) DeleteUnit(id int) bool {
	if kept, removed := without(s.Units, id); removed {
		s.Units = kept
		return true
	}
	for _, af := range s.Airfields {
		if kept, removed := without(af.Units, id); removed {
			af.Units = kept
			return true
		}
	}
	return false
}

func without(units []*Unit, id int) ([]*Unit, bool) {
	for i, u := range units {
		if u.ID == id {
			kept := make([]*Unit, 0, len(units)-1)
			kept = append(kept, units[:i]...)
			kept = append(kept, units[i+1:]...)
			return kept, true
		}
	}
	return units, false
}

// MoveUnit relocates a field unit. A carrier drags its airfield along.
func (s *State) MoveUnit(id int, loc Location) bool {
	u, ok := s.FindUnit(id)
	if !ok {
		return false
	}
	u.Loc = &loc
	if u.AirfieldID != nil {
		if af, ok := s.FindAirfield(*u.AirfieldID); ok {
			af.Loc = loc
		}
	}
	return true
}

// ExitAirfield takes a stored unit out of an airfield and fields it again at
// the airfield's location with no deploy delay. The fielded unit gets a fresh
// id and a full tank.
func (s *State) ExitAirfield(props PropertySource, airfieldID, unitID int) (*Unit, error) {
	af, ok := s.FindAirfield(airfieldID)
	if !ok {
		return nil, fmt.Errorf("airfield %d: %w", airfieldID, domain.ErrNotFound)
	}
	var stored *Unit
	for _, u := range af.Units {
		if u.ID == unitID {
			stored = u
			break
		}
	}
	if stored == nil {
		return nil, fmt.Errorf("unit %d in airfield %d: %w", unitID, airfieldID, domain.ErrNotFound)
	}
	af.Units, _ = without(af.Units, unitID)
	return s.AddUnit(props, stored.Type, stored.User, af.Loc, stored.HP, false), nil
}

// ReturnResult describes what happened to a unit sent back to an airfield.
type ReturnResult struct {
	// Airfield is where the unit landed; nil when it was destroyed.
	Airfield *Airfield
	// Destroyed is set when no airfield would take the unit.
	Destroyed bool
}

// ReturnToAirfield lands a field unit at the nearest airfield that is neutral
// or already held by the unit's owner. Ties go to the first airfield found.
// A carrier never lands on its own deck. When no airfield accepts the unit it
// is removed from the world.
func (s *State) ReturnToAirfield(id int) (ReturnResult, error) {
	u, ok := s.FindUnit(id)
	if !ok {
		return ReturnResult{}, fmt.Errorf("unit %d: %w", id, domain.ErrNotFound)
	}

	var nearest *Airfield
	best := 0.0
	for _, af := range s.Airfields {
		if u.AirfieldID != nil && af.ID == *u.AirfieldID {
			continue
		}
		if !af.Accepts(u.User) {
			continue
		}
		d := u.Loc.Distance(af.Loc)
		if nearest == nil || d < best {
			nearest, best = af, d
		}
	}

	s.Units, _ = without(s.Units, id)
	if nearest == nil {
		return ReturnResult{Destroyed: true}, nil
	}
	u.Loc = nil
	nearest.Units = append(nearest.Units, u)
	return ReturnResult{Airfield: nearest}, nil
}
