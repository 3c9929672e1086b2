// Package world holds the authoritative map state: units, airfields, the game
// clock and the persisted turn schedule.
package world

import (
	"fmt"
	"math"
)

// AirfieldIDOffset is added to a carrier's unit id to derive the id of the
// airfield on its deck.
const AirfieldIDOffset = 1000

// Neutral is the affiliation of an empty airfield.
const Neutral = "Neutral"

// StartingHP is the hit points of a unit created by the referee.
const StartingHP = 100

// Location is a point in map projection units (meters).
type Location [2]float64

// Distance returns the euclidean distance between two locations.
func (l Location) Distance(o Location) float64 {
	return math.Hypot(l[0]-o[0], l[1]-o[1])
}

// Unit is a single piece on the map. Loc is nil while the unit is stored
// inside an airfield.
type Unit struct {
	ID         int       `json:"id"`
	Type       string    `json:"type"`
	User       string    `json:"user"`
	Loc        *Location `json:"loc"`
	HP         int       `json:"hp"`
	DeployTime int       `json:"deployTime"`
	FuelLeft   *int      `json:"fuelLeft"`
	AirfieldID *int      `json:"airfieldId,omitempty"`
}

// InField reports whether the unit is on the map rather than stored.
func (u *Unit) InField() bool { return u.Loc != nil }

// Deployed reports whether the unit has finished deploying.
func (u *Unit) Deployed() bool { return u.DeployTime == 0 }

func (u *Unit) clone() *Unit {
	c := *u
	if u.Loc != nil {
		loc := *u.Loc
		c.Loc = &loc
	}
	if u.FuelLeft != nil {
		f := *u.FuelLeft
		c.FuelLeft = &f
	}
	if u.AirfieldID != nil {
		id := *u.AirfieldID
		c.AirfieldID = &id
	}
	return &c
}

// Airfield stores units in arrival order.
type Airfield struct {
	ID    int      `json:"id"`
	Loc   Location `json:"loc"`
	Units []*Unit  `json:"units"`
}

// Affiliation is Neutral for an empty airfield, otherwise the owner of the
// first stored unit.
func (a *Airfield) Affiliation() string {
	if len(a.Units) == 0 {
		return Neutral
	}
	return a.Units[0].User
}

// Accepts reports whether a unit owned by user may land here.
func (a *Airfield) Accepts(user string) bool {
	aff := a.Affiliation()
	return aff == Neutral || aff == user
}

// State is the single source of truth for the game. It is persisted as one
// JSON document after every accepted request.
type State struct {
	Units       []*Unit     `json:"units"`
	Airfields   []*Airfield `json:"airfields"`
	CurrentTime int         `json:"currentTime"`
	GameStarted bool        `json:"gameStarted"`

	// TurnTime is the per-turn duration in milliseconds.
	TurnTime int64 `json:"turnTime"`
	// TurnChangeTime holds each scheduled user's next deadline, in ms since epoch.
	TurnChangeTime map[string]int64 `json:"turnChangeTime,omitempty"`
}

// New returns an empty pre-game world.
func New(turnTime int64) *State {
	return &State{
		Units:          []*Unit{},
		Airfields:      []*Airfield{},
		TurnTime:       turnTime,
		TurnChangeTime: map[string]int64{},
	}
}

// Normalize fills nil collections left behind by decoding a sparse snapshot.
func (s *State) Normalize(defaultTurnTime int64) {
	if s.Units == nil {
		s.Units = []*Unit{}
	}
	if s.Airfields == nil {
		s.Airfields = []*Airfield{}
	}
	for _, af := range s.Airfields {
		if af.Units == nil {
			af.Units = []*Unit{}
		}
	}
	if s.TurnChangeTime == nil {
		s.TurnChangeTime = map[string]int64{}
	}
	if s.TurnTime <= 0 {
		s.TurnTime = defaultTurnTime
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Units:          make([]*Unit, len(s.Units)),
		Airfields:      make([]*Airfield, len(s.Airfields)),
		CurrentTime:    s.CurrentTime,
		GameStarted:    s.GameStarted,
		TurnTime:       s.TurnTime,
		TurnChangeTime: make(map[string]int64, len(s.TurnChangeTime)),
	}
	for i, u := range s.Units {
		c.Units[i] = u.clone()
	}
	for i, af := range s.Airfields {
		units := make([]*Unit, len(af.Units))
		for j, u := range af.Units {
			units[j] = u.clone()
		}
		c.Airfields[i] = &Airfield{ID: af.ID, Loc: af.Loc, Units: units}
	}
	for user, t := range s.TurnChangeTime {
		c.TurnChangeTime[user] = t
	}
	return c
}

// Validate checks the structural invariants: every unit id is unique, field
// units have a location and stored units have none.
func (s *State) Validate() error {
	seen := make(map[int]bool)
	for _, u := range s.Units {
		if seen[u.ID] {
			return fmt.Errorf("duplicate unit id %d", u.ID)
		}
		seen[u.ID] = true
		if u.Loc == nil {
			return fmt.Errorf("unit %d is in the field without a location", u.ID)
		}
		if u.DeployTime < 0 {
			return fmt.Errorf("unit %d has negative deploy time", u.ID)
		}
	}
	afSeen := make(map[int]bool)
	for _, af := range s.Airfields {
		if afSeen[af.ID] {
			return fmt.Errorf("duplicate airfield id %d", af.ID)
		}
		afSeen[af.ID] = true
		for _, u := range af.Units {
			if seen[u.ID] {
				return fmt.Errorf("duplicate unit id %d", u.ID)
			}
			seen[u.ID] = true
			if u.Loc != nil {
				return fmt.Errorf("unit %d is stored in airfield %d but has a location", u.ID, af.ID)
			}
		}
	}
	return nil
}
