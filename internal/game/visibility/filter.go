// Package visibility computes each player's fog-of-war view of the map.
package visibility

import (
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/game/world"
)

// MetersPerKilometer converts catalog vision ranges to map units.
const MetersPerKilometer = 1000

// VisionRange returns how far, in map units, a unit of the given type sees.
func VisionRange(cat stats.Catalog, unitType string) float64 {
	props, ok := cat.Properties(unitType)
	if !ok {
		return 0
	}
	v, _ := props.Float(stats.KeyVision)
	return v * MetersPerKilometer
}

// Units returns the field units user can see: their own deployed units plus
// any unit within vision range of one of those. Every pair is checked, which
// is fine at the unit counts a game has.
func Units(s *world.State, cat stats.Catalog, user string) []*world.Unit {
	var observers []*world.Unit
	for _, u := range s.Units {
		if u.User == user && u.Deployed() {
			observers = append(observers, u)
		}
	}

	ranges := make([]float64, len(observers))
	for i, o := range observers {
		ranges[i] = VisionRange(cat, o.Type)
	}

	visible := make([]*world.Unit, 0, len(s.Units))
	for _, u := range s.Units {
		if u.User == user && u.Deployed() {
			visible = append(visible, u)
			continue
		}
		for i, o := range observers {
			if o.Loc.Distance(*u.Loc) <= ranges[i] {
				visible = append(visible, u)
				break
			}
		}
	}
	return visible
}
