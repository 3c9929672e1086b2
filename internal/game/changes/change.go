// Package changes validates and applies the intents clients submit.
package changes

import "github.com/nfrund/fogwar/internal/game/world"

// Change types understood by the processor.
const (
	TypeAdd               = "add"
	TypeMove              = "move"
	TypeDelete            = "delete"
	TypeSetTurnTime       = "setTurnTime"
	TypeStartTurnChanging = "startTurnChanging"
	TypeReset             = "reset"
	TypeAttack            = "attack"
	TypeReturnToAirfield  = "returnToAirfield"
	TypeExitAirfield      = "exitAirfield"
)

// Change is one client intent. Only the fields relevant to Type are set.
type Change struct {
	Type string `json:"type"`

	UnitID     *int `json:"unitId,omitempty"`
	AirfieldID *int `json:"airfieldId,omitempty"`
	AttackerID *int `json:"attackerId,omitempty"`
	DefenderID *int `json:"defenderId,omitempty"`

	// add
	UnitType string          `json:"unitType,omitempty"`
	User     string          `json:"user,omitempty"`
	Loc      *world.Location `json:"loc,omitempty"`

	// move
	NewLocation *world.Location `json:"newLocation,omitempty"`

	// setTurnTime, in milliseconds
	Time *int64 `json:"time,omitempty"`
}

// Everyone addresses a notice to all users.
const Everyone = ""

// Notice is a message for one user, or for everyone when User is Everyone.
type Notice struct {
	User    string
	Message string
}

// Casualty records a unit removed from play.
type Casualty struct {
	UnitID   int
	UnitType string
	Owner    string
	// By is the type of the unit that destroyed it; empty for non-combat losses.
	By string
}

// Outcome collects the side effects of a batch. They are only delivered once
// the new state has been persisted.
type Outcome struct {
	Notices    []Notice
	Casualties []Casualty
	// Applied counts the intents of the batch that took effect.
	Applied    int
	Mutated    bool
	Started    bool
	Reset      bool
	BackupSlot string
}

func (o *Outcome) notify(user, msg string) {
	o.Notices = append(o.Notices, Notice{User: user, Message: msg})
}

func (o *Outcome) notifyOwners(msg string, owners ...string) {
	seen := make(map[string]bool, len(owners))
	for _, u := range owners {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		o.notify(u, msg)
	}
}
