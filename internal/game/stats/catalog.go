// Package stats holds the static per-unit-type attribute catalog.
package stats

import (
	"sort"
	"strconv"
	"strings"
)

// Attribute keys read by the game core.
const (
	KeyUnitType   = "Unit Type"
	KeyVision     = "Vision"
	KeySpeed      = "Speed"
	KeyDeployTime = "Deploy Time"
	KeyFuel       = "Fuel"
	KeyDomain     = "Domain"

	// NotApplicable marks an attribute a type does not have, e.g. Fuel for ground units.
	NotApplicable = "n/a"

	// CarrierType is the unit type that owns a mobile airfield.
	CarrierType = "Carrier"
)

// Properties are the raw attributes of one unit type, keyed by CSV column.
type Properties map[string]string

// Int returns the attribute as an integer. It reports false when the attribute
// is missing, marked n/a or not numeric.
func (p Properties) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Float returns the attribute as a float.
func (p Properties) Float(key string) (float64, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, NotApplicable) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Conflict is the attack/defence/dodge triple for one attacker-defender pair.
type Conflict struct {
	Attack  float64 `json:"attack"`
	Defence float64 `json:"defence"`
	Dodge   float64 `json:"dodge"`
}

// Data is the wire form of a catalog, pushed to clients on their first sync.
type Data struct {
	UnitTypes     map[string]Properties          `json:"unitTypes"`
	ConflictStats map[string]map[string]Conflict `json:"conflictStats"`
}

// Catalog is the read-only view of unit statistics the game core consumes.
type Catalog interface {
	Properties(unitType string) (Properties, bool)
	Types() []string
	AttackStrength(attackerType, defenderType string) float64
	DefenceStrength(attackerType, defenderType string) float64
	DodgeChance(attackerType, defenderType string) float64
	Data() Data
}

// Table is an in-memory Catalog. It is immutable once built.
type Table struct {
	unitTypes map[string]Properties
	conflicts map[string]map[string]Conflict
}

// NewTable builds a catalog from already parsed data.
func NewTable(data Data) *Table {
	t := &Table{
		unitTypes: make(map[string]Properties, len(data.UnitTypes)),
		conflicts: make(map[string]map[string]Conflict, len(data.ConflictStats)),
	}
	for name, props := range data.UnitTypes {
		t.unitTypes[name] = props
	}
	for att, row := range data.ConflictStats {
		cp := make(map[string]Conflict, len(row))
		for def, c := range row {
			cp[def] = c
		}
		t.conflicts[att] = cp
	}
	return t
}

func (t *Table) Properties(unitType string) (Properties, bool) {
	p, ok := t.unitTypes[unitType]
	return p, ok
}

// Types returns the known unit type names in sorted order.
func (t *Table) Types() []string {
	names := make([]string, 0, len(t.unitTypes))
	for name := range t.unitTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) conflict(attackerType, defenderType string) Conflict {
	row, ok := t.conflicts[attackerType]
	if !ok {
		return Conflict{}
	}
	return row[defenderType]
}

func (t *Table) AttackStrength(attackerType, defenderType string) float64 {
	return t.conflict(attackerType, defenderType).Attack
}

func (t *Table) DefenceStrength(attackerType, defenderType string) float64 {
	return t.conflict(attackerType, defenderType).Defence
}

func (t *Table) DodgeChance(attackerType, defenderType string) float64 {
	return t.conflict(attackerType, defenderType).Dodge
}

func (t *Table) Data() Data {
	return Data{UnitTypes: t.unitTypes, ConflictStats: t.conflicts}
}
