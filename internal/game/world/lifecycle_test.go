package world_test

import (
	"testing"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/world"
	"github.com/nfrund/fogwar/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertStorageInvariant checks that every unit is either on the map or in
// exactly one airfield, never both.
func assertStorageInvariant(t *testing.T, s *world.State) {
	t.Helper()
	require.NoError(t, s.Validate())
}

func TestAddUnit_PreGameHasNoDeployDelay(t *testing.T) {
	s := world.New(60000)
	u := s.AddUnit(testutils.Catalog(), "Tank", "Blufor", world.Location{100000, 200000}, world.StartingHP, true)

	assert.Equal(t, 0, u.ID)
	assert.Equal(t, 0, u.DeployTime)
	assert.Equal(t, 100, u.HP)
	require.NotNil(t, u.Loc)
	assert.Equal(t, world.Location{100000, 200000}, *u.Loc)
	assert.Nil(t, u.FuelLeft, "tanks never refuel")
	assertStorageInvariant(t, s)
}

func TestAddUnit_DelayedAfterStart(t *testing.T) {
	s := world.New(60000)
	s.GameStarted = true
	cat := testutils.Catalog()

	delayed := s.AddUnit(cat, "Fighter", "Opfor", world.Location{0, 0}, world.StartingHP, true)
	assert.Equal(t, 1, delayed.DeployTime)
	require.NotNil(t, delayed.FuelLeft)
	assert.Equal(t, 2, *delayed.FuelLeft)

	immediate := s.AddUnit(cat, "Fighter", "Opfor", world.Location{0, 0}, world.StartingHP, false)
	assert.Equal(t, 0, immediate.DeployTime)
	assert.Equal(t, 1, immediate.ID)
}

func TestNextUnitID_CountsStoredUnits(t *testing.T) {
	s := world.New(60000)
	s.Airfields = append(s.Airfields, &world.Airfield{ID: 1, Units: []*world.Unit{{ID: 7, Type: "Fighter", User: "Blufor", HP: 50}}})
	s.AddUnit(testutils.Catalog(), "Tank", "Blufor", world.Location{}, world.StartingHP, false)

	assert.Equal(t, 9, s.NextUnitID())
}

func TestAddUnit_CarrierGetsAirfield(t *testing.T) {
	s := world.New(60000)
	s.AddUnit(testutils.Catalog(), "Tank", "Blufor", world.Location{}, world.StartingHP, false)
	c := s.AddUnit(testutils.Catalog(), "Carrier", "Blufor", world.Location{5000, 5000}, world.StartingHP, false)

	require.NotNil(t, c.AirfieldID)
	assert.Equal(t, 1001, *c.AirfieldID)
	af, ok := s.FindAirfield(1001)
	require.True(t, ok)
	assert.Equal(t, world.Location{5000, 5000}, af.Loc)
	assert.Equal(t, world.Neutral, af.Affiliation())
}

func TestMoveUnit_CarrierMovesAirfield(t *testing.T) {
	s := world.New(60000)
	c := s.AddUnit(testutils.Catalog(), "Carrier", "Blufor", world.Location{0, 0}, world.StartingHP, false)

	require.True(t, s.MoveUnit(c.ID, world.Location{42000, 17000}))

	af, ok := s.FindAirfield(c.ID + world.AirfieldIDOffset)
	require.True(t, ok)
	assert.Equal(t, world.Location{42000, 17000}, af.Loc)
	assert.Equal(t, world.Location{42000, 17000}, *s.MustUnit(c.ID).Loc)
}

func TestNextUnitID_SkipsIDsOfOrphanedDecks(t *testing.T) {
	s := world.New(60000)
	cat := testutils.Catalog()
	first := s.AddUnit(cat, "Carrier", "Blufor", world.Location{5, 5}, world.StartingHP, false)
	require.True(t, s.DeleteUnit(first.ID))

	second := s.AddUnit(cat, "Carrier", "Opfor", world.Location{5, 5}, world.StartingHP, false)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, s.Airfields, 2)
	assertStorageInvariant(t, s)
}

func TestMoveUnit_DeckFollowsReplacementCarrier(t *testing.T) {
	s := world.New(60000)
	cat := testutils.Catalog()
	first := s.AddUnit(cat, "Carrier", "Blufor", world.Location{5, 5}, world.StartingHP, false)
	require.True(t, s.DeleteUnit(first.ID))
	second := s.AddUnit(cat, "Carrier", "Blufor", world.Location{5, 5}, world.StartingHP, false)

	require.True(t, s.MoveUnit(second.ID, world.Location{900, 900}))

	deck, ok := s.FindAirfield(*second.AirfieldID)
	require.True(t, ok)
	assert.Equal(t, world.Location{900, 900}, deck.Loc)
	orphan, ok := s.FindAirfield(first.ID + world.AirfieldIDOffset)
	require.True(t, ok)
	assert.Equal(t, world.Location{5, 5}, orphan.Loc)
}

func TestMoveUnit_Missing(t *testing.T) {
	s := world.New(60000)
	assert.False(t, s.MoveUnit(3, world.Location{1, 1}))
}

func TestDeleteUnit(t *testing.T) {
	s := world.New(60000)
	cat := testutils.Catalog()
	a := s.AddUnit(cat, "Tank", "Blufor", world.Location{}, world.StartingHP, false)
	s.Airfields = append(s.Airfields, &world.Airfield{ID: 50, Units: []*world.Unit{{ID: 9, Type: "Fighter", User: "Opfor"}}})

	assert.True(t, s.DeleteUnit(a.ID))
	assert.True(t, s.DeleteUnit(9), "stored units can be deleted too")
	assert.False(t, s.DeleteUnit(a.ID))
	assert.Empty(t, s.Units)
	assert.Empty(t, s.Airfields[0].Units)
}

func TestMustUnit_PanicsWhenMissing(t *testing.T) {
	s := world.New(60000)
	assert.Panics(t, func() { s.MustUnit(1) })
}

func TestReturnToAirfield_NearestCompatible(t *testing.T) {
	s := world.New(60000)
	s.Airfields = []*world.Airfield{
		{ID: 1, Loc: world.Location{1000, 0}, Units: []*world.Unit{{ID: 90, User: "Opfor"}}},
		{ID: 2, Loc: world.Location{5000, 0}, Units: []*world.Unit{}},
		{ID: 3, Loc: world.Location{9000, 0}, Units: []*world.Unit{}},
	}
	u := s.AddUnit(testutils.Catalog(), "Fighter", "Blufor", world.Location{0, 0}, world.StartingHP, false)

	res, err := s.ReturnToAirfield(u.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Airfield)
	assert.False(t, res.Destroyed)
	assert.Equal(t, 2, res.Airfield.ID, "the Opfor airfield is closer but hostile")
	assert.Nil(t, u.Loc)
	_, inField := s.FindUnit(u.ID)
	assert.False(t, inField)
	assert.Equal(t, "Blufor", res.Airfield.Affiliation())
	assertStorageInvariant(t, s)
}

func TestReturnToAirfield_TieGoesToFirst(t *testing.T) {
	s := world.New(60000)
	s.Airfields = []*world.Airfield{
		{ID: 4, Loc: world.Location{-1000, 0}, Units: []*world.Unit{}},
		{ID: 5, Loc: world.Location{1000, 0}, Units: []*world.Unit{}},
	}
	u := s.AddUnit(testutils.Catalog(), "Fighter", "Blufor", world.Location{0, 0}, world.StartingHP, false)

	res, err := s.ReturnToAirfield(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Airfield.ID)
}

func TestReturnToAirfield_NoAirfieldDestroysUnit(t *testing.T) {
	s := world.New(60000)
	s.Airfields = []*world.Airfield{
		{ID: 1, Loc: world.Location{10, 0}, Units: []*world.Unit{{ID: 90, User: "Opfor"}}},
	}
	u := s.AddUnit(testutils.Catalog(), "Fighter", "Blufor", world.Location{0, 0}, world.StartingHP, false)

	res, err := s.ReturnToAirfield(u.ID)
	require.NoError(t, err)
	assert.True(t, res.Destroyed)
	_, found := s.FindUnit(u.ID)
	assert.False(t, found, "a stranded unit is removed, not left in the field")
	assertStorageInvariant(t, s)
}

func TestReturnToAirfield_CarrierSkipsOwnDeck(t *testing.T) {
	s := world.New(60000)
	c := s.AddUnit(testutils.Catalog(), "Carrier", "Blufor", world.Location{0, 0}, world.StartingHP, false)

	res, err := s.ReturnToAirfield(c.ID)
	require.NoError(t, err)
	assert.True(t, res.Destroyed)
}

func TestReturnToAirfield_Missing(t *testing.T) {
	s := world.New(60000)
	_, err := s.ReturnToAirfield(12)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExitAirfield(t *testing.T) {
	s := world.New(60000)
	s.GameStarted = true
	cat := testutils.Catalog()
	s.Airfields = []*world.Airfield{{ID: 1, Loc: world.Location{3000, 4000}, Units: []*world.Unit{}}}
	f := s.AddUnit(cat, "Fighter", "Blufor", world.Location{0, 0}, 70, false)
	*f.FuelLeft = 0
	_, err := s.ReturnToAirfield(f.ID)
	require.NoError(t, err)

	out, err := s.ExitAirfield(cat, 1, f.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Loc)
	assert.Equal(t, world.Location{3000, 4000}, *out.Loc)
	assert.Equal(t, 70, out.HP, "hit points survive the stay")
	assert.Equal(t, 0, out.DeployTime, "units already on the map do not redeploy")
	require.NotNil(t, out.FuelLeft)
	assert.Equal(t, 2, *out.FuelLeft, "exiting refuels")
	af, _ := s.FindAirfield(1)
	assert.Empty(t, af.Units)
	assertStorageInvariant(t, s)
}

func TestExitAirfield_NotFound(t *testing.T) {
	s := world.New(60000)
	s.Airfields = []*world.Airfield{{ID: 1, Units: []*world.Unit{}}}

	_, err := s.ExitAirfield(testutils.Catalog(), 2, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.ExitAirfield(testutils.Catalog(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClone_IsDeep(t *testing.T) {
	s := world.New(60000)
	cat := testutils.Catalog()
	u := s.AddUnit(cat, "Fighter", "Blufor", world.Location{1, 2}, world.StartingHP, false)
	s.TurnChangeTime["Blufor"] = 5

	c := s.Clone()
	c.MustUnit(u.ID).Loc[0] = 99
	*c.MustUnit(u.ID).FuelLeft = 0
	c.TurnChangeTime["Blufor"] = 6

	assert.Equal(t, 1.0, u.Loc[0])
	assert.Equal(t, 2, *u.FuelLeft)
	assert.Equal(t, int64(5), s.TurnChangeTime["Blufor"])
}

func TestValidate_DetectsBrokenStorage(t *testing.T) {
	loc := world.Location{}
	s := world.New(60000)
	s.Airfields = []*world.Airfield{{ID: 1, Units: []*world.Unit{{ID: 1, Loc: &loc}}}}
	assert.Error(t, s.Validate())

	s = world.New(60000)
	s.Units = []*world.Unit{{ID: 1}}
	assert.Error(t, s.Validate())
}
