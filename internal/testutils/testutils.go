package testutils

import (
	"testing"
	"time"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Epoch is the fixed wall clock used by deterministic tests.
var Epoch = time.UnixMilli(1_700_000_000_000)

// Clock is a manually advanced clock.
type Clock struct {
	now time.Time
}

// NewClock returns a clock frozen at Epoch.
func NewClock() *Clock { return &Clock{now: Epoch} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Dice always rolls the same value.
func Dice(v float64) func() float64 {
	return func() float64 { return v }
}

// Roster returns the standard two-player roster plus the referee.
func Roster() []domain.User {
	return []domain.User{
		{Name: domain.AdminName, Password: "referee"},
		{Name: "Blufor", Password: "blue"},
		{Name: "Opfor", Password: "red"},
	}
}

// Catalog is a small stat catalog covering every code path of the game core.
func Catalog() *stats.Table {
	return stats.NewTable(stats.Data{
		UnitTypes: map[string]stats.Properties{
			"Tank":     {"Vision": "10", "Speed": "5", "Deploy Time": "2", "Fuel": "n/a", "Domain": "Land"},
			"Infantry": {"Vision": "5", "Speed": "2", "Deploy Time": "1", "Fuel": "n/a", "Domain": "Land"},
			"Fighter":  {"Vision": "30", "Speed": "100", "Deploy Time": "1", "Fuel": "2", "Domain": "Air"},
			"Carrier":  {"Vision": "40", "Speed": "10", "Deploy Time": "3", "Fuel": "n/a", "Domain": "Sea"},
		},
		ConflictStats: map[string]map[string]stats.Conflict{
			"Tank": {
				"Infantry": {Attack: 60, Defence: 10, Dodge: 0},
				"Tank":     {Attack: 30, Defence: 20, Dodge: 100},
			},
			"Fighter": {
				"Tank":    {Attack: 40, Defence: 5, Dodge: 20},
				"Carrier": {Attack: 150, Defence: 120, Dodge: 0},
			},
		},
	})
}

// CatalogCSV is the CSV rendition of a small catalog, keyed by file name.
var CatalogCSV = map[string]string{
	stats.UnitStatsFile: "Unit Type,Vision,Speed,Deploy Time,Fuel,Domain\n" +
		"Tank,10,5,2,n/a,Land\n" +
		"Fighter,30,100,1,2,Air\n",
	stats.AttackStatsFile: "Unit Type,Tank,Fighter\nTank,30,\nFighter,40,10\n",
	stats.DefenceFile:     "Unit Type,Tank,Fighter\nTank,20,0\nFighter,5,10\n",
	stats.DodgeStatsFile:  "Unit Type,Tank,Fighter\nTank,100,50\nFighter,20,0\n",
}

// WriteCatalog writes CatalogCSV into dir on fs.
func WriteCatalog(t *testing.T, fs afero.Fs, dir string) {
	t.Helper()
	for name, body := range CatalogCSV {
		require.NoError(t, afero.WriteFile(fs, dir+"/"+name, []byte(body), 0o644))
	}
}
