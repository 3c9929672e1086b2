package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// File names expected inside the stats directory.
const (
	UnitStatsFile   = "stats.csv"
	AttackStatsFile = "attackStats.csv"
	DefenceFile     = "defenceStats.csv"
	DodgeStatsFile  = "dodgeStats.csv"
)

type conflictField int

const (
	fieldAttack conflictField = iota
	fieldDefence
	fieldDodge
)

// Load reads the four catalog CSV files from dir.
func Load(fs afero.Fs, dir string) (*Table, error) {
	data := Data{
		UnitTypes:     make(map[string]Properties),
		ConflictStats: make(map[string]map[string]Conflict),
	}

	rows, err := readRows(fs, filepath.Join(dir, UnitStatsFile))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		name := row[KeyUnitType]
		if name == "" {
			continue
		}
		delete(row, KeyUnitType)
		data.UnitTypes[name] = Properties(row)
	}

	matrices := []struct {
		file  string
		field conflictField
	}{
		{AttackStatsFile, fieldAttack},
		{DefenceFile, fieldDefence},
		{DodgeStatsFile, fieldDodge},
	}
	for _, m := range matrices {
		rows, err := readRows(fs, filepath.Join(dir, m.file))
		if err != nil {
			return nil, err
		}
		if err := addConflictRows(data.ConflictStats, m.field, rows); err != nil {
			return nil, fmt.Errorf("%s: %w", m.file, err)
		}
	}

	return NewTable(data), nil
}

func addConflictRows(dst map[string]map[string]Conflict, field conflictField, rows []map[string]string) error {
	for _, row := range rows {
		attacker := row[KeyUnitType]
		if attacker == "" {
			continue
		}
		stats, ok := dst[attacker]
		if !ok {
			stats = make(map[string]Conflict)
			dst[attacker] = stats
		}
		for defender, raw := range row {
			if defender == KeyUnitType {
				continue
			}
			raw = strings.TrimSpace(raw)
			var v float64
			if raw != "" {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("%s vs %s: %w", attacker, defender, err)
				}
				v = f
			}
			c := stats[defender]
			switch field {
			case fieldAttack:
				c.Attack = v
			case fieldDefence:
				c.Defence = v
			case fieldDodge:
				c.Dodge = v
			}
			stats[defender] = c
		}
	}
	return nil
}

// readRows parses a headed CSV file into one map per data row.
func readRows(fs afero.Fs, path string) ([]map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
