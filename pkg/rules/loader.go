package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type thresholdFile struct {
	Fallback *SpeciesThresholds  `yaml:"fallback"`
	Species  []SpeciesThresholds `yaml:"species"`
}

// LoadThresholdTable starts from the built-in table and overlays the rows found in
// path (.yaml, .yml or .xlsx). An empty path returns the defaults.
func LoadThresholdTable(path string) (*ThresholdTable, error) {
	t := DefaultThresholdTable()
	if path == "" {
		return t, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := t.loadYAML(path); err != nil {
			return nil, err
		}
	case ".xlsx":
		if err := t.loadXLSX(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("thresholds: unsupported file type %q", filepath.Ext(path))
	}
	return t, nil
}

func (t *ThresholdTable) loadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	var f thresholdFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("thresholds: parse %s: %w", path, err)
	}
	if f.Fallback != nil {
		t.SetFallback(*f.Fallback)
	}
	for _, row := range f.Species {
		t.Set(row)
	}
	return nil
}

// normHeader folds spreadsheet headers so "Frost °F", "frost_f" and "FrostF" match.
func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	for _, cut := range []string{" ", "-", "_", "°", "(", ")"} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}

func (t *ThresholdTable) loadXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("thresholds: %s has no sheets", path)
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("thresholds: read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil
	}

	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[normHeader(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[normHeader(k)]; ok {
				return idx
			}
		}
		return -1
	}
	cSpecies := findAny("species", "crop", "plant")
	cFrost := findAny("frost_f", "frost", "frostf", "min_temp_f")
	cMax := findAny("max_temp_f", "maxtemp", "heat", "max_f")
	cPHMin := findAny("ph_min", "phmin", "ph low")
	cPHMax := findAny("ph_max", "phmax", "ph high")
	cECMin := findAny("ec_min", "ecmin", "ec low")
	cECMax := findAny("ec_max", "ecmax", "ec high")
	if cSpecies == -1 || cFrost == -1 || cMax == -1 {
		return fmt.Errorf("thresholds: %s missing required columns, found %v (need species, frost_f, max_temp_f)", path, rows[0])
	}

	for i, rec := range rows[1:] {
		line := i + 2
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		// num parses a required cell; opt keeps def when the cell is blank.
		num := func(idx int) (float64, error) {
			v, err := strconv.ParseFloat(get(idx), 64)
			if err != nil {
				return 0, fmt.Errorf("thresholds: %s row %d column %q: %w", path, line, rows[0][idx], err)
			}
			return v, nil
		}
		opt := func(idx int, def float64) (float64, error) {
			if get(idx) == "" {
				return def, nil
			}
			return num(idx)
		}
		species := get(cSpecies)
		if species == "" {
			continue
		}
		base := t.Lookup(species)
		row := SpeciesThresholds{Species: species}
		var err error
		if row.FrostF, err = num(cFrost); err != nil {
			return err
		}
		if row.MaxTempF, err = num(cMax); err != nil {
			return err
		}
		if row.PHMin, err = opt(cPHMin, base.PHMin); err != nil {
			return err
		}
		if row.PHMax, err = opt(cPHMax, base.PHMax); err != nil {
			return err
		}
		if row.ECMin, err = opt(cECMin, base.ECMin); err != nil {
			return err
		}
		if row.ECMax, err = opt(cECMax, base.ECMax); err != nil {
			return err
		}
		if strings.EqualFold(species, defaultFallback.Species) {
			t.SetFallback(row)
			continue
		}
		t.Set(row)
	}
	return nil
}
