package rules

import (
	"sort"
	"strings"
)

// SpeciesThresholds are the per-species limits the temperature and soil rules read.
// Temperatures are in °F.
type SpeciesThresholds struct {
	Species  string  `yaml:"species" json:"species"`
	FrostF   float64 `yaml:"frost_f" json:"frost_f"`
	MaxTempF float64 `yaml:"max_temp_f" json:"max_temp_f"`
	PHMin    float64 `yaml:"ph_min" json:"ph_min"`
	PHMax    float64 `yaml:"ph_max" json:"ph_max"`
	ECMin    float64 `yaml:"ec_min" json:"ec_min"`
	ECMax    float64 `yaml:"ec_max" json:"ec_max"`
}

// ThresholdTable is the species lookup. Unknown species resolve to the fallback row.
type ThresholdTable struct {
	bySpecies map[string]SpeciesThresholds
	fallback  SpeciesThresholds
}

var defaultFallback = SpeciesThresholds{Species: "default", FrostF: 32, MaxTempF: 90, PHMin: 6.0, PHMax: 7.0, ECMax: 2.0}

// EC ceilings in dS/m follow the usual salt-tolerance tables.
var defaultSpecies = []SpeciesThresholds{
	{Species: "tomato", FrostF: 35, MaxTempF: 90, PHMin: 6.0, PHMax: 6.8, ECMin: 0.5, ECMax: 2.0},
	{Species: "pepper", FrostF: 40, MaxTempF: 90, PHMin: 6.0, PHMax: 6.8, ECMin: 0.5, ECMax: 1.5},
	{Species: "cucumber", FrostF: 40, MaxTempF: 95, PHMin: 6.0, PHMax: 7.0, ECMin: 0.5, ECMax: 1.7},
	{Species: "basil", FrostF: 40, MaxTempF: 95, PHMin: 6.0, PHMax: 7.5, ECMin: 0.5, ECMax: 1.6},
	{Species: "bean", FrostF: 35, MaxTempF: 90, PHMin: 6.0, PHMax: 7.0, ECMax: 1.0},
	{Species: "lettuce", FrostF: 28, MaxTempF: 80, PHMin: 6.0, PHMax: 7.0, ECMax: 1.3},
	{Species: "spinach", FrostF: 25, MaxTempF: 75, PHMin: 6.5, PHMax: 7.5, ECMax: 2.0},
	{Species: "kale", FrostF: 20, MaxTempF: 80, PHMin: 6.0, PHMax: 7.5, ECMax: 1.8},
	{Species: "carrot", FrostF: 28, MaxTempF: 85, PHMin: 6.0, PHMax: 6.8, ECMax: 1.0},
	{Species: "strawberry", FrostF: 30, MaxTempF: 85, PHMin: 5.5, PHMax: 6.8, ECMax: 1.0},
}

func normSpecies(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func NewThresholdTable(fallback SpeciesThresholds, rows ...SpeciesThresholds) *ThresholdTable {
	t := &ThresholdTable{bySpecies: make(map[string]SpeciesThresholds, len(rows)), fallback: fallback}
	for _, r := range rows {
		t.Set(r)
	}
	return t
}

func DefaultThresholdTable() *ThresholdTable {
	return NewThresholdTable(defaultFallback, defaultSpecies...)
}

// Set adds or replaces one species row.
func (t *ThresholdTable) Set(row SpeciesThresholds) {
	key := normSpecies(row.Species)
	if key == "" {
		return
	}
	row.Species = key
	t.bySpecies[key] = row
}

func (t *ThresholdTable) SetFallback(row SpeciesThresholds) {
	row.Species = defaultFallback.Species
	t.fallback = row
}

func (t *ThresholdTable) Lookup(species string) SpeciesThresholds {
	if row, ok := t.bySpecies[normSpecies(species)]; ok {
		return row
	}
	return t.fallback
}

// Strictest merges several species into the most conservative limits: the
// highest frost line, the lowest heat ceiling and the narrowest pH and EC bands.
// Garden-wide alerts use it when more than one species is planted.
func (t *ThresholdTable) Strictest(species []string) SpeciesThresholds {
	if len(species) == 0 {
		return t.fallback
	}
	out := t.Lookup(species[0])
	for _, s := range species[1:] {
		row := t.Lookup(s)
		if row.FrostF > out.FrostF {
			out.FrostF = row.FrostF
		}
		if row.MaxTempF < out.MaxTempF {
			out.MaxTempF = row.MaxTempF
		}
		if row.PHMin > out.PHMin {
			out.PHMin = row.PHMin
		}
		if row.PHMax < out.PHMax {
			out.PHMax = row.PHMax
		}
		if row.ECMin > out.ECMin {
			out.ECMin = row.ECMin
		}
		if row.ECMax > 0 && (out.ECMax <= 0 || row.ECMax < out.ECMax) {
			out.ECMax = row.ECMax
		}
	}
	out.Species = strings.Join(species, "+")
	return out
}

// Rows lists the table sorted by species, fallback excluded.
func (t *ThresholdTable) Rows() []SpeciesThresholds {
	out := make([]SpeciesThresholds, 0, len(t.bySpecies))
	for _, r := range t.bySpecies {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Species < out[j].Species })
	return out
}
