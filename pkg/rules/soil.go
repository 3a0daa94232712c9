package rules

import (
	"fmt"
	"math"
)

const (
	NitrogenDeficientPPM = 10.0
	SalinityECdSm        = 2.0
	// a reading this many pH units outside the band earns full confidence
	phFullConfidenceDistance = 1.0
)

func SoilRules() Group {
	return Group{
		Category: CategorySoil,
		Rules: []Diagnostic{
			{ID: "soil.ph_imbalance", Scope: ScopePlanting, Evaluate: phImbalance},
			{ID: "soil.nitrogen_deficiency", Scope: ScopeGarden, Evaluate: nitrogenDeficiency},
			{ID: "soil.salinity_stress", Scope: ScopeGarden, Evaluate: salinityStress},
		},
	}
}

// PHConfidence maps the distance outside the optimal band to a confidence:
// 0.5 at the band edge rising linearly to 1.0 one pH unit out.
func PHConfidence(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return clamp01(0.5 + 0.5*math.Min(distance/phFullConfidenceDistance, 1))
}

func phImbalance(c *Context) *Result {
	if _, ok := c.Planting(); !ok {
		return nil
	}
	m, ok := c.LatestPH()
	if !ok {
		return nil
	}
	band, ok := c.PHRange()
	if !ok || band.Contains(m.Value) {
		return nil
	}
	dist := band.Distance(m.Value)
	direction, action := "acidic", "Work in garden lime at the rate a soil lab recommends and retest in 6-8 weeks."
	if m.Value > band.Max {
		direction, action = "alkaline", "Add elemental sulfur or acidifying organic matter and retest in 6-8 weeks."
	}
	title := "Soil pH out of range"
	if v, ok := c.Variety(); ok && v.Name != "" {
		title = fmt.Sprintf("Soil pH out of range for %s", v.Name)
	}
	return &Result{
		Title:       title,
		Severity:    SeverityCritical,
		Confidence:  PHConfidence(dist),
		Explanation: fmt.Sprintf("Soil pH is %.1f, %.1f units too %s for the %.1f-%.1f optimum.", m.Value, dist, direction, band.Min, band.Max),
		ScientificRationale: "pH controls nutrient solubility: outside the optimum, phosphorus, iron and manganese " +
			"become locked up or reach toxic levels even when they are present in the soil.",
		RecommendedAction: action,
		MeasuredValue:     ptr(m.Value),
		Unit:              "pH",
		OptimalRange:      fmt.Sprintf("%.1f-%.1f", band.Min, band.Max),
		References:        []string{"Brady & Weil, The Nature and Properties of Soils, ch. 9"},
	}
}

func nitrogenDeficiency(c *Context) *Result {
	m, ok := c.LatestNitrogen()
	if !ok || m.Value >= NitrogenDeficientPPM {
		return nil
	}
	return &Result{
		Title:       "Nitrogen deficiency",
		Severity:    SeverityCritical,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Soil nitrogen is %.1f ppm, below %.0f ppm.", m.Value, NitrogenDeficientPPM),
		ScientificRationale: "Nitrogen is the building block of chlorophyll and amino acids; deficiency shows as " +
			"yellowing of older leaves and stunted growth.",
		RecommendedAction: "Side-dress with a nitrogen fertilizer or well-rotted compost.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "ppm",
		OptimalRange:      fmt.Sprintf(">= %.0f ppm", NitrogenDeficientPPM),
	}
}

func salinityStress(c *Context) *Result {
	m, ok := c.LatestEC()
	if !ok || m.Value <= SalinityECdSm {
		return nil
	}
	band := c.ECRange()
	return &Result{
		Title:      "Salinity stress",
		Severity:   SeverityCritical,
		Confidence: freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Electrical conductivity is %.2f dS/m, above the %.1f dS/m salinity line; "+
			"the optimum here is %.1f-%.1f dS/m.", m.Value, SalinityECdSm, band.Min, band.Max),
		ScientificRationale: "High soluble salt raises the osmotic potential of the soil solution so roots cannot " +
			"draw water even from moist soil, producing drought-like symptoms and leaf burn.",
		RecommendedAction: fmt.Sprintf("Leach the bed with clean water and cut back on fertilizer until EC is back "+
			"to %.1f dS/m or less.", band.Max),
		MeasuredValue: ptr(m.Value),
		Unit:          "dS/m",
		OptimalRange:  fmt.Sprintf("%.1f-%.1f dS/m", band.Min, band.Max),
		References:    []string{"FAO Irrigation and Drainage Paper 29: Water quality for agriculture"},
	}
}
