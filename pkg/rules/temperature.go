package rules

import "fmt"

const (
	HeatAbsoluteF = 95.0
	HeatMarginF   = 15.0
)

func TemperatureRules() Group {
	return Group{
		Category: CategoryTemperature,
		Rules: []Diagnostic{
			{ID: "temperature.frost_risk", Scope: ScopePlanting, Evaluate: frostRisk},
			{ID: "temperature.heat_stress", Scope: ScopePlanting, Evaluate: heatStress},
		},
	}
}

func frostRisk(c *Context) *Result {
	if _, ok := c.Planting(); !ok {
		return nil
	}
	m, ok := c.LatestTemperature()
	if !ok {
		return nil
	}
	th := c.Thresholds()
	if m.Value >= th.FrostF {
		return nil
	}
	return &Result{
		Title:       "Frost risk",
		Severity:    SeverityCritical,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Temperature is %.1f°F, below the %.0f°F frost line for %s.", m.Value, th.FrostF, th.Species),
		ScientificRationale: "Below the species' chilling threshold, ice crystals form in cell walls and " +
			"membranes lose integrity, killing leaf tissue.",
		RecommendedAction: "Cover plants with frost cloth overnight or move containers indoors.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "°F",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f°F", th.FrostF, th.MaxTempF),
	}
}

func heatStress(c *Context) *Result {
	if _, ok := c.Planting(); !ok {
		return nil
	}
	m, ok := c.LatestTemperature()
	if !ok {
		return nil
	}
	th := c.Thresholds()
	overAbsolute := m.Value > HeatAbsoluteF
	overSpecies := th.MaxTempF > 0 && m.Value > th.MaxTempF+HeatMarginF
	if !overAbsolute && !overSpecies {
		return nil
	}
	limit := HeatAbsoluteF
	if overSpecies && th.MaxTempF+HeatMarginF < limit {
		limit = th.MaxTempF + HeatMarginF
	}
	return &Result{
		Title:       "Heat stress",
		Severity:    SeverityCritical,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Temperature is %.1f°F, above the %.0f°F heat limit.", m.Value, limit),
		ScientificRationale: "Above its thermal optimum a plant's respiration outpaces photosynthesis, pollen " +
			"becomes sterile and blossoms drop.",
		RecommendedAction: "Provide afternoon shade and water early in the morning.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "°F",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f°F", th.FrostF, th.MaxTempF),
	}
}
