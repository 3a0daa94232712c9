package rules

import (
	"fmt"
	"time"
)

const (
	UnderWateringPct     = 15.0
	OverWateringPct      = 70.0
	ExcessiveIrrigations = 10
	IrrigationWindow     = 7 * 24 * time.Hour
	freshReading         = 24 * time.Hour
	agingReading         = 72 * time.Hour
)

// freshness discounts confidence for stale observations.
func freshness(m Measurement, now time.Time) float64 {
	age := now.Sub(m.At)
	switch {
	case age <= freshReading:
		return 0.95
	case age <= agingReading:
		return 0.8
	}
	return 0.6
}

func WaterRules() Group {
	return Group{
		Category: CategoryWater,
		Rules: []Diagnostic{
			{ID: "water.under_watering", Scope: ScopeGarden, Evaluate: underWatering},
			{ID: "water.over_watering", Scope: ScopeGarden, Evaluate: overWatering},
			{ID: "water.excessive_irrigation", Scope: ScopeGarden, Evaluate: excessiveIrrigation},
		},
	}
}

func underWatering(c *Context) *Result {
	m, ok := c.LatestMoisture()
	if !ok || m.Value >= UnderWateringPct {
		return nil
	}
	return &Result{
		Title:       "Soil is too dry",
		Severity:    SeverityCritical,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Soil moisture is %.1f%%, below the %.0f%% minimum.", m.Value, UnderWateringPct),
		ScientificRationale: "Below roughly 15% volumetric water content most garden soils approach the permanent " +
			"wilting point; root water uptake stalls and stomata close, halting photosynthesis.",
		RecommendedAction: "Water deeply at the root zone today and re-check moisture within 24 hours.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "%",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f%%", UnderWateringPct, OverWateringPct),
		References:        []string{"USDA NRCS Soil Quality Indicators: Available Water Capacity"},
	}
}

func overWatering(c *Context) *Result {
	m, ok := c.LatestMoisture()
	if !ok || m.Value <= OverWateringPct {
		return nil
	}
	return &Result{
		Title:       "Soil is waterlogged",
		Severity:    SeverityCritical,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Soil moisture is %.1f%%, above the %.0f%% maximum.", m.Value, OverWateringPct),
		ScientificRationale: "Saturated soil fills pore space with water and starves roots of oxygen, which " +
			"invites root rot pathogens such as Pythium and Phytophthora.",
		RecommendedAction: "Pause irrigation until moisture drops below 70% and check drainage.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "%",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f%%", UnderWateringPct, OverWateringPct),
		References:        []string{"University of Minnesota Extension: Waterlogged soils"},
	}
}

func excessiveIrrigation(c *Context) *Result {
	n := c.IrrigationsWithin(IrrigationWindow)
	if n <= ExcessiveIrrigations {
		return nil
	}
	return &Result{
		Title:       "Irrigating too often",
		Severity:    SeverityWarning,
		Confidence:  0.85,
		Explanation: fmt.Sprintf("%d irrigation events in the last 7 days, more than %d.", n, ExcessiveIrrigations),
		ScientificRationale: "Frequent shallow watering keeps the surface wet, encourages shallow rooting and " +
			"leaches nitrogen below the root zone.",
		RecommendedAction: "Water less often but more deeply; let the top few centimetres dry between waterings.",
		MeasuredValue:     ptr(float64(n)),
		Unit:              "events/7d",
		OptimalRange:      fmt.Sprintf("<= %d events/7d", ExcessiveIrrigations),
	}
}
