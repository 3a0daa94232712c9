package rules

import "fmt"

const (
	MinIndoorLightHours = 6.0
	MaxArtificialHours  = 18.0
)

func LightRules() Group {
	return Group{
		Category: CategoryLight,
		Rules: []Diagnostic{
			{ID: "light.etiolation_risk", Scope: ScopeGarden, Evaluate: etiolationRisk},
			{ID: "light.photoinhibition", Scope: ScopeGarden, Evaluate: photoinhibition},
		},
	}
}

func etiolationRisk(c *Context) *Result {
	if !c.Garden().IsIndoor {
		return nil
	}
	m, ok := c.LatestLightHours()
	if !ok || m.Value >= MinIndoorLightHours {
		return nil
	}
	return &Result{
		Title:       "Not enough light",
		Severity:    SeverityWarning,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Plants received %.1f hours of light, under the %.0f hour minimum.", m.Value, MinIndoorLightHours),
		ScientificRationale: "In low light, auxin-driven stem elongation outpaces leaf development and plants " +
			"become tall, pale and weak (etiolation).",
		RecommendedAction: "Extend the grow-light photoperiod or move plants closer to the light source.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "h/day",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f h/day", MinIndoorLightHours, MaxArtificialHours),
	}
}

func photoinhibition(c *Context) *Result {
	if !c.Garden().IsIndoor {
		return nil
	}
	m, ok := c.LatestLightHours()
	if !ok || m.Value <= MaxArtificialHours {
		return nil
	}
	return &Result{
		Title:       "Too many hours under lights",
		Severity:    SeverityWarning,
		Confidence:  freshness(m, c.Now()),
		Explanation: fmt.Sprintf("Lights ran %.1f hours, over the %.0f hour maximum.", m.Value, MaxArtificialHours),
		ScientificRationale: "Without a dark period photosystem II repair cannot keep pace with light damage, " +
			"leading to photoinhibition and leaf bleaching.",
		RecommendedAction: "Give plants at least 6 hours of darkness each day.",
		MeasuredValue:     ptr(m.Value),
		Unit:              "h/day",
		OptimalRange:      fmt.Sprintf("%.0f-%.0f h/day", MinIndoorLightHours, MaxArtificialHours),
	}
}
