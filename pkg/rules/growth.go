package rules

import "fmt"

func GrowthStageRules() Group {
	return Group{
		Category: CategoryGrowthStage,
		Rules: []Diagnostic{
			{ID: "growth.harvest_ready", Scope: ScopePlanting, Evaluate: harvestReady},
		},
	}
}

func harvestReady(c *Context) *Result {
	v, ok := c.Variety()
	if !ok || v.DaysToHarvest <= 0 {
		return nil
	}
	days, ok := c.DaysSincePlanting()
	if !ok || days < v.DaysToHarvest {
		return nil
	}
	return &Result{
		Title:       fmt.Sprintf("%s is ready to harvest", v.Name),
		Severity:    SeverityInfo,
		Confidence:  0.8,
		Explanation: fmt.Sprintf("%d days since planting; %s matures in %d days.", days, v.Name, v.DaysToHarvest),
		ScientificRationale: "Days-to-maturity is the breeder's estimate under typical conditions; most crops " +
			"lose sugar and texture when left past maturity.",
		RecommendedAction: "Check fruit or leaves for ripeness and harvest.",
		MeasuredValue:     ptr(float64(days)),
		Unit:              "days",
		OptimalRange:      fmt.Sprintf(">= %d days", v.DaysToHarvest),
	}
}
