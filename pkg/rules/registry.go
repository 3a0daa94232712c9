package rules

// DiagnosticFunc inspects a context and returns at most one result. A nil return
// means the rule abstained or found nothing wrong.
type DiagnosticFunc func(*Context) *Result

// GeneratorFunc proposes zero or more care tasks for a context.
type GeneratorFunc func(*Context) []TaskDescriptor

type Diagnostic struct {
	ID       string
	Category Category
	Scope    Scope
	Evaluate DiagnosticFunc
}

type Generator struct {
	ID       string
	Trigger  Trigger
	Generate GeneratorFunc
}

// Group is an ordered list of diagnostics sharing a category.
type Group struct {
	Category Category
	Rules    []Diagnostic
}

// Registry dispatches every rule through the same two signatures.
type Registry struct {
	groups     []Group
	generators []Generator
}

func NewRegistry(groups []Group, generators []Generator) *Registry {
	r := &Registry{generators: append([]Generator(nil), generators...)}
	for _, g := range groups {
		g.Rules = append([]Diagnostic(nil), g.Rules...)
		for i := range g.Rules {
			g.Rules[i].Category = g.Category
		}
		r.groups = append(r.groups, g)
	}
	return r
}

// DefaultRegistry wires the standard rule groups in category declaration order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		[]Group{WaterRules(), SoilRules(), TemperatureRules(), LightRules(), GrowthStageRules()},
		[]Generator{HarvestReminder(), WateringSchedule(), SeedViability(), SensorAlert()},
	)
}

func (r *Registry) Groups() []Group { return r.groups }

func (r *Registry) Generators() []Generator { return r.generators }

// Diagnose runs every diagnostic of the given scope against c in group order.
// The rule id, category, garden and planting are stamped onto each result and
// the confidence is clamped to [0,1].
func (r *Registry) Diagnose(c *Context, scope Scope) []Result {
	var out []Result
	for _, g := range r.groups {
		for _, d := range g.Rules {
			if d.Scope != scope {
				continue
			}
			res := d.Evaluate(c)
			if res == nil {
				continue
			}
			out = append(out, r.stamp(*res, d, c))
		}
	}
	return out
}

func (r *Registry) stamp(res Result, d Diagnostic, c *Context) Result {
	res.RuleID = d.ID
	res.Category = d.Category
	res.Confidence = clamp01(res.Confidence)
	res.GardenID = c.garden.GardenID
	if d.Scope == ScopePlanting {
		res.PlantingID = c.plantingID()
	}
	if res.References != nil {
		res.References = append([]string(nil), res.References...)
	}
	return res
}

// Generate runs the generators registered for trigger, in registration order.
func (r *Registry) Generate(c *Context, trigger Trigger) []TaskDescriptor {
	var out []TaskDescriptor
	for _, g := range r.generators {
		if g.Trigger != trigger {
			continue
		}
		for _, d := range g.Generate(c) {
			d.RuleID = g.ID
			out = append(out, d)
		}
	}
	return out
}
