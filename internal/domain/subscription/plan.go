package subscription

// Plan is one purchasable subscription plan from the catalog.
type Plan struct {
	ID          string
	Tier        Tier
	Interval    Interval
	AmountMinor int64
}

// PlanCatalog resolves plans. Implementations are seeded from configuration.
type PlanCatalog interface {
	PlanByID(id string) (Plan, bool)
	PlanFor(tier Tier, interval Interval) (Plan, bool)
}

// StaticPlanCatalog is a PlanCatalog backed by a fixed plan list.
type StaticPlanCatalog struct {
	plans []Plan
}

// NewStaticPlanCatalog builds a catalog from the given plans.
func NewStaticPlanCatalog(plans []Plan) *StaticPlanCatalog {
	return &StaticPlanCatalog{plans: plans}
}

// PlanByID returns the plan with the given ID.
func (c *StaticPlanCatalog) PlanByID(id string) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PlanFor returns the plan matching tier and interval.
func (c *StaticPlanCatalog) PlanFor(tier Tier, interval Interval) (Plan, bool) {
	for _, p := range c.plans {
		if p.Tier == tier && p.Interval == interval {
			return p, true
		}
	}
	return Plan{}, false
}
