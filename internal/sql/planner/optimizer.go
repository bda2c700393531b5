package planner

// OptimizationRule represents a rule that transforms logical plans.
type OptimizationRule interface {
	// Apply attempts to apply this rule to the given plan.
	// Returns the transformed plan and true if the rule was applied.
	Apply(plan LogicalPlan) (LogicalPlan, bool)
}

// Optimizer applies optimization rules to logical plans.
type Optimizer struct {
	rules []OptimizationRule
}

// NewOptimizer creates a new optimizer with the default rule set.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		rules: []OptimizationRule{
			NewMaterializedIndexSelection(),
		},
	}
}

// NewOptimizerWithRules creates an optimizer with an explicit rule list.
func NewOptimizerWithRules(rules ...OptimizationRule) *Optimizer {
	return &Optimizer{rules: rules}
}

// Optimize applies all rules until no more changes occur.
func (o *Optimizer) Optimize(plan LogicalPlan) LogicalPlan {
	const maxIterations = 20
	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, rule := range o.rules {
			newPlan, applied := rule.Apply(plan)
			if applied {
				plan = newPlan
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return plan
}
