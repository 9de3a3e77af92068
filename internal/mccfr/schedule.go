// Package mccfr implements the generic Monte-Carlo Counterfactual Regret
// Minimization solver core: sampling schemes, regret/policy schedules,
// the lazy DFS tree, infoset partitioning, counterfactual computation, and
// exploitability via full-tree best response.
//
// The source (see original_source/crates/mccfr) parameterizes this over
// associated-type traits. Per spec.md §9's design note, this is realized
// here as small interfaces selected once at construction (the "(b)
// function-pointer-style strategy objects" option), since the grid of
// supported schedule combinations is small and fixed.
package mccfr

import "math"

// RegretSchedule computes the next accumulated regret given the old value,
// the instantaneous counterfactual regret delta, and the current epoch.
type RegretSchedule interface {
	Update(old, delta float64, epoch int64) float64
}

// PolicyWeightSchedule computes the next accumulated policy weight given
// the old weight, this iteration's policy mass, and the current epoch.
type PolicyWeightSchedule interface {
	Update(old, mass float64, epoch int64) float64
}

// VanillaRegret sums regret deltas unmodified.
type VanillaRegret struct{}

func (VanillaRegret) Update(old, delta float64, _ int64) float64 { return old + delta }

// CFRPlusRegret floors regret at zero before accumulating (CFR+).
type CFRPlusRegret struct{}

func (CFRPlusRegret) Update(old, delta float64, _ int64) float64 {
	return math.Max(0, old) + delta
}

// LinearRegret weights the delta by the current epoch (Linear CFR).
type LinearRegret struct{}

func (LinearRegret) Update(old, delta float64, epoch int64) float64 {
	return old + float64(epoch)*delta
}

// DiscountedRegret implements Discounted CFR: running regret is multiplied
// by t^α/(t^α+1) when positive and t^β/(t^β+1) when negative, applied every
// P epochs, before the new delta is accumulated.
type DiscountedRegret struct {
	Alpha, Beta float64
	Period      int64
}

func (d DiscountedRegret) Update(old, delta float64, epoch int64) float64 {
	if d.Period <= 0 {
		d.Period = 1
	}
	if epoch%d.Period == 0 {
		t := float64(epoch)
		if old > 0 {
			factor := math.Pow(t, d.Alpha)
			old = old * factor / (factor + 1)
		} else if old < 0 {
			factor := math.Pow(t, d.Beta)
			old = old * factor / (factor + 1)
		}
	}
	return old + delta
}

// PluribusRegret hybridizes CFR+ flooring with a linear warm-up weighting,
// matching the source's "Pluribus hybrid" regret schedule.
type PluribusRegret struct {
	WarmupEpochs int64
}

func (p PluribusRegret) Update(old, delta float64, epoch int64) float64 {
	floored := math.Max(0, old)
	if epoch <= p.WarmupEpochs {
		return floored + delta
	}
	return floored + float64(epoch)*delta
}

// ConstantPolicy accumulates policy mass unweighted.
type ConstantPolicy struct{}

func (ConstantPolicy) Update(old, mass float64, _ int64) float64 { return old + mass }

// LinearPolicy weights mass by epoch t.
type LinearPolicy struct{}

func (LinearPolicy) Update(old, mass float64, epoch int64) float64 {
	return old + float64(epoch)*mass
}

// QuadraticPolicy weights mass by epoch t^2.
type QuadraticPolicy struct{}

func (QuadraticPolicy) Update(old, mass float64, epoch int64) float64 {
	t := float64(epoch)
	return old + t*t*mass
}

// ExponentialPolicy decays old weight by gamma before adding this
// iteration's mass.
type ExponentialPolicy struct {
	Gamma float64
}

func (e ExponentialPolicy) Update(old, mass float64, _ int64) float64 {
	return e.Gamma*old + mass
}
