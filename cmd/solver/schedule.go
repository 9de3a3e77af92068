package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-solver/internal/mccfr"
)

// resolveRegretSchedule maps a config/flag string to the mccfr.RegretSchedule
// it names, the CLI-facing surface over the schedule types spec.md §4.4
// describes.
func resolveRegretSchedule(name string) (mccfr.RegretSchedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vanilla":
		return mccfr.VanillaRegret{}, nil
	case "cfr_plus", "cfr+":
		return mccfr.CFRPlusRegret{}, nil
	case "linear":
		return mccfr.LinearRegret{}, nil
	case "discounted":
		return mccfr.DiscountedRegret{Alpha: 1.5, Beta: 0, Period: 10}, nil
	case "pluribus":
		return mccfr.PluribusRegret{WarmupEpochs: 400}, nil
	default:
		return nil, fmt.Errorf("unknown regret schedule %q", name)
	}
}

// resolvePolicySchedule maps a config/flag string to the mccfr.PolicyWeightSchedule
// it names.
func resolvePolicySchedule(name string) (mccfr.PolicyWeightSchedule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "constant":
		return mccfr.ConstantPolicy{}, nil
	case "", "linear":
		return mccfr.LinearPolicy{}, nil
	case "quadratic":
		return mccfr.QuadraticPolicy{}, nil
	case "exponential":
		return mccfr.ExponentialPolicy{Gamma: 0.98}, nil
	default:
		return nil, fmt.Errorf("unknown policy schedule %q", name)
	}
}

// resolveSampler maps a flag string to the mccfr.Sampler it names.
func resolveSampler(name string) (mccfr.Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "external":
		return mccfr.ExternalSampler{}, nil
	case "vanilla":
		return mccfr.VanillaSampler{}, nil
	case "pluribus":
		return mccfr.PluribusSampler{}, nil
	default:
		return nil, fmt.Errorf("unknown sampler %q", name)
	}
}
