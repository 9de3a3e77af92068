package cards_test

import (
	"math/rand/v2"
	"testing"

	"github.com/lox/holdem-solver/internal/randutil"
)

func newDeterministicRand(t *testing.T) *rand.Rand {
	t.Helper()
	return randutil.New(42)
}
