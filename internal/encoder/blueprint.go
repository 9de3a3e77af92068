package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-solver/internal/artifact"
	"github.com/lox/holdem-solver/internal/edges"
	"github.com/lox/holdem-solver/internal/mccfr"
)

// ParseInfoKey inverts infoKey: it recovers the (subgame_path, bucket,
// choices_path) triple an NLHEEncoder packed into a RegretTable key, so
// internal/worker can turn accumulated RegretEntry state back into
// artifact.BlueprintRow's (past, present, choices) columns without
// re-deriving them from game state.
func ParseInfoKey(key string) (past int64, present int32, choices int64, err error) {
	parts := strings.Split(key, "|")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("encoder: malformed info key %q", key)
	}
	p, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("encoder: info key path: %w", err)
	}
	b, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("encoder: info key bucket: %w", err)
	}
	c, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("encoder: info key choices: %w", err)
	}
	return int64(p), int32(int32(uint32(b))), int64(c), nil
}

// BlueprintRows turns one Info's accumulated RegretEntry into the
// per-edge rows spec.md §6's blueprint table stores, reading the edge
// alphabet for a row directly from the choices Path rather than from a
// live NodeView (the table may be flushed long after the nodes that
// populated it were visited).
func BlueprintRows(key string, entry *mccfr.RegretEntry) ([]artifact.BlueprintRow, error) {
	past, present, choices, err := ParseInfoKey(key)
	if err != nil {
		return nil, err
	}
	choicePath := edges.Path(uint64(choices))
	es := choicePath.Edges()

	policy := entry.AverageStrategy()
	regrets := entry.Regrets()
	if len(es) != len(policy) || len(es) != len(regrets) {
		return nil, fmt.Errorf("encoder: info %q has %d choices but %d policy weights", key, len(es), len(policy))
	}

	rows := make([]artifact.BlueprintRow, len(es))
	for i, e := range es {
		rows[i] = artifact.BlueprintRow{
			Past:    past,
			Present: int16(present),
			Choices: choices,
			Edge:    int64(e.ToU64()),
			Weight:  float32(policy[i]),
			Regret:  float32(regrets[i]),
			Evalue:  float32(entry.EvalueSum),
			Counts:  int32(entry.Visits),
		}
	}
	return rows, nil
}
