package mccfr

// Exploitability builds a full (every-branch) tree from root and computes
// each player's best response against the opponent's averaged strategy,
// returning (BR(P0) + BR(P1)) / 2. Exploitability must decrease (in
// expectation) with training, per spec.md §8.
func Exploitability(table *RegretTable, encoder Encoder, root Node) float64 {
	br0 := bestResponseValue(table, encoder, root, nil, 0)
	br1 := bestResponseValue(table, encoder, root, nil, 1)
	return (br0 + br1) / 2
}

// bestResponseValue recursively computes the value to player of playing a
// best response at their own nodes, while the opponent (and chance) plays
// the averaged strategy from table.
func bestResponseValue(table *RegretTable, encoder Encoder, node Node, history []int, player int) float64 {
	switch node.Turn() {
	case TerminalTurn:
		return node.Payoff(player)
	case ChanceTurn:
		n := node.Actions()
		total := 0.0
		for a := 0; a < n; a++ {
			total += bestResponseValue(table, encoder, node.Child(a), appendCopy(history, a), player) / float64(n)
		}
		return total
	}

	n := node.Actions()
	if node.Turn() == player {
		best := negInf
		for a := 0; a < n; a++ {
			v := bestResponseValue(table, encoder, node.Child(a), appendCopy(history, a), player)
			if v > best {
				best = v
			}
		}
		return best
	}

	key := encoder.Info(history, node)
	entry := table.Get(key, n)
	avg := entry.AverageStrategy()
	total := 0.0
	for a := 0; a < n; a++ {
		total += avg[a] * bestResponseValue(table, encoder, node.Child(a), appendCopy(history, a), player)
	}
	return total
}

const negInf = -1e18
