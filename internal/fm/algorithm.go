package fm

// The 32 DX7-style algorithms are routing graphs over the six operators:
// which operators feed modulation into which, and which are carriers summed
// into the voice output. Rather than 32 hand-written functions, each
// algorithm is a table row interpreted by one evaluator.
//
// Operator indices are zero-based, so "6→5→4→3→2→1" reads as
// ops[5]→ops[4]→...→ops[0]. Slice order is meaningful: modulator sources
// and carriers are summed in listed order, which fixes the floating-point
// summation order. The published hardware algorithm table contains
// duplicate entries (12=11, 14=13, 16=15, 22=21, 24=23, 26=25, 30=31=23);
// they are kept as distinct rows on purpose.
type routing struct {
	// mods[t] lists the operators whose raw outputs are summed into
	// operator t's modulation input.
	mods [NumOperators][]int
	// carriers lists the operators whose outputs are summed into the
	// voice's mono sample.
	carriers []int
	// order is the evaluation order over the operators reachable from the
	// carriers, sources before targets. Filled in by init.
	order []int
}

var algorithms = [NumAlgorithms]routing{
	// 1: 6→5→4→3→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {4}, 2: {3}, 1: {2}, 0: {1}}, carriers: []int{0}},
	// 2: (5+6)→4→3→2→1
	{mods: [NumOperators][]int{3: {4, 5}, 2: {3}, 1: {2}, 0: {1}}, carriers: []int{0}},
	// 3: 6→5→4→3→2, 6→1
	{mods: [NumOperators][]int{4: {5}, 3: {4}, 2: {3}, 1: {2}, 0: {5}}, carriers: []int{1, 0}},
	// 4: 6→5→4→3, 6→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {4}, 2: {3}, 1: {5}, 0: {1}}, carriers: []int{2, 0}},
	// 5: 6→5→4, 6→3→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {4}, 2: {5}, 1: {2}, 0: {1}}, carriers: []int{3, 0}},
	// 6: 6→5, 6→4→3→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {5}, 2: {3}, 1: {2}, 0: {1}}, carriers: []int{4, 0}},
	// 7: 6→5→4, 6→3, 6→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {4}, 2: {5}, 1: {5}, 0: {1}}, carriers: []int{3, 2, 0}},
	// 8: 6→5, 6→4, 6→3, 6→2→1
	{mods: [NumOperators][]int{4: {5}, 3: {5}, 2: {5}, 1: {5}, 0: {1}}, carriers: []int{4, 3, 2, 0}},
	// 9: 6→5→3, 4→1, 2→1
	{mods: [NumOperators][]int{4: {5}, 2: {4}, 0: {3, 1}}, carriers: []int{0}},
	// 10: (5+6)→4→1, 3→1
	{mods: [NumOperators][]int{3: {4, 5}, 0: {3, 2}}, carriers: []int{0}},
	// 11: (4+5+6)→3→1, 2→1
	{mods: [NumOperators][]int{2: {3, 4, 5}, 0: {2, 1}}, carriers: []int{0}},
	// 12: duplicate of 11
	{mods: [NumOperators][]int{2: {3, 4, 5}, 0: {2, 1}}, carriers: []int{0}},
	// 13: (5+6)→2→1, 4→1, 3→1
	{mods: [NumOperators][]int{1: {4, 5}, 0: {1, 3, 2}}, carriers: []int{0}},
	// 14: duplicate of 13
	{mods: [NumOperators][]int{1: {4, 5}, 0: {1, 3, 2}}, carriers: []int{0}},
	// 15: (4+6)→3→1, 2→1, 5→1
	{mods: [NumOperators][]int{2: {3, 5}, 0: {2, 1, 4}}, carriers: []int{0}},
	// 16: duplicate of 15
	{mods: [NumOperators][]int{2: {3, 5}, 0: {2, 1, 4}}, carriers: []int{0}},
	// 17: (5+6)→4→1, 3→1, 2→1
	{mods: [NumOperators][]int{3: {4, 5}, 0: {3, 2, 1}}, carriers: []int{0}},
	// 18: (2+6)→4→5
	{mods: [NumOperators][]int{3: {1, 5}, 4: {3}}, carriers: []int{4}},
	// 19: (3+5+6)→2→4
	{mods: [NumOperators][]int{1: {2, 4, 5}, 3: {1}}, carriers: []int{3}},
	// 20: (3+6)→2→4, 5→4
	{mods: [NumOperators][]int{1: {2, 5}, 3: {1, 4}}, carriers: []int{3}},
	// 21: (2+6)→3→4, 5→4
	{mods: [NumOperators][]int{2: {1, 5}, 3: {2, 4}}, carriers: []int{3}},
	// 22: duplicate of 21
	{mods: [NumOperators][]int{2: {1, 5}, 3: {2, 4}}, carriers: []int{3}},
	// 23: (1+2+3+4+5)→6
	{mods: [NumOperators][]int{5: {0, 1, 2, 3, 4}}, carriers: []int{5}},
	// 24: duplicate of 23
	{mods: [NumOperators][]int{5: {0, 1, 2, 3, 4}}, carriers: []int{5}},
	// 25: (3+5+6)→4, 1→2
	{mods: [NumOperators][]int{1: {0}, 3: {2, 4, 5}}, carriers: []int{1, 3}},
	// 26: duplicate of 25
	{mods: [NumOperators][]int{1: {0}, 3: {2, 4, 5}}, carriers: []int{1, 3}},
	// 27: (1+3+6)→2, 4, 5
	{mods: [NumOperators][]int{1: {0, 2, 5}}, carriers: []int{1, 3, 4}},
	// 28: (1+2+3+5)→4, 6
	{mods: [NumOperators][]int{3: {0, 1, 2, 4}}, carriers: []int{3, 5}},
	// 29: (1+2+3+6)→4, 5
	{mods: [NumOperators][]int{3: {0, 1, 2, 5}}, carriers: []int{3, 4}},
	// 30: duplicate of 23
	{mods: [NumOperators][]int{5: {0, 1, 2, 3, 4}}, carriers: []int{5}},
	// 31: duplicate of 23
	{mods: [NumOperators][]int{5: {0, 1, 2, 3, 4}}, carriers: []int{5}},
	// 32: all six parallel carriers
	{carriers: []int{0, 1, 2, 3, 4, 5}},
}

func init() {
	for i := range algorithms {
		algorithms[i].order = evalOrder(&algorithms[i])
	}
}

// evalOrder collects the operators reachable from the carriers in
// dependency order (modulators before their targets). Operators the
// algorithm never routes anywhere are skipped; their output would be
// computed and discarded, so leaving them out is observationally identical.
func evalOrder(r *routing) []int {
	var order []int
	var visited [NumOperators]bool
	var visit func(opIdx int)
	visit = func(opIdx int) {
		if visited[opIdx] {
			return
		}
		visited[opIdx] = true
		for _, src := range r.mods[opIdx] {
			visit(src)
		}
		order = append(order, opIdx)
	}
	for _, c := range r.carriers {
		visit(c)
	}
	return order
}

// processAlgorithm evaluates one algorithm's graph for one sample tick and
// returns the voice's mono sample. Allocation-free: scratch lives on the
// stack. Out-of-range indices are a configuration error and yield silence.
func (e *Engine) processAlgorithm(algorithm int, voice *Voice) float64 {
	if algorithm < 0 || algorithm >= NumAlgorithms {
		return 0
	}
	r := &algorithms[algorithm]

	var outputs [NumOperators]float64
	for _, opIdx := range r.order {
		var modulation float64
		for _, src := range r.mods[opIdx] {
			modulation += outputs[src]
		}
		outputs[opIdx] = e.cfg.Output(&voice.Operators[opIdx], modulation)
	}

	var sample float64
	for _, c := range r.carriers {
		sample += outputs[c]
	}
	return sample
}
