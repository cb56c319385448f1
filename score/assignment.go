package score

import (
	"math"
	"sort"
)

// emptyProfileCost makes a speaker with no words effectively unmatchable:
// the solver pairs everything else first and leaves degenerate profiles
// for last, if they get paired at all.
const emptyProfileCost = 1e9

// Pair is one edge of an assignment. An empty Ref marks a false-alarm
// hypothesis speaker, an empty Hyp a missed reference speaker. Speaker
// labels themselves are never empty (Transcript.Validate enforces that).
type Pair struct {
	Ref string `json:"ref"`
	Hyp string `json:"hyp"`
}

// Assignment is a one-to-one correspondence between reference and
// hypothesis speakers; each present label appears in at most one pair.
type Assignment []Pair

// CostMatrix holds the pairwise word-level alignments between every
// reference and hypothesis profile. Built fresh per evaluation and
// discarded after use.
type CostMatrix struct {
	Ref   Profiles
	Hyp   Profiles
	Cells [][]Counts
}

// NewCostMatrix runs the edit-distance scorer over every profile pair.
func NewCostMatrix(ref, hyp Profiles) *CostMatrix {
	cells := make([][]Counts, len(ref))
	for r, rp := range ref {
		cells[r] = make([]Counts, len(hyp))
		for h, hp := range hyp {
			cells[r][h] = EditDistance(rp.Tokens, hp.Tokens)
		}
	}
	return &CostMatrix{Ref: ref, Hyp: hyp, Cells: cells}
}

// cost is the solver-facing cost of pairing ref r with hyp h. Degenerate
// profiles price out against every counterpart.
func (m *CostMatrix) cost(r, h int) float64 {
	if m.Ref[r].Words() == 0 || m.Hyp[h].Words() == 0 {
		return emptyProfileCost
	}
	return float64(m.Cells[r][h].Errors())
}

// MatchedCost sums the matched-pair error counts of an assignment.
func (m *CostMatrix) MatchedCost(a Assignment) int {
	refIdx := map[string]int{}
	for i, p := range m.Ref {
		refIdx[p.Speaker] = i
	}
	hypIdx := map[string]int{}
	for i, p := range m.Hyp {
		hypIdx[p.Speaker] = i
	}
	total := 0
	for _, pair := range a {
		if pair.Ref == "" || pair.Hyp == "" {
			continue
		}
		total += m.Cells[refIdx[pair.Ref]][hypIdx[pair.Hyp]].Errors()
	}
	return total
}

// TotalCost is the full objective an assignment is judged by: matched
// pair errors plus every unmatched reference word as a deletion and
// every unmatched hypothesis word as an insertion.
func (m *CostMatrix) TotalCost(a Assignment) int {
	refIdx := map[string]int{}
	for i, p := range m.Ref {
		refIdx[p.Speaker] = i
	}
	hypIdx := map[string]int{}
	for i, p := range m.Hyp {
		hypIdx[p.Speaker] = i
	}
	total := 0
	for _, pair := range a {
		switch {
		case pair.Ref != "" && pair.Hyp != "":
			total += m.Cells[refIdx[pair.Ref]][hypIdx[pair.Hyp]].Errors()
		case pair.Ref != "":
			total += m.Ref[refIdx[pair.Ref]].Words()
		default:
			total += m.Hyp[hypIdx[pair.Hyp]].Words()
		}
	}
	return total
}

// ExactAssignment solves the assignment problem to optimality: the
// returned correspondence minimizes total word errors over every
// possible one-to-one pairing, counting an unmatched reference
// speaker's words as deletions and an unmatched hypothesis speaker's
// words as insertions. Unequal side counts are padded with dummies
// priced at exactly those leftover word counts, so leaving a speaker
// unpaired competes on equal terms with a poor pairing.
func ExactAssignment(m *CostMatrix) Assignment {
	nr, nh := len(m.Ref), len(m.Hyp)
	n := nr
	if nh > n {
		n = nh
	}
	if n == 0 {
		return nil
	}

	cost := make([][]float64, n)
	for r := 0; r < n; r++ {
		cost[r] = make([]float64, n)
		for h := 0; h < n; h++ {
			switch {
			case r < nr && h < nh:
				cost[r][h] = m.cost(r, h)
			case r < nr:
				cost[r][h] = float64(m.Ref[r].Words())
			case h < nh:
				cost[r][h] = float64(m.Hyp[h].Words())
			}
			// dummy-dummy cells stay zero
		}
	}

	match := hungarian(cost)

	var out Assignment
	for r := 0; r < nr; r++ {
		if h := match[r]; h < nh {
			out = append(out, Pair{Ref: m.Ref[r].Speaker, Hyp: m.Hyp[h].Speaker})
		} else {
			out = append(out, Pair{Ref: m.Ref[r].Speaker})
		}
	}
	matched := make([]bool, nh)
	for r := 0; r < nr; r++ {
		if h := match[r]; h < nh {
			matched[h] = true
		}
	}
	for h := 0; h < nh; h++ {
		if !matched[h] {
			out = append(out, Pair{Hyp: m.Hyp[h].Speaker})
		}
	}
	return out
}

// SolveAssignment exposes the minimum-cost solver for other metrics that
// need an optimal one-to-one mapping over their own square cost matrix.
func SolveAssignment(cost [][]float64) []int {
	if len(cost) == 0 {
		return nil
	}
	return hungarian(cost)
}

// hungarian is the O(n³) potentials formulation of the Hungarian
// algorithm for a square cost matrix. Returns the column assigned to
// each row.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j]: row matched to column j (1-based, 0 = none)
	way := make([]int, n+1) // predecessor column on the augmenting path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	match := make([]int, n)
	for j := 1; j <= n; j++ {
		match[p[j]-1] = j - 1
	}
	return match
}

// GreedyAssignment approximates the optimum in O(n² log n): reference
// speakers are taken in descending profile length so dominant speakers
// resolve first (ties broken by ascending speaker id), and each takes the
// still-unmatched hypothesis speaker with the lowest per-pair error rate.
// Leftover reference speakers are missed, leftover hypothesis speakers
// are false alarms. Deliberately non-optimal in exchange for bounded
// runtime on large speaker counts.
func GreedyAssignment(m *CostMatrix) Assignment {
	order := make([]int, len(m.Ref))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := m.Ref[order[a]], m.Ref[order[b]]
		if ra.Words() != rb.Words() {
			return ra.Words() > rb.Words()
		}
		return ra.Speaker < rb.Speaker
	})

	taken := make([]bool, len(m.Hyp))
	hypFor := make([]int, len(m.Ref))
	for i := range hypFor {
		hypFor[i] = -1
	}
	for _, r := range order {
		best, bestRate := -1, math.Inf(1)
		for h := range m.Hyp {
			if taken[h] {
				continue
			}
			rate := m.pairRate(r, h)
			if rate < bestRate {
				bestRate = rate
				best = h
			}
		}
		if best >= 0 {
			taken[best] = true
			hypFor[r] = best
		}
	}

	var out Assignment
	for r := range m.Ref {
		if h := hypFor[r]; h >= 0 {
			out = append(out, Pair{Ref: m.Ref[r].Speaker, Hyp: m.Hyp[h].Speaker})
		} else {
			out = append(out, Pair{Ref: m.Ref[r].Speaker})
		}
	}
	for h := range m.Hyp {
		if !taken[h] {
			out = append(out, Pair{Hyp: m.Hyp[h].Speaker})
		}
	}
	return out
}

// pairRate is the per-pair error rate the greedy strategy minimizes.
// Degenerate profiles price out here too.
func (m *CostMatrix) pairRate(r, h int) float64 {
	if m.Ref[r].Words() == 0 || m.Hyp[h].Words() == 0 {
		return emptyProfileCost
	}
	return m.Cells[r][h].Rate()
}
