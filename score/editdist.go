// Package score implements the permutation-invariant multi-speaker
// scoring engine: word-level edit distance, speaker profiles, the
// minimum-cost speaker assignment (exact and greedy), and the CP-WER
// aggregation over the chosen assignment.
package score

// Counts holds the outcome of one word-level alignment.
type Counts struct {
	Hits          int
	Substitutions int
	Deletions     int
	Insertions    int
}

// Errors is the total number of word errors.
func (c Counts) Errors() int { return c.Substitutions + c.Deletions + c.Insertions }

// RefWords is the reference length implied by the alignment.
func (c Counts) RefWords() int { return c.Hits + c.Substitutions + c.Deletions }

// Rate is errors over reference words. A zero-length reference yields
// 0.0; callers that care must check Degenerate.
func (c Counts) Rate() float64 {
	if n := c.RefWords(); n > 0 {
		return float64(c.Errors()) / float64(n)
	}
	return 0.0
}

// Degenerate reports a non-normalizable alignment: no reference words to
// divide by.
func (c Counts) Degenerate() bool { return c.RefWords() == 0 }

// EditDistance aligns hypothesis tokens against reference tokens with
// unit substitution/insertion/deletion costs and counts hits,
// substitutions, deletions and insertions along a minimum-cost path.
//
// Ties between equal-cost alignments are broken deterministically at each
// backtrack step: hit over substitution, substitution over a separate
// insertion/deletion pair, deletion over insertion. Two independent
// implementations of this contract agree on the counts, not just the
// total cost.
func EditDistance(ref, hyp []string) Counts {
	n, m := len(ref), len(hyp)
	if n == 0 {
		return Counts{Insertions: m}
	}
	if m == 0 {
		return Counts{Deletions: n}
	}

	// d[i][j] = edit distance between ref[:i] and hyp[:j].
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := d[i-1][j-1]
			if ref[i-1] != hyp[j-1] {
				sub++
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			best := sub
			if del < best {
				best = del
			}
			if ins < best {
				best = ins
			}
			d[i][j] = best
		}
	}

	var c Counts
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && d[i][j] == d[i-1][j-1]:
			c.Hits++
			i--
			j--
		case i > 0 && j > 0 && d[i][j] == d[i-1][j-1]+1:
			c.Substitutions++
			i--
			j--
		case i > 0 && d[i][j] == d[i-1][j]+1:
			c.Deletions++
			i--
		default:
			c.Insertions++
			j--
		}
	}
	return c
}
