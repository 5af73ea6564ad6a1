package tabulation

// PairwiseCounts is the raw (i,j) preference-count matrix produced by
// §4.3.2: entries[i][j] counts ballots preferring candidate i to j,
// counting an unranked candidate as less preferred than any ranked one.
type PairwiseCounts struct {
	n       int
	entries []int // row-major, n*n
}

func newPairwiseCounts(n int) *PairwiseCounts {
	return &PairwiseCounts{n: n, entries: make([]int, n*n)}
}

func (p *PairwiseCounts) add(above, below CandidateId, delta int) {
	p.entries[int(above)*p.n+int(below)] += delta
}

func (p *PairwiseCounts) At(above, below CandidateId) int {
	return p.entries[int(above)*p.n+int(below)]
}

// ComputePairwiseCounts implements §4.3.2 over every normalized ballot.
func ComputePairwiseCounts(ballots []NormalizedBallot, numCandidates int) *PairwiseCounts {
	p := newPairwiseCounts(numCandidates)
	ranked := make([]bool, numCandidates)

	for _, nb := range ballots {
		for i := range ranked {
			ranked[i] = false
		}
		for _, c := range nb.Ranking {
			ranked[c] = true
		}

		for i, above := range nb.Ranking {
			for _, below := range nb.Ranking[i+1:] {
				p.add(above, below, 1)
			}
			for u := 0; u < numCandidates; u++ {
				if !ranked[u] {
					p.add(above, CandidateId(u), 1)
				}
			}
		}
	}
	return p
}

// PreferenceEntry is one cell of a pairwise-style matrix, per §4.3.3.
type PreferenceEntry struct {
	Votes int
	Total int
}

// PreferenceMatrix is a square table over the candidate axis, with an
// absent cell on the diagonal and wherever Total would be zero.
type PreferenceMatrix struct {
	Rows    []CandidateId
	Cols    []CandidateId
	Entries [][]*PreferenceEntry // Entries[i][j], nil when absent
}

// PairwisePreferencesTable builds §4.3.3's table from raw counts.
func PairwisePreferencesTable(counts *PairwiseCounts, numCandidates int) PreferenceMatrix {
	axis := make([]CandidateId, numCandidates)
	for i := range axis {
		axis[i] = CandidateId(i)
	}

	entries := make([][]*PreferenceEntry, numCandidates)
	for i := 0; i < numCandidates; i++ {
		entries[i] = make([]*PreferenceEntry, numCandidates)
		for j := 0; j < numCandidates; j++ {
			if i == j {
				continue
			}
			votes := counts.At(CandidateId(i), CandidateId(j))
			total := votes + counts.At(CandidateId(j), CandidateId(i))
			if total == 0 {
				continue
			}
			entries[i][j] = &PreferenceEntry{Votes: votes, Total: total}
		}
	}
	return PreferenceMatrix{Rows: axis, Cols: axis, Entries: entries}
}
