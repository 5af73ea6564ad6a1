package tabulation

import "sort"

// TransferMatrix is the shared shape for the first-to-alternate and
// first-to-final tables of §4.3.5/§4.3.6: rows and columns are drawn
// from different candidate subsets, with an extra "Exhausted" column.
type TransferMatrix struct {
	Rows    []CandidateId
	Cols    []Allocatee // candidates, possibly plus Exhausted
	Entries [][]int     // Entries[row][col]
}

// FirstToAlternateMatrix implements §4.3.5: for every ballot with a
// non-empty ranking, credits (first choice, second choice or Exhausted).
func FirstToAlternateMatrix(ballots []NormalizedBallot, numCandidates int) TransferMatrix {
	rows := candidateAxis(numCandidates)
	cols := candidateColsWithExhausted(numCandidates)
	entries := newIntMatrix(numCandidates, len(cols))

	for _, nb := range ballots {
		if len(nb.Ranking) == 0 {
			continue
		}
		first := nb.Ranking[0]
		col := len(cols) - 1 // Exhausted
		if len(nb.Ranking) > 1 {
			col = int(nb.Ranking[1])
		}
		entries[first][col]++
	}

	return TransferMatrix{Rows: rows, Cols: cols, Entries: entries}
}

// FirstToFinalMatrix implements §4.3.6: for ballots whose first choice
// did not survive to the final round, credits (first choice, the first
// ranked candidate that did survive, or Exhausted).
func FirstToFinalMatrix(ballots []NormalizedBallot, finalRoundCandidates []CandidateId, numCandidates int) TransferMatrix {
	final := make(map[CandidateId]bool, len(finalRoundCandidates))
	for _, c := range finalRoundCandidates {
		final[c] = true
	}

	var rows []CandidateId
	for c := 0; c < numCandidates; c++ {
		if !final[CandidateId(c)] {
			rows = append(rows, CandidateId(c))
		}
	}

	cols := make([]Allocatee, 0, len(finalRoundCandidates)+1)
	for _, c := range sortedCandidateIDs(finalRoundCandidates) {
		cols = append(cols, CandidateAllocatee(c))
	}
	cols = append(cols, Exhausted)

	colIndex := make(map[Allocatee]int, len(cols))
	for i, a := range cols {
		colIndex[a] = i
	}
	rowIndex := make(map[CandidateId]int, len(rows))
	for i, r := range rows {
		rowIndex[r] = i
	}

	entries := newIntMatrix(len(rows), len(cols))
	for _, nb := range ballots {
		if len(nb.Ranking) == 0 {
			continue
		}
		first := nb.Ranking[0]
		ri, considered := rowIndex[first]
		if !considered {
			continue // first choice survived to the final round; not a row candidate
		}

		target := Exhausted
		for _, c := range nb.Ranking {
			if final[c] {
				target = CandidateAllocatee(c)
				break
			}
		}
		entries[ri][colIndex[target]]++
	}

	return TransferMatrix{Rows: rows, Cols: cols, Entries: entries}
}

func candidateAxis(numCandidates int) []CandidateId {
	axis := make([]CandidateId, numCandidates)
	for i := range axis {
		axis[i] = CandidateId(i)
	}
	return axis
}

func candidateColsWithExhausted(numCandidates int) []Allocatee {
	cols := make([]Allocatee, 0, numCandidates+1)
	for c := 0; c < numCandidates; c++ {
		cols = append(cols, CandidateAllocatee(CandidateId(c)))
	}
	return append(cols, Exhausted)
}

func newIntMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

func sortedCandidateIDs(ids []CandidateId) []CandidateId {
	out := make([]CandidateId, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
