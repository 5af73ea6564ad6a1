package tabulation

import "sort"

// CandidateTotal is one candidate's aggregate vote history across a
// tabulation, per §4.3.1.
type CandidateTotal struct {
	Candidate          CandidateId
	FirstRoundVotes    int
	TransferVotes      int
	RoundEliminated    int // 1-based; meaningful only when HasRoundEliminated
	HasRoundEliminated bool
}

// TotalVotes computes §4.3.1's per-candidate vote history from a
// completed round history. The returned slice is sorted by
// (FirstRoundVotes + TransferVotes) descending, the order the rounds
// produced; callers assembling the final report re-sort it ascending by
// CandidateId per §4.4's "sorted versions ... for stable serialization".
func TotalVotes(rounds []TabulatorRound, numCandidates int) []CandidateTotal {
	if len(rounds) == 0 {
		return nil
	}

	firstRound := voteByCandidate(rounds[0])
	lastRound := voteByCandidate(rounds[len(rounds)-1])
	eliminatedAt := make(map[CandidateId]int, numCandidates)
	for _, r := range rounds {
		for _, tr := range r.Transfers {
			eliminatedAt[tr.From] = r.RoundNumber
		}
	}

	totals := make([]CandidateTotal, 0, numCandidates)
	for c := 0; c < numCandidates; c++ {
		id := CandidateId(c)
		first, appearedFirst := firstRound[id]
		if !appearedFirst {
			continue // candidate never reached an allocation (e.g. excluded write-in)
		}
		final, appearedFinal := lastRound[id]
		if !appearedFinal {
			final = first // eliminated before the last round; final_round_votes holds at its last appearance
			if lastKnown, ok := lastAppearance(rounds, id); ok {
				final = lastKnown
			}
		}
		round, wasEliminated := eliminatedAt[id]
		totals = append(totals, CandidateTotal{
			Candidate:          id,
			FirstRoundVotes:    first,
			TransferVotes:      final - first,
			RoundEliminated:    round,
			HasRoundEliminated: wasEliminated,
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		vi := totals[i].FirstRoundVotes + totals[i].TransferVotes
		vj := totals[j].FirstRoundVotes + totals[j].TransferVotes
		return vi > vj
	})
	return totals
}

func voteByCandidate(r TabulatorRound) map[CandidateId]int {
	out := make(map[CandidateId]int, len(r.Allocations))
	for _, a := range r.Allocations {
		if a.Allocatee.Kind == AllocateeCandidate {
			out[a.Allocatee.Candidate] = a.Votes
		}
	}
	return out
}

// lastAppearance finds a candidate's vote count in the last round in
// which it still held an allocation, for candidates eliminated before
// the tabulation's final round.
func lastAppearance(rounds []TabulatorRound, id CandidateId) (int, bool) {
	for i := len(rounds) - 1; i >= 0; i-- {
		if v, ok := voteByCandidate(rounds[i])[id]; ok {
			return v, true
		}
	}
	return 0, false
}

// SortedByCandidateID returns a copy of totals ordered ascending by
// CandidateId, the stable order §4.4 requires for serialization.
func SortedByCandidateID(totals []CandidateTotal) []CandidateTotal {
	out := make([]CandidateTotal, len(totals))
	copy(out, totals)
	sort.Slice(out, func(i, j int) bool { return out[i].Candidate < out[j].Candidate })
	return out
}
