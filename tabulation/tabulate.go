package tabulation

import "sort"

// Tabulate runs instant-runoff voting over ballots until a terminal
// round, returning the full round history per §4.2. It is a total
// function on valid input: zero ballots or zero active candidates yield
// an empty round list rather than an error.
func Tabulate(ballots []NormalizedBallot, numCandidates int, opts TabulationOptions) []TabulatorRound {
	if len(ballots) == 0 || numCandidates == 0 {
		return nil
	}

	t := &tabulator{
		ballots: ballots,
		cursors: make([]int, len(ballots)),
		active:  make(map[CandidateId]bool, numCandidates),
		numCand: numCandidates,
		opts:    opts,
		counted: make([]bool, len(ballots)),
	}
	t.priority = tieBreakPriority(numCandidates, opts)
	for c := 0; c < numCandidates; c++ {
		t.active[CandidateId(c)] = true
	}

	var rounds []TabulatorRound
	var transfers []Transfer // produced by the previous round's elimination
	for {
		round, terminal := t.runRound(len(rounds) + 1)
		round.Transfers = transfers
		rounds = append(rounds, round)
		if terminal {
			break
		}
		transfers = t.eliminate(round.Allocations)
	}
	return rounds
}

type tabulator struct {
	ballots  []NormalizedBallot
	cursors  []int
	active   map[CandidateId]bool
	numCand  int
	opts     TabulationOptions
	priority map[CandidateId]int // lower value = higher priority = wins ties, loses last
	counted  []bool              // ballots whose exhaustion is already attributed to a round
}

// tieBreakPriority returns, for every candidate, a rank used to break
// ties: lower rank wins a tie for first place and survives a tie for
// last place. §9's precedence order governs which source builds it.
func tieBreakPriority(numCandidates int, opts TabulationOptions) map[CandidateId]int {
	priority := make(map[CandidateId]int, numCandidates)

	switch opts.TieBreakMode {
	case UsePermutation:
		if len(opts.CandidatePermutation) == numCandidates {
			for i, c := range opts.CandidatePermutation {
				priority[c] = i
			}
			return priority
		}
		// malformed permutation falls back to the hard default below.
	case RandomStableHash:
		ids := make([]CandidateId, numCandidates)
		for i := range ids {
			ids[i] = CandidateId(i)
		}
		sort.Slice(ids, func(i, j int) bool {
			return stableHash(ids[i]) < stableHash(ids[j])
		})
		for rank, c := range ids {
			priority[c] = rank
		}
		return priority
	}

	// lexicographic_by_id, and the hard fallback for every other mode.
	for c := 0; c < numCandidates; c++ {
		priority[CandidateId(c)] = c
	}
	return priority
}

// stableHash gives RandomStableHash a fixed, run-independent ordering:
// "random" only in the sense of not following candidate id order, but
// reproducible across runs so determinism (§5, §8 property 7) holds.
func stableHash(c CandidateId) uint64 {
	x := uint64(c) + 1
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// runRound advances every ballot's cursor past eliminated candidates,
// tallies the result, and reports whether this round is terminal.
func (t *tabulator) runRound(roundNumber int) (TabulatorRound, bool) {
	tally := make(map[Allocatee]int, len(t.active)+1)
	for c := range t.active {
		tally[CandidateAllocatee(c)] = 0
	}
	undervote, overvote := 0, 0

	for i, nb := range t.ballots {
		t.advanceCursor(i)
		if t.cursors[i] >= len(nb.Ranking) {
			tally[Exhausted]++
			if !t.counted[i] {
				t.counted[i] = true
				if nb.ExhaustedByOvervote && t.opts.ExhaustOnOvervote {
					overvote++
				}
				if nb.ExhaustedByUndervote {
					undervote++
				}
			}
			continue
		}
		c := nb.Ranking[t.cursors[i]]
		tally[CandidateAllocatee(c)]++
	}

	allocations := t.sortedAllocations(tally)
	round := TabulatorRound{
		RoundNumber: roundNumber,
		Allocations: allocations,
		Undervote:   undervote,
		Overvote:    overvote,
	}
	return round, t.isTerminal(allocations)
}

// advanceCursor moves ballot i's cursor past any rank no longer active,
// without ever moving it backward. Exhausted ballots (cursor already
// past the end) are left alone.
func (t *tabulator) advanceCursor(i int) {
	nb := t.ballots[i]
	for t.cursors[i] < len(nb.Ranking) && !t.active[nb.Ranking[t.cursors[i]]] {
		t.cursors[i]++
	}
}

func (t *tabulator) sortedAllocations(tally map[Allocatee]int) []Allocation {
	allocations := make([]Allocation, 0, len(tally))
	for allocatee, votes := range tally {
		allocations = append(allocations, Allocation{Allocatee: allocatee, Votes: votes})
	}
	sort.Slice(allocations, func(i, j int) bool {
		a, b := allocations[i], allocations[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return t.allocateePriority(a.Allocatee) < t.allocateePriority(b.Allocatee)
	})
	return allocations
}

// allocateePriority puts Exhausted after every candidate for tie-break
// purposes; Exhausted never competes for first or last place.
func (t *tabulator) allocateePriority(a Allocatee) int {
	if a.Kind == AllocateeExhausted {
		return t.numCand
	}
	return t.priority[a.Candidate]
}

func (t *tabulator) isTerminal(allocations []Allocation) bool {
	if len(t.active) == 1 {
		return true
	}
	if t.opts.WinningThreshold == PluralityFinalTwo && len(t.active) == 2 {
		return true
	}

	total := 0
	for _, a := range allocations {
		if a.Allocatee.Kind == AllocateeCandidate {
			total += a.Votes
		}
	}
	if total == 0 {
		return true // every continuing ballot is exhausted; no majority is reachable
	}
	if t.opts.WinningThreshold != Majority {
		return false // plurality_final_two runs until two candidates remain
	}
	top := allocations[0]
	return top.Allocatee.Kind == AllocateeCandidate && top.Votes*2 > total
}

// selectLosers identifies this round's eliminated candidate(s) per §4.2
// step 4 and returns them in the order they should be processed for
// transfers (ascending CandidateId). It does not touch the active set;
// eliminate removes them.
func (t *tabulator) selectLosers(allocations []Allocation) []CandidateId {
	candidateAllocations := make([]Allocation, 0, len(allocations))
	for _, a := range allocations {
		if a.Allocatee.Kind == AllocateeCandidate {
			candidateAllocations = append(candidateAllocations, a)
		}
	}
	// ascending by votes, ties broken by the same priority used for
	// display ordering: the highest priority value sorts first and loses
	// the tie, the lowest priority value is evaluated last and survives,
	// per §9's "hard fallback = ascending CandidateId".
	sort.Slice(candidateAllocations, func(i, j int) bool {
		a, b := candidateAllocations[i], candidateAllocations[j]
		if a.Votes != b.Votes {
			return a.Votes < b.Votes
		}
		return t.priority[a.Allocatee.Candidate] > t.priority[b.Allocatee.Candidate]
	})

	var losers []CandidateId
	if t.opts.BatchElimination {
		losers = t.batchLosers(candidateAllocations)
	} else {
		losers = []CandidateId{candidateAllocations[0].Allocatee.Candidate}
	}

	sort.Slice(losers, func(i, j int) bool { return losers[i] < losers[j] })
	return losers
}

// batchLosers implements §4.2's batch elimination: the longest ascending
// prefix whose cumulative vote count is strictly less than the next
// candidate's vote count is eliminated in one round. If the prefix would
// be every active candidate (§9's open question), it falls back to
// single elimination of just the lowest entry.
func (t *tabulator) batchLosers(ascending []Allocation) []CandidateId {
	cumulative := 0
	prefixEnd := 0
	for i, a := range ascending {
		cumulative += a.Votes
		if i+1 < len(ascending) && cumulative < ascending[i+1].Votes {
			prefixEnd = i + 1
		}
	}
	if prefixEnd == 0 {
		prefixEnd = 1
	}
	if prefixEnd == len(ascending) {
		prefixEnd = 1 // batch would consume every active candidate: fall back
	}

	losers := make([]CandidateId, prefixEnd)
	for i := 0; i < prefixEnd; i++ {
		losers[i] = ascending[i].Allocatee.Candidate
	}
	return losers
}

// eliminate drops losers from the active set and computes the Transfers
// produced by advancing their ballots to the next continuing rank.
func (t *tabulator) eliminate(allocations []Allocation) []Transfer {
	losers := t.selectLosers(allocations)
	for _, l := range losers {
		delete(t.active, l)
	}

	transferTally := make(map[CandidateId]map[Allocatee]int, len(losers))
	for _, l := range losers {
		transferTally[l] = make(map[Allocatee]int)
	}

	for i, nb := range t.ballots {
		if t.cursors[i] >= len(nb.Ranking) {
			continue
		}
		c := nb.Ranking[t.cursors[i]]
		tally, wasEliminated := transferTally[c]
		if !wasEliminated {
			continue
		}
		t.advanceCursor(i)
		if t.cursors[i] >= len(nb.Ranking) {
			tally[Exhausted]++
			continue
		}
		tally[CandidateAllocatee(nb.Ranking[t.cursors[i]])]++
	}

	var transfers []Transfer
	for _, l := range losers {
		for to, votes := range transferTally[l] {
			if votes == 0 {
				continue
			}
			transfers = append(transfers, Transfer{From: l, To: to, Votes: votes})
		}
	}
	sort.Slice(transfers, func(i, j int) bool {
		if transfers[i].From != transfers[j].From {
			return transfers[i].From < transfers[j].From
		}
		return transfers[i].To.Less(transfers[j].To)
	})
	return transfers
}
