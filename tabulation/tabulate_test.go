package tabulation

import (
	"strconv"
	"testing"
)

func ballotsOf(rankings ...[]CandidateId) []NormalizedBallot {
	out := make([]NormalizedBallot, len(rankings))
	for i, r := range rankings {
		out[i] = NormalizedBallot{BallotID: strconv.Itoa(i), Ranking: r}
	}
	return out
}

func repeat(n int, ranking []CandidateId) [][]CandidateId {
	out := make([][]CandidateId, n)
	for i := range out {
		out[i] = ranking
	}
	return out
}

func flatten(groups ...[][]CandidateId) [][]CandidateId {
	var out [][]CandidateId
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

const (
	A CandidateId = iota
	B
	C
	D
)

func TestTabulateS1PluralityWithoutTransfers(t *testing.T) {
	rankings := flatten(
		repeat(5, []CandidateId{A}),
		repeat(3, []CandidateId{B}),
		repeat(2, []CandidateId{C}),
	)
	rounds := Tabulate(ballotsOf(rankings...), 3, DefaultTabulationOptions())

	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if v := voteByCandidate(rounds[0])[A]; v != 5 {
		t.Errorf("round 1 A votes = %d, want 5", v)
	}
	final := rounds[len(rounds)-1]
	top := final.Allocations[0]
	if top.Allocatee != CandidateAllocatee(A) || top.Votes != 5 {
		t.Errorf("round 2 winner allocation = %+v, want A=5", top)
	}
}

func TestTabulateS2FullTransferCascade(t *testing.T) {
	rankings := flatten(
		repeat(4, []CandidateId{A, B}),
		repeat(3, []CandidateId{B, C}),
		repeat(2, []CandidateId{C, B}),
	)
	rounds := Tabulate(ballotsOf(rankings...), 3, DefaultTabulationOptions())

	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	round2 := rounds[1]
	if len(round2.Transfers) != 1 {
		t.Fatalf("expected 1 transfer in round 2, got %d: %+v", len(round2.Transfers), round2.Transfers)
	}
	want := Transfer{From: C, To: CandidateAllocatee(B), Votes: 2}
	if round2.Transfers[0] != want {
		t.Errorf("transfer = %+v, want %+v", round2.Transfers[0], want)
	}
	if v := voteByCandidate(round2)[B]; v != 5 {
		t.Errorf("round 2 B votes = %d, want 5", v)
	}
}

func TestTabulateS3CondorcetLoserWinsIRV(t *testing.T) {
	rankings := flatten(
		repeat(4, []CandidateId{A, C, B}),
		repeat(3, []CandidateId{B, C, A}),
		repeat(2, []CandidateId{C, A, B}),
	)
	ballots := ballotsOf(rankings...)
	rounds := Tabulate(ballots, 3, DefaultTabulationOptions())

	final := rounds[len(rounds)-1]
	winner := final.Allocations[0].Allocatee

	counts := ComputePairwiseCounts(ballots, 3)
	graph := BuildMajorityGraph(counts, 3)
	smithSet := SmithSet(graph, 3)
	condorcet, ok := CondorcetWinner(smithSet)

	if winner != CandidateAllocatee(A) {
		t.Errorf("IRV winner = %+v, want A", winner)
	}
	if !ok || condorcet != C {
		t.Errorf("condorcet = %v (ok=%v), want C", condorcet, ok)
	}
	if winner == CandidateAllocatee(condorcet) {
		t.Errorf("expected IRV winner to differ from condorcet winner")
	}
}

func TestTabulateS4Exhaustion(t *testing.T) {
	rankings := flatten(
		repeat(3, []CandidateId{A}),
		repeat(3, []CandidateId{B}),
		repeat(2, []CandidateId{C}),
	)
	opts := DefaultTabulationOptions()
	opts.WinningThreshold = PluralityFinalTwo
	rounds := Tabulate(ballotsOf(rankings...), 3, opts)

	final := rounds[len(rounds)-1]
	if final.Allocations[0].Allocatee != CandidateAllocatee(A) {
		t.Errorf("final round winner = %+v, want A (lexicographic tie-break)", final.Allocations[0].Allocatee)
	}
}

func TestRankingDistributionS5(t *testing.T) {
	ballots := ballotsOf(
		[]CandidateId{A}, []CandidateId{A},
		[]CandidateId{A, B},
		[]CandidateId{B, A},
		[]CandidateId{B},
	)
	d := ComputeRankingDistribution(ballots)

	if d.TotalBallots != 5 {
		t.Errorf("total_ballots = %d, want 5", d.TotalBallots)
	}
	if d.OverallDistribution[1] != 3 || d.OverallDistribution[2] != 2 {
		t.Errorf("overall_distribution = %v, want {1:3, 2:2}", d.OverallDistribution)
	}
	if d.CandidateTotals[A] != 3 || d.CandidateTotals[B] != 2 {
		t.Errorf("candidate_totals = %v, want {A:3, B:2}", d.CandidateTotals)
	}
	if d.CandidateDistributions[A][1] != 2 || d.CandidateDistributions[A][2] != 1 {
		t.Errorf("candidate_distributions[A] = %v, want {1:2, 2:1}", d.CandidateDistributions[A])
	}
}

func TestBatchEliminationS6(t *testing.T) {
	rankings := flatten(
		repeat(10, []CandidateId{A}),
		repeat(3, []CandidateId{B}),
		repeat(2, []CandidateId{C}),
		repeat(1, []CandidateId{D}),
	)
	opts := DefaultTabulationOptions()
	opts.BatchElimination = true
	// A holds 10 of 16 votes, so under the majority threshold round 1
	// would already be terminal and no elimination would take place.
	opts.WinningThreshold = PluralityFinalTwo
	rounds := Tabulate(ballotsOf(rankings...), 4, opts)

	if len(rounds) != 2 {
		t.Fatalf("expected batch elimination to finish in 2 rounds, got %d", len(rounds))
	}
	if len(rounds[1].Transfers) == 0 {
		t.Fatalf("expected round 2 to record transfers from the batch-eliminated candidates")
	}
	eliminated := make(map[CandidateId]bool)
	for _, tr := range rounds[1].Transfers {
		eliminated[tr.From] = true
	}
	for _, c := range []CandidateId{B, C, D} {
		if !eliminated[c] {
			t.Errorf("expected %v to be batch-eliminated in round 2", c)
		}
	}
}

func TestUniversalProperty1ConservationOfVotes(t *testing.T) {
	rankings := flatten(
		repeat(4, []CandidateId{A, B}),
		repeat(3, []CandidateId{B, C}),
		repeat(2, []CandidateId{C}),
	)
	rounds := Tabulate(ballotsOf(rankings...), 3, DefaultTabulationOptions())

	for _, r := range rounds {
		total := 0
		for _, a := range r.Allocations {
			total += a.Votes
		}
		if total != 9 {
			t.Errorf("round %d: sum of allocation votes = %d, want 9", r.RoundNumber, total)
		}
	}
}

func TestZeroBallotsProduceNoRounds(t *testing.T) {
	if rounds := Tabulate(nil, 3, DefaultTabulationOptions()); rounds != nil {
		t.Errorf("expected nil rounds for zero ballots, got %v", rounds)
	}
}
