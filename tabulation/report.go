package tabulation

import "sort"

// ElectionInfo carries the passthrough metadata fields §6 lists under
// "info" — office, jurisdiction, election, data format. The tabulation
// options used for a run are not carried here.
// The tabulation package does not interpret any of these; it only
// threads them into the assembled ContestReport.
type ElectionInfo struct {
	Office           string `json:"office"`
	OfficeName       string `json:"office_name"`
	Name             string `json:"name"`
	Date             string `json:"date"`
	JurisdictionPath string `json:"jurisdiction_path"`
	ElectionPath     string `json:"election_path"`
	JurisdictionName string `json:"jurisdiction_name"`
	ElectionName     string `json:"election_name"`
	DataFormat       string `json:"data_format"`
}

// ElectionPreprocessed is the input to GenerateReport: election metadata
// plus the ballots already reduced by Normalize.
type ElectionPreprocessed struct {
	Info       ElectionInfo
	Candidates []Candidate
	Ballots    []NormalizedBallot
	Options    TabulationOptions
}

// ContestReport is the full analytical output of §4.4, combining the
// round history with every §4.3 sub-analysis.
type ContestReport struct {
	Info                 ElectionInfo
	BallotCount          int
	Candidates           []Candidate
	Winner               Allocatee
	HasWinner            bool
	NumCandidates        int
	Rounds               []TabulatorRound
	TotalVotes           []CandidateTotal
	PairwisePreferences  PreferenceMatrix
	FirstAlternate       TransferMatrix
	FirstFinal           TransferMatrix
	RankingDistribution  RankingDistribution
	SmithSet             []CandidateId
	Condorcet            CandidateId
	HasCondorcet         bool
}

// GenerateReport implements §4.4. An empty ballot set short-circuits to
// a skeleton report with zero counts and empty tables, per the
// empty-input clause of §7.
func GenerateReport(input ElectionPreprocessed) ContestReport {
	numCandidates := len(input.Candidates)
	report := ContestReport{
		Info:          input.Info,
		BallotCount:   len(input.Ballots),
		Candidates:    input.Candidates,
		NumCandidates: countNonWriteIns(input.Candidates),
	}

	if len(input.Ballots) == 0 {
		report.PairwisePreferences = PairwisePreferencesTable(newPairwiseCounts(numCandidates), numCandidates)
		report.FirstAlternate = FirstToAlternateMatrix(nil, numCandidates)
		report.FirstFinal = FirstToFinalMatrix(nil, nil, numCandidates)
		report.RankingDistribution = ComputeRankingDistribution(nil)
		report.SmithSet = SmithSet(BuildMajorityGraph(newPairwiseCounts(numCandidates), numCandidates), numCandidates)
		return report
	}

	rounds := Tabulate(input.Ballots, numCandidates, input.Options)
	report.Rounds = rounds
	report.TotalVotes = SortedByCandidateID(TotalVotes(rounds, numCandidates))

	counts := ComputePairwiseCounts(input.Ballots, numCandidates)
	report.PairwisePreferences = PairwisePreferencesTable(counts, numCandidates)

	graph := BuildMajorityGraph(counts, numCandidates)
	report.SmithSet = SmithSet(graph, numCandidates)
	if winner, ok := CondorcetWinner(report.SmithSet); ok {
		report.Condorcet = winner
		report.HasCondorcet = true
	}

	report.FirstAlternate = FirstToAlternateMatrix(input.Ballots, numCandidates)
	finalRoundCandidates := activeCandidates(rounds[len(rounds)-1])
	report.FirstFinal = FirstToFinalMatrix(input.Ballots, finalRoundCandidates, numCandidates)
	report.RankingDistribution = ComputeRankingDistribution(input.Ballots)

	if len(rounds) > 0 {
		top := rounds[len(rounds)-1].Allocations[0]
		if top.Allocatee.Kind == AllocateeCandidate {
			report.Winner = top.Allocatee
			report.HasWinner = true
		}
	}

	return report
}

func countNonWriteIns(candidates []Candidate) int {
	n := 0
	for _, c := range candidates {
		if c.CandidateType != WriteIn {
			n++
		}
	}
	return n
}

func activeCandidates(final TabulatorRound) []CandidateId {
	var out []CandidateId
	for _, a := range final.Allocations {
		if a.Allocatee.Kind == AllocateeCandidate {
			out = append(out, a.Allocatee.Candidate)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Deterministic reports whether two ContestReports produced from
// identical inputs agree on ballot and candidate counts, winner,
// Condorcet winner, Smith set order, and every round's allocations and
// transfers in order, implementing the self-check behind
// tabulate --verify-deterministic: running the pipeline twice and
// diffing the results. Total votes, the pairwise and transfer matrices,
// and the ranking distribution are not compared.
func Deterministic(a, b ContestReport) bool {
	if a.BallotCount != b.BallotCount || a.NumCandidates != b.NumCandidates {
		return false
	}
	if a.HasWinner != b.HasWinner || a.Winner != b.Winner {
		return false
	}
	if a.HasCondorcet != b.HasCondorcet || a.Condorcet != b.Condorcet {
		return false
	}
	if !equalSmithSets(a.SmithSet, b.SmithSet) {
		return false
	}
	if len(a.Rounds) != len(b.Rounds) {
		return false
	}
	for i := range a.Rounds {
		if !equalRounds(a.Rounds[i], b.Rounds[i]) {
			return false
		}
	}
	return true
}

func equalSmithSets(a, b []CandidateId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalRounds(a, b TabulatorRound) bool {
	if a.RoundNumber != b.RoundNumber || len(a.Allocations) != len(b.Allocations) || len(a.Transfers) != len(b.Transfers) {
		return false
	}
	for i := range a.Allocations {
		if a.Allocations[i] != b.Allocations[i] {
			return false
		}
	}
	for i := range a.Transfers {
		if a.Transfers[i] != b.Transfers[i] {
			return false
		}
	}
	return true
}
