package tabulation

// RankingDistribution implements §4.3.7. Ballots normalized to an empty
// ranking (pure overvote/undervote input) are excluded from every count
// here, per §9's answer to that open question.
type RankingDistribution struct {
	OverallDistribution    map[int]int
	CandidateDistributions map[CandidateId]map[int]int
	CandidateTotals        map[CandidateId]int
	TotalBallots           int
}

func ComputeRankingDistribution(ballots []NormalizedBallot) RankingDistribution {
	d := RankingDistribution{
		OverallDistribution:    make(map[int]int),
		CandidateDistributions: make(map[CandidateId]map[int]int),
		CandidateTotals:        make(map[CandidateId]int),
	}

	for _, nb := range ballots {
		length := len(nb.Ranking)
		if length == 0 {
			continue
		}
		d.TotalBallots++
		d.OverallDistribution[length]++

		first := nb.Ranking[0]
		d.CandidateTotals[first]++
		if d.CandidateDistributions[first] == nil {
			d.CandidateDistributions[first] = make(map[int]int)
		}
		d.CandidateDistributions[first][length]++
	}

	return d
}
