package tabulation

// Normalize reduces every raw Ballot in election to a NormalizedBallot
// under policy. It is a pure, total function: malformed CandidateIds are
// a caller bug and panic rather than propagate as an error, per the
// contract in §4.1.
func Normalize(election Election, policy NormalizationPolicy) []NormalizedBallot {
	out := make([]NormalizedBallot, len(election.Ballots))
	for i, b := range election.Ballots {
		out[i] = normalizeBallot(b, election.Candidates, policy)
	}
	return out
}

func normalizeBallot(b Ballot, candidates []Candidate, policy NormalizationPolicy) NormalizedBallot {
	seen := make(map[CandidateId]bool)
	ranking := make([]CandidateId, 0, len(b.Choices))
	exhaustedByOvervote := false
	exhaustedByUndervote := false

choices:
	for _, choice := range b.Choices {
		if policy.MaxRankings > 0 && len(ranking) >= policy.MaxRankings {
			break
		}

		switch choice.Kind {
		case ChoiceUndervote:
			if policy.SkipUndervote {
				continue
			}
			exhaustedByUndervote = true
			break choices

		case ChoiceOvervote:
			if policy.OvervotePolicy == OvervoteSkip {
				continue
			}
			exhaustedByOvervote = true
			break choices

		case ChoiceVote:
			c := choice.Candidate
			if int(c) < 0 || int(c) >= len(candidates) {
				panic("tabulation: ballot references invalid CandidateId")
			}
			if policy.ExcludeWriteIns && candidates[c].CandidateType == WriteIn {
				if policy.SkipUndervote {
					continue
				}
				exhaustedByUndervote = true
				break choices
			}
			if seen[c] {
				if policy.DuplicatePolicy == DuplicateExhaust {
					break choices
				}
				continue
			}
			seen[c] = true
			ranking = append(ranking, c)
		}
	}

	return NormalizedBallot{
		BallotID:             b.ID,
		Ranking:              ranking,
		ExhaustedByOvervote:  exhaustedByOvervote,
		ExhaustedByUndervote: exhaustedByUndervote,
	}
}
