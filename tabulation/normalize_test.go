package tabulation

import "testing"

func TestNormalizeSkipsUndervoteAndDuplicate(t *testing.T) {
	candidates := []Candidate{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	ballot := Ballot{ID: "1", Choices: []Choice{
		Vote(0), Undervote, Vote(0), Vote(1),
	}}

	got := Normalize(Election{Candidates: candidates, Ballots: []Ballot{ballot}}, DefaultNormalizationPolicy())[0]

	want := []CandidateId{0, 1}
	if !intsEqual(got.Ranking, want) {
		t.Errorf("Ranking = %v, want %v", got.Ranking, want)
	}
}

func TestNormalizeExhaustsOnOvervoteByDefault(t *testing.T) {
	candidates := []Candidate{{Name: "A"}, {Name: "B"}}
	ballot := Ballot{ID: "1", Choices: []Choice{Vote(0), Overvote, Vote(1)}}

	got := Normalize(Election{Candidates: candidates, Ballots: []Ballot{ballot}}, DefaultNormalizationPolicy())[0]

	if !got.ExhaustedByOvervote {
		t.Errorf("expected ExhaustedByOvervote under default overvote_policy = exhaust")
	}
	if !intsEqual(got.Ranking, []CandidateId{0}) {
		t.Errorf("Ranking = %v, want [0]", got.Ranking)
	}
}

func TestNormalizeExcludesWriteIns(t *testing.T) {
	candidates := []Candidate{{Name: "A"}, {Name: "Write-in", CandidateType: WriteIn}}
	ballot := Ballot{ID: "1", Choices: []Choice{Vote(1), Vote(0)}}

	policy := DefaultNormalizationPolicy()
	policy.ExcludeWriteIns = true
	got := Normalize(Election{Candidates: candidates, Ballots: []Ballot{ballot}}, policy)[0]

	if !intsEqual(got.Ranking, []CandidateId{0}) {
		t.Errorf("Ranking = %v, want [0] (write-in at rank 1 treated as undervote)", got.Ranking)
	}
}

func TestNormalizeExcludedWriteInExhaustsWhenUndervoteNotSkipped(t *testing.T) {
	candidates := []Candidate{{Name: "A"}, {Name: "Write-in", CandidateType: WriteIn}, {Name: "C"}}
	ballot := Ballot{ID: "1", Choices: []Choice{Vote(1), Vote(2)}}

	policy := DefaultNormalizationPolicy()
	policy.ExcludeWriteIns = true
	policy.SkipUndervote = false
	got := Normalize(Election{Candidates: candidates, Ballots: []Ballot{ballot}}, policy)[0]

	if !got.ExhaustedByUndervote {
		t.Errorf("expected ExhaustedByUndervote when a write-in is excluded and skip_undervote is false")
	}
	if !intsEqual(got.Ranking, nil) {
		t.Errorf("Ranking = %v, want empty: the excluded write-in should exhaust the ballot, not skip to C", got.Ranking)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	candidates := []Candidate{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	ballot := Ballot{ID: "1", Choices: []Choice{Vote(2), Undervote, Vote(0), Vote(2), Vote(1)}}
	policy := DefaultNormalizationPolicy()

	first := Normalize(Election{Candidates: candidates, Ballots: []Ballot{ballot}}, policy)[0]

	rewrapped := make([]Choice, len(first.Ranking))
	for i, c := range first.Ranking {
		rewrapped[i] = Vote(c)
	}
	second := Normalize(Election{Candidates: candidates, Ballots: []Ballot{{ID: "1", Choices: rewrapped}}}, policy)[0]

	if !intsEqual(first.Ranking, second.Ranking) {
		t.Errorf("normalization not idempotent: first=%v second=%v", first.Ranking, second.Ranking)
	}
}

func intsEqual(a, b []CandidateId) bool {
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
