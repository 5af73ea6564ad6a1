package tabulation

import "testing"

func TestNormalizationPolicyUnmarshalsStringVocabulary(t *testing.T) {
	data := []byte(`{
		"skip_undervote": false,
		"overvote_policy": "skip",
		"duplicate_policy": "exhaust",
		"max_rankings": 5,
		"exclude_write_ins": true
	}`)

	var policy NormalizationPolicy
	if err := policy.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if policy.SkipUndervote {
		t.Errorf("SkipUndervote = true, want false")
	}
	if policy.OvervotePolicy != OvervoteSkip {
		t.Errorf("OvervotePolicy = %v, want OvervoteSkip", policy.OvervotePolicy)
	}
	if policy.DuplicatePolicy != DuplicateExhaust {
		t.Errorf("DuplicatePolicy = %v, want DuplicateExhaust", policy.DuplicatePolicy)
	}
	if policy.MaxRankings != 5 {
		t.Errorf("MaxRankings = %d, want 5", policy.MaxRankings)
	}
	if !policy.ExcludeWriteIns {
		t.Errorf("ExcludeWriteIns = false, want true")
	}
}

func TestNormalizationPolicyRejectsUnknownKey(t *testing.T) {
	var policy NormalizationPolicy
	err := policy.UnmarshalJSON([]byte(`{"skip_undervote": true, "bogus_key": 1}`))
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestNormalizationPolicyRejectsUnknownOvervotePolicy(t *testing.T) {
	var policy NormalizationPolicy
	err := policy.UnmarshalJSON([]byte(`{"overvote_policy": "spoil"}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized overvote_policy value")
	}
}

func TestTabulationOptionsUnmarshalsStringVocabulary(t *testing.T) {
	data := []byte(`{
		"tie_break_mode": "use_permutation",
		"candidate_permutation": [2, 0, 1],
		"batch_elimination": true,
		"winning_threshold": "plurality_final_two",
		"exhaust_on_overvote": true
	}`)

	var opts TabulationOptions
	if err := opts.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if opts.TieBreakMode != UsePermutation {
		t.Errorf("TieBreakMode = %v, want UsePermutation", opts.TieBreakMode)
	}
	want := []CandidateId{2, 0, 1}
	if !intsEqual(opts.CandidatePermutation, want) {
		t.Errorf("CandidatePermutation = %v, want %v", opts.CandidatePermutation, want)
	}
	if !opts.BatchElimination {
		t.Errorf("BatchElimination = false, want true")
	}
	if opts.WinningThreshold != PluralityFinalTwo {
		t.Errorf("WinningThreshold = %v, want PluralityFinalTwo", opts.WinningThreshold)
	}
	if !opts.ExhaustOnOvervote {
		t.Errorf("ExhaustOnOvervote = false, want true")
	}
}

func TestTabulationOptionsRejectsUnknownKey(t *testing.T) {
	var opts TabulationOptions
	err := opts.UnmarshalJSON([]byte(`{"winning_threshold": "majority", "bogus_key": true}`))
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestTabulationOptionsRejectsUnknownTieBreakMode(t *testing.T) {
	var opts TabulationOptions
	err := opts.UnmarshalJSON([]byte(`{"tie_break_mode": "coin_flip"}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized tie_break_mode value")
	}
}
