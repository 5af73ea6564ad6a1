package config

import (
	"testing"

	"github.com/ranked-vote/stv.vote/tabulation"
)

func TestParseAppliesDefaultsForUnsetFields(t *testing.T) {
	cfg, err := Parse([]byte(`
name: "City Council"
data_format: nist_sp_1500
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	policy, err := cfg.NormalizationPolicy()
	if err != nil {
		t.Fatalf("NormalizationPolicy() error = %v", err)
	}
	if policy.OvervotePolicy != tabulation.OvervoteExhaust {
		t.Errorf("OvervotePolicy = %v, want OvervoteExhaust default", policy.OvervotePolicy)
	}

	opts, err := cfg.TabulationOptions()
	if err != nil {
		t.Fatalf("TabulationOptions() error = %v", err)
	}
	if opts.TieBreakMode != tabulation.LexicographicByID {
		t.Errorf("TieBreakMode = %v, want LexicographicByID default", opts.TieBreakMode)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
name: "City Council"
bogus_key: true
`))
	if err == nil {
		t.Fatal("expected an error for an unknown top-level key")
	}
}

func TestTabulationOptionsRequiresPermutationWhenConfigured(t *testing.T) {
	cfg, err := Parse([]byte(`
tabulation_options:
  tie_break_mode: use_permutation
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := cfg.TabulationOptions(); err == nil {
		t.Fatal("expected an error when use_permutation is set without candidate_permutation")
	}
}
