// Package config loads contest configuration from YAML files into the
// tabulation and normalization option structs that are the sole inputs
// configuring core tabulation behavior.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ranked-vote/stv.vote/tabulation"
)

// ContestConfig is the on-disk shape of one contest's configuration.
// Unknown keys are a load-time error, per the "treat unknown option
// names as an error at load time" external-interface contract.
type ContestConfig struct {
	Office           string `yaml:"office"`
	OfficeName       string `yaml:"office_name"`
	Name             string `yaml:"name"`
	Date             string `yaml:"date"`
	JurisdictionPath string `yaml:"jurisdiction_path"`
	ElectionPath     string `yaml:"election_path"`
	JurisdictionName string `yaml:"jurisdiction_name"`
	ElectionName     string `yaml:"election_name"`
	DataFormat       string `yaml:"data_format"`

	Normalization normalizationYAML `yaml:"normalization"`
	Tabulation    tabulationYAML    `yaml:"tabulation_options"`
}

type normalizationYAML struct {
	SkipUndervote   *bool  `yaml:"skip_undervote"`
	OvervotePolicy  string `yaml:"overvote_policy"`
	DuplicatePolicy string `yaml:"duplicate_policy"`
	MaxRankings     int    `yaml:"max_rankings"`
	ExcludeWriteIns bool   `yaml:"exclude_write_ins"`
}

type tabulationYAML struct {
	TieBreakMode         string `yaml:"tie_break_mode"`
	CandidatePermutation []int  `yaml:"candidate_permutation"`
	BatchElimination     bool   `yaml:"batch_elimination"`
	WinningThreshold     string `yaml:"winning_threshold"`
	ExhaustOnOvervote    bool   `yaml:"exhaust_on_overvote"`
}

// Load reads and strictly decodes a contest configuration file,
// rejecting unknown keys so a typo in a contest's YAML fails fast
// rather than silently falling back to a default.
func Load(path string) (ContestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ContestConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse strictly decodes config YAML from an in-memory buffer.
func Parse(data []byte) (ContestConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg ContestConfig
	if err := decoder.Decode(&cfg); err != nil {
		return ContestConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NormalizationPolicy builds a tabulation.NormalizationPolicy from the
// decoded YAML, applying defaults for unset fields.
func (c ContestConfig) NormalizationPolicy() (tabulation.NormalizationPolicy, error) {
	policy := tabulation.DefaultNormalizationPolicy()
	n := c.Normalization

	if n.SkipUndervote != nil {
		policy.SkipUndervote = *n.SkipUndervote
	}
	if n.OvervotePolicy != "" {
		switch n.OvervotePolicy {
		case "exhaust":
			policy.OvervotePolicy = tabulation.OvervoteExhaust
		case "skip":
			policy.OvervotePolicy = tabulation.OvervoteSkip
		default:
			return policy, fmt.Errorf("config: unknown overvote_policy %q", n.OvervotePolicy)
		}
	}
	if n.DuplicatePolicy != "" {
		switch n.DuplicatePolicy {
		case "skip":
			policy.DuplicatePolicy = tabulation.DuplicateSkip
		case "exhaust":
			policy.DuplicatePolicy = tabulation.DuplicateExhaust
		default:
			return policy, fmt.Errorf("config: unknown duplicate_policy %q", n.DuplicatePolicy)
		}
	}
	policy.MaxRankings = n.MaxRankings
	policy.ExcludeWriteIns = n.ExcludeWriteIns
	return policy, nil
}

// TabulationOptions builds a tabulation.TabulationOptions from the
// decoded YAML, applying defaults for unset fields.
func (c ContestConfig) TabulationOptions() (tabulation.TabulationOptions, error) {
	opts := tabulation.DefaultTabulationOptions()
	o := c.Tabulation

	if o.TieBreakMode != "" {
		switch o.TieBreakMode {
		case "use_permutation":
			opts.TieBreakMode = tabulation.UsePermutation
		case "random_stable_hash":
			opts.TieBreakMode = tabulation.RandomStableHash
		case "lexicographic_by_id":
			opts.TieBreakMode = tabulation.LexicographicByID
		default:
			return opts, fmt.Errorf("config: unknown tie_break_mode %q", o.TieBreakMode)
		}
	}
	if opts.TieBreakMode == tabulation.UsePermutation && len(o.CandidatePermutation) == 0 {
		return opts, fmt.Errorf("config: tie_break_mode = use_permutation requires candidate_permutation")
	}
	if len(o.CandidatePermutation) > 0 {
		perm := make([]tabulation.CandidateId, len(o.CandidatePermutation))
		for i, id := range o.CandidatePermutation {
			perm[i] = tabulation.CandidateId(id)
		}
		opts.CandidatePermutation = perm
	}
	opts.BatchElimination = o.BatchElimination
	opts.ExhaustOnOvervote = o.ExhaustOnOvervote

	if o.WinningThreshold != "" {
		switch o.WinningThreshold {
		case "majority":
			opts.WinningThreshold = tabulation.Majority
		case "plurality_final_two":
			opts.WinningThreshold = tabulation.PluralityFinalTwo
		default:
			return opts, fmt.Errorf("config: unknown winning_threshold %q", o.WinningThreshold)
		}
	}
	return opts, nil
}
