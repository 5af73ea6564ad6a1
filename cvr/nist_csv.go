package cvr

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ranked-vote/stv.vote/tabulation"
)

// NistCSVReader reads a NIST SP-1500-flavored CVR export: one header row,
// which is skipped, then one data row per ballot with one column per
// rank holding either a candidate name, "undervote", or "overvote". The
// candidate vector is built from the names found in the data cells, in
// first-seen order. This is the only reader in this package implemented
// directly against the standard library: no CSV parser appears anywhere
// in the reference stack, so encoding/csv is the one ambient exception
// rather than a drop-in for a library the rest of the codebase uses.
type NistCSVReader struct {
	source     io.Reader
	writeInTag string // candidate names matching this prefix (case-insensitive) normalize to WriteIn
}

// NewNistCSVReader wraps source. writeInTag defaults to "write-in" when
// empty.
func NewNistCSVReader(source io.Reader, writeInTag string) *NistCSVReader {
	if writeInTag == "" {
		writeInTag = "write-in"
	}
	return &NistCSVReader{source: source, writeInTag: strings.ToLower(writeInTag)}
}

func (r *NistCSVReader) Format() Format { return FormatNistSP1500 }

func (r *NistCSVReader) ReadElection() (tabulation.Election, error) {
	rows, err := csv.NewReader(r.source).ReadAll()
	if err != nil {
		return tabulation.Election{}, fmt.Errorf("cvr: reading NIST SP-1500 CSV: %w", err)
	}
	if len(rows) == 0 {
		return tabulation.Election{}, nil
	}

	candidates, index := r.collectCandidates(rows[1:])
	ballots := make([]tabulation.Ballot, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ballots = append(ballots, r.parseBallot(fmt.Sprintf("ballot-%d", i+1), row, index))
	}

	return tabulation.Election{Candidates: candidates, Ballots: ballots}, nil
}

// collectCandidates scans every rank cell across every data row to build
// a dense, 0-indexed candidate vector in first-seen order, the contract
// §6 requires of format readers.
func (r *NistCSVReader) collectCandidates(dataRows [][]string) ([]tabulation.Candidate, map[string]tabulation.CandidateId) {
	var candidates []tabulation.Candidate
	index := make(map[string]tabulation.CandidateId)

	for _, row := range dataRows {
		for _, cell := range row {
			name := strings.TrimSpace(cell)
			if name == "" || isUndervoteCell(name) || isOvervoteCell(name) {
				continue
			}
			if _, seen := index[name]; seen {
				continue
			}
			candidateType := tabulation.Regular
			if strings.HasPrefix(strings.ToLower(name), r.writeInTag) {
				candidateType = tabulation.WriteIn
			}
			index[name] = tabulation.CandidateId(len(candidates))
			candidates = append(candidates, tabulation.Candidate{Name: name, CandidateType: candidateType})
		}
	}
	return candidates, index
}

func (r *NistCSVReader) parseBallot(id string, row []string, index map[string]tabulation.CandidateId) tabulation.Ballot {
	choices := make([]tabulation.Choice, 0, len(row))
	for _, cell := range row {
		name := strings.TrimSpace(cell)
		switch {
		case name == "" || isUndervoteCell(name):
			choices = append(choices, tabulation.Undervote)
		case isOvervoteCell(name):
			choices = append(choices, tabulation.Overvote)
		default:
			choices = append(choices, tabulation.Vote(index[name]))
		}
	}
	return tabulation.Ballot{ID: id, Choices: choices}
}

func isUndervoteCell(s string) bool {
	return strings.EqualFold(s, "undervote") || strings.EqualFold(s, "under vote")
}

func isOvervoteCell(s string) bool {
	return strings.EqualFold(s, "overvote") || strings.EqualFold(s, "over vote")
}
