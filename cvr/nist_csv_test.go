package cvr

import (
	"strings"
	"testing"

	"github.com/ranked-vote/stv.vote/tabulation"
)

func TestNistCSVReaderParsesRanksAndOvervotes(t *testing.T) {
	csv := "rank1,rank2\nAlice,Bob\nBob,undervote\nAlice,overvote\n"
	reader := NewNistCSVReader(strings.NewReader(csv), "")

	election, err := reader.ReadElection()
	if err != nil {
		t.Fatalf("ReadElection() error = %v", err)
	}
	if len(election.Candidates) != 2 {
		t.Fatalf("candidates = %v, want 2", election.Candidates)
	}
	if len(election.Ballots) != 3 {
		t.Fatalf("ballots = %d, want 3", len(election.Ballots))
	}
	if election.Ballots[2].Choices[1] != tabulation.Overvote {
		t.Errorf("third ballot rank 2 = %v, want overvote", election.Ballots[2].Choices[1])
	}
}
