package tabulation

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/graph/core"
)

// MajorityGraph represents the "beats" relation: an edge loser -> winner
// for every pair where winner pairwise-beats loser. Keying edges by the
// loser, rather than the winner, is what makes the Smith-set fixed point
// in SmithSet a plain union-of-neighbors walk.
type MajorityGraph struct {
	g *core.Graph
}

func candidateNodeID(c CandidateId) string {
	return strconv.Itoa(int(c))
}

// BuildMajorityGraph constructs the directed majority graph from a
// pairwise preference matrix: for every ordered pair (i, j), an edge
// j -> i exists iff i beats j pairwise.
func BuildMajorityGraph(counts *PairwiseCounts, numCandidates int) *MajorityGraph {
	g := core.NewGraph(true, false)
	for c := 0; c < numCandidates; c++ {
		g.AddVertex(&core.Vertex{ID: candidateNodeID(CandidateId(c))})
	}
	for i := 0; i < numCandidates; i++ {
		for j := 0; j < numCandidates; j++ {
			if i == j {
				continue
			}
			votesIJ := counts.At(CandidateId(i), CandidateId(j))
			votesJI := counts.At(CandidateId(j), CandidateId(i))
			if votesIJ > votesJI {
				// i beats j: edge loser(j) -> winner(i)
				g.AddEdge(candidateNodeID(CandidateId(j)), candidateNodeID(CandidateId(i)), 0)
			}
		}
	}
	return &MajorityGraph{g: g}
}

// winnersOver returns every candidate that beats loser, i.e. the
// out-neighbors of loser in the loser->winner graph.
func (m *MajorityGraph) winnersOver(loser CandidateId) []CandidateId {
	neighbors := m.g.Neighbors(candidateNodeID(loser))
	out := make([]CandidateId, 0, len(neighbors))
	for _, v := range neighbors {
		id, err := strconv.Atoi(v.ID)
		if err != nil {
			panic("tabulation: majority graph vertex id is not a CandidateId: " + v.ID)
		}
		out = append(out, CandidateId(id))
	}
	return out
}

// SmithSet computes the smallest non-empty set of candidates that
// pairwise-beats every candidate outside it, per §4.3.4. The iteration
// starts from every candidate and repeatedly replaces the set with the
// union of candidates beating a member of the current set; when that
// union is empty or unchanged, the *previous* set is the fixed point —
// an empty or unchanged union means no one outside it beats its way in.
func SmithSet(graph *MajorityGraph, numCandidates int) []CandidateId {
	if numCandidates == 0 {
		return nil
	}

	last := make(map[CandidateId]bool, numCandidates)
	for c := 0; c < numCandidates; c++ {
		last[CandidateId(c)] = true
	}

	for {
		this := make(map[CandidateId]bool)
		for d := range last {
			for _, w := range graph.winnersOver(d) {
				this[w] = true
			}
		}
		if len(this) == 0 || setsEqual(this, last) {
			break
		}
		last = this
	}

	out := make([]CandidateId, 0, len(last))
	for c := range last {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func setsEqual(a, b map[CandidateId]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if !b[c] {
			return false
		}
	}
	return true
}

// CondorcetWinner returns the sole Smith-set member when |smithSet| == 1,
// per invariant 6.
func CondorcetWinner(smithSet []CandidateId) (CandidateId, bool) {
	if len(smithSet) == 1 {
		return smithSet[0], true
	}
	return 0, false
}
