package tabulation

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// allocateeJSON is the tagged-object wire shape §6 specifies for
// Allocatee: {"kind":"candidate","id":N} or {"kind":"exhausted"}.
type allocateeJSON struct {
	Kind string `json:"kind"`
	ID   *int   `json:"id,omitempty"`
}

func (a Allocatee) MarshalJSON() ([]byte, error) {
	if a.Kind == AllocateeExhausted {
		return json.Marshal(allocateeJSON{Kind: "exhausted"})
	}
	id := int(a.Candidate)
	return json.Marshal(allocateeJSON{Kind: "candidate", ID: &id})
}

func (a *Allocatee) UnmarshalJSON(data []byte) error {
	var raw allocateeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind == "exhausted" {
		*a = Exhausted
		return nil
	}
	if raw.ID == nil {
		return MessageError(ErrInvalid, "allocatee of kind \"candidate\" is missing \"id\"")
	}
	*a = CandidateAllocatee(CandidateId(*raw.ID))
	return nil
}

type choiceJSON struct {
	Kind      string `json:"kind"`
	Candidate *int   `json:"candidate,omitempty"`
}

func (c Choice) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ChoiceUndervote:
		return json.Marshal(choiceJSON{Kind: "undervote"})
	case ChoiceOvervote:
		return json.Marshal(choiceJSON{Kind: "overvote"})
	default:
		id := int(c.Candidate)
		return json.Marshal(choiceJSON{Kind: "vote", Candidate: &id})
	}
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	var raw choiceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "undervote":
		*c = Undervote
	case "overvote":
		*c = Overvote
	case "vote":
		if raw.Candidate == nil {
			return MessageError(ErrInvalid, "choice of kind \"vote\" is missing \"candidate\"")
		}
		*c = Vote(CandidateId(*raw.Candidate))
	default:
		return MessageErrorf(ErrInvalid, "unknown choice kind %q", raw.Kind)
	}
	return nil
}

func (t CandidateType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CandidateType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "regular":
		*t = Regular
	case "write_in":
		*t = WriteIn
	case "qualified_write_in":
		*t = QualifiedWriteIn
	default:
		return MessageErrorf(ErrInvalid, "unknown candidate_type %q", s)
	}
	return nil
}

func (p OvervotePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *OvervotePolicy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "exhaust":
		*p = OvervoteExhaust
	case "skip":
		*p = OvervoteSkip
	default:
		return MessageErrorf(ErrInvalid, "unknown overvote_policy %q", s)
	}
	return nil
}

func (p DuplicatePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *DuplicatePolicy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "skip":
		*p = DuplicateSkip
	case "exhaust":
		*p = DuplicateExhaust
	default:
		return MessageErrorf(ErrInvalid, "unknown duplicate_policy %q", s)
	}
	return nil
}

func (m TieBreakMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *TieBreakMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "use_permutation":
		*m = UsePermutation
	case "random_stable_hash":
		*m = RandomStableHash
	case "lexicographic_by_id":
		*m = LexicographicByID
	default:
		return MessageErrorf(ErrInvalid, "unknown tie_break_mode %q", s)
	}
	return nil
}

func (w WinningThreshold) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *WinningThreshold) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "majority":
		*w = Majority
	case "plurality_final_two":
		*w = PluralityFinalTwo
	default:
		return MessageErrorf(ErrInvalid, "unknown winning_threshold %q", s)
	}
	return nil
}

// normalizationPolicyAlias lets UnmarshalJSON decode NormalizationPolicy's
// own fields (including their tagged-string sub-values) while still
// rejecting keys outside that set.
type normalizationPolicyAlias NormalizationPolicy

func (p *NormalizationPolicy) UnmarshalJSON(data []byte) error {
	var aux normalizationPolicyAlias
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return MessageErrorf(ErrInvalid, "decoding normalization policy: %v", err)
	}
	*p = NormalizationPolicy(aux)
	return nil
}

type tabulationOptionsAlias TabulationOptions

func (o *TabulationOptions) UnmarshalJSON(data []byte) error {
	var aux tabulationOptionsAlias
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return MessageErrorf(ErrInvalid, "decoding tabulation options: %v", err)
	}
	*o = TabulationOptions(aux)
	return nil
}

type allocationJSON struct {
	Allocatee Allocatee `json:"allocatee"`
	Votes     int       `json:"votes"`
}

type transferJSON struct {
	From  CandidateId `json:"from"`
	To    Allocatee   `json:"to"`
	Votes int         `json:"votes"`
}

type roundJSON struct {
	Allocations []allocationJSON `json:"allocations"`
	Transfers   []transferJSON   `json:"transfers"`
}

func (r TabulatorRound) MarshalJSON() ([]byte, error) {
	out := roundJSON{
		Allocations: make([]allocationJSON, len(r.Allocations)),
		Transfers:   make([]transferJSON, len(r.Transfers)),
	}
	for i, a := range r.Allocations {
		out.Allocations[i] = allocationJSON{Allocatee: a.Allocatee, Votes: a.Votes}
	}
	for i, t := range r.Transfers {
		out.Transfers[i] = transferJSON{From: t.From, To: t.To, Votes: t.Votes}
	}
	return json.Marshal(out)
}

type totalVotesJSON struct {
	Candidate       CandidateId `json:"candidate"`
	FirstRoundVotes int         `json:"first_round_votes"`
	TransferVotes   int         `json:"transfer_votes"`
	RoundEliminated *int        `json:"round_eliminated,omitempty"`
}

func (c CandidateTotal) MarshalJSON() ([]byte, error) {
	out := totalVotesJSON{
		Candidate:       c.Candidate,
		FirstRoundVotes: c.FirstRoundVotes,
		TransferVotes:   c.TransferVotes,
	}
	if c.HasRoundEliminated {
		out.RoundEliminated = &c.RoundEliminated
	}
	return json.Marshal(out)
}

type matrixJSON struct {
	Entries [][]*PreferenceEntry `json:"entries"`
	Rows    []CandidateId        `json:"rows"`
	Cols    []CandidateId        `json:"cols"`
}

func (m PreferenceMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(matrixJSON{Entries: m.Entries, Rows: m.Rows, Cols: m.Cols})
}

type transferMatrixJSON struct {
	Entries [][]int       `json:"entries"`
	Rows    []CandidateId `json:"rows"`
	Cols    []Allocatee   `json:"cols"`
}

func (m TransferMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferMatrixJSON{Entries: m.Entries, Rows: m.Rows, Cols: m.Cols})
}

type rankingDistributionJSON struct {
	OverallDistribution    map[string]int            `json:"overall_distribution"`
	CandidateDistributions map[string]map[string]int `json:"candidate_distributions"`
	CandidateTotals        map[string]int            `json:"candidate_totals"`
	TotalBallots           int                       `json:"total_ballots"`
}

func (d RankingDistribution) MarshalJSON() ([]byte, error) {
	out := rankingDistributionJSON{
		OverallDistribution:    make(map[string]int, len(d.OverallDistribution)),
		CandidateDistributions: make(map[string]map[string]int, len(d.CandidateDistributions)),
		CandidateTotals:        make(map[string]int, len(d.CandidateTotals)),
		TotalBallots:           d.TotalBallots,
	}
	for length, count := range d.OverallDistribution {
		out.OverallDistribution[strconv.Itoa(length)] = count
	}
	for cid, byLength := range d.CandidateDistributions {
		m := make(map[string]int, len(byLength))
		for length, count := range byLength {
			m[strconv.Itoa(length)] = count
		}
		out.CandidateDistributions[strconv.Itoa(int(cid))] = m
	}
	for cid, total := range d.CandidateTotals {
		out.CandidateTotals[strconv.Itoa(int(cid))] = total
	}
	return json.Marshal(out)
}

type contestReportJSON struct {
	Info                 ElectionInfo         `json:"info"`
	BallotCount          int                  `json:"ballot_count"`
	Candidates           []Candidate          `json:"candidates"`
	Winner               *Allocatee           `json:"winner"`
	NumCandidates        int                  `json:"num_candidates"`
	Rounds               []TabulatorRound     `json:"rounds"`
	TotalVotes           []CandidateTotal     `json:"total_votes"`
	PairwisePreferences  PreferenceMatrix     `json:"pairwise_preferences"`
	FirstAlternate       TransferMatrix       `json:"first_alternate"`
	FirstFinal           TransferMatrix       `json:"first_final"`
	RankingDistribution  RankingDistribution  `json:"ranking_distribution"`
	SmithSet             []CandidateId        `json:"smith_set"`
	Condorcet            *CandidateId         `json:"condorcet"`
}

// MarshalJSON produces the stable outbound shape of §6.
func (r ContestReport) MarshalJSON() ([]byte, error) {
	out := contestReportJSON{
		Info:                r.Info,
		BallotCount:         r.BallotCount,
		Candidates:          r.Candidates,
		NumCandidates:       r.NumCandidates,
		Rounds:              r.Rounds,
		TotalVotes:          r.TotalVotes,
		PairwisePreferences: r.PairwisePreferences,
		FirstAlternate:      r.FirstAlternate,
		FirstFinal:          r.FirstFinal,
		RankingDistribution: r.RankingDistribution,
		SmithSet:            r.SmithSet,
	}
	if r.HasWinner {
		w := r.Winner
		out.Winner = &w
	}
	if r.HasCondorcet {
		c := r.Condorcet
		out.Condorcet = &c
	}
	if out.Rounds == nil {
		out.Rounds = []TabulatorRound{}
	}
	if out.TotalVotes == nil {
		out.TotalVotes = []CandidateTotal{}
	}
	if out.SmithSet == nil {
		out.SmithSet = []CandidateId{}
	}
	return json.Marshal(out)
}
