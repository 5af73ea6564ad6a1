// Package tabulation implements ballot normalization, instant-runoff
// tabulation, and analytical report generation for a single contest.
//
// Every type here is immutable once constructed; the package never holds
// global state and every exported function is pure given its inputs, so a
// caller running many contests concurrently needs nothing beyond giving
// each goroutine its own Election.
package tabulation

// CandidateId is a dense, 0-indexed position into an Election's candidate
// vector. It carries no meaning outside the contest it was built for.
type CandidateId int

// CandidateType distinguishes regular candidates from write-ins.
// QualifiedWriteIn is a write-in that met a jurisdiction's qualification
// threshold and is treated as a regular candidate everywhere except in
// its own label; exclude_write_ins in NormalizationPolicy only ever
// strips WriteIn, never QualifiedWriteIn.
type CandidateType int

const (
	Regular CandidateType = iota
	WriteIn
	QualifiedWriteIn
)

func (t CandidateType) String() string {
	switch t {
	case Regular:
		return "regular"
	case WriteIn:
		return "write_in"
	case QualifiedWriteIn:
		return "qualified_write_in"
	default:
		return "unknown"
	}
}

// Candidate is a named contest participant. Identity is positional: two
// Candidates with the same name in different contests are unrelated.
type Candidate struct {
	Name          string        `json:"name"`
	CandidateType CandidateType `json:"candidate_type"`
}

// ChoiceKind tags the variant held by a Choice.
type ChoiceKind int

const (
	ChoiceVote ChoiceKind = iota
	ChoiceUndervote
	ChoiceOvervote
)

// Choice is the raw mark at one rank position on one ballot. It is a
// tagged variant rather than an interface hierarchy: Kind selects which
// of the remaining fields is meaningful.
type Choice struct {
	Kind      ChoiceKind
	Candidate CandidateId // valid only when Kind == ChoiceVote
}

func Vote(c CandidateId) Choice { return Choice{Kind: ChoiceVote, Candidate: c} }

var Undervote = Choice{Kind: ChoiceUndervote}
var Overvote = Choice{Kind: ChoiceOvervote}

// Ballot is one voter's raw ranking, as produced by a format reader.
// Choices[0] is rank 1.
type Ballot struct {
	ID      string
	Choices []Choice
}

// Election is the raw input to a single contest: a dense candidate vector
// and the ballots cast against it. Every Choice.Candidate referenced by
// any ballot must be a valid index into Candidates; format readers are
// responsible for that invariant before handing an Election to this
// package.
type Election struct {
	Candidates []Candidate
	Ballots    []Ballot
}

// NormalizedBallot is the canonical reduction of a raw Ballot: a
// contiguous sequence of CandidateIds with undervotes, overvotes,
// duplicates, and exhaustion already resolved. Ranking[0] is first
// choice. An empty Ranking means the ballot is exhausted from the start.
//
// ExhaustedByOvervote records that normalization stopped this ballot at
// an overvote (OvervotePolicy exhaust). When
// TabulationOptions.ExhaustOnOvervote is set, the tabulator attributes
// the exhaustion to the round in which the ballot's cursor reaches the
// end, rather than treating it identically to a ballot that ran out of
// ranked candidates. ExhaustedByUndervote is
// the same bookkeeping for a ballot cut short by NormalizationPolicy.SkipUndervote
// being false.
type NormalizedBallot struct {
	BallotID             string
	Ranking              []CandidateId
	ExhaustedByOvervote  bool
	ExhaustedByUndervote bool
}

// NormalizationPolicy configures how raw Ballots reduce to
// NormalizedBallots. Zero value is not a valid policy; use
// DefaultNormalizationPolicy.
type NormalizationPolicy struct {
	SkipUndervote   bool            `json:"skip_undervote"`
	OvervotePolicy  OvervotePolicy  `json:"overvote_policy"`
	DuplicatePolicy DuplicatePolicy `json:"duplicate_policy"`
	MaxRankings     int             `json:"max_rankings"` // 0 means unlimited
	ExcludeWriteIns bool            `json:"exclude_write_ins"`
}

type OvervotePolicy int

const (
	OvervoteExhaust OvervotePolicy = iota
	OvervoteSkip
)

func (p OvervotePolicy) String() string {
	switch p {
	case OvervoteExhaust:
		return "exhaust"
	case OvervoteSkip:
		return "skip"
	default:
		return "unknown"
	}
}

type DuplicatePolicy int

const (
	DuplicateSkip DuplicatePolicy = iota
	DuplicateExhaust
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateSkip:
		return "skip"
	case DuplicateExhaust:
		return "exhaust"
	default:
		return "unknown"
	}
}

// DefaultNormalizationPolicy matches the defaults named in §4.1: skip
// undervotes, exhaust on overvote, skip duplicates, no ranking cap, keep
// write-ins.
func DefaultNormalizationPolicy() NormalizationPolicy {
	return NormalizationPolicy{
		SkipUndervote:   true,
		OvervotePolicy:  OvervoteExhaust,
		DuplicatePolicy: DuplicateSkip,
		MaxRankings:     0,
		ExcludeWriteIns: false,
	}
}

// TieBreakMode selects how ties among equal-vote candidates are ordered,
// both for display ordering within a round and for elimination choice.
type TieBreakMode int

const (
	LexicographicByID TieBreakMode = iota
	UsePermutation
	RandomStableHash
)

func (m TieBreakMode) String() string {
	switch m {
	case LexicographicByID:
		return "lexicographic_by_id"
	case UsePermutation:
		return "use_permutation"
	case RandomStableHash:
		return "random_stable_hash"
	default:
		return "unknown"
	}
}

// WinningThreshold selects the tabulator's termination rule.
type WinningThreshold int

const (
	Majority WinningThreshold = iota
	PluralityFinalTwo
)

func (w WinningThreshold) String() string {
	switch w {
	case Majority:
		return "majority"
	case PluralityFinalTwo:
		return "plurality_final_two"
	default:
		return "unknown"
	}
}

// TabulationOptions configures a single tabulator run. The zero value is
// not valid: use DefaultTabulationOptions and override as needed.
type TabulationOptions struct {
	TieBreakMode         TieBreakMode     `json:"tie_break_mode"`
	CandidatePermutation []CandidateId    `json:"candidate_permutation"` // required iff TieBreakMode == UsePermutation
	BatchElimination     bool             `json:"batch_elimination"`
	WinningThreshold     WinningThreshold `json:"winning_threshold"`
	ExhaustOnOvervote    bool             `json:"exhaust_on_overvote"`
}

// DefaultTabulationOptions matches §3's named defaults: lexicographic
// tie-breaking, no batch elimination, majority threshold, ballots assumed
// pre-normalized so no overvotes remain.
func DefaultTabulationOptions() TabulationOptions {
	return TabulationOptions{
		TieBreakMode:      LexicographicByID,
		BatchElimination:  false,
		WinningThreshold:  Majority,
		ExhaustOnOvervote: false,
	}
}

// AllocateeKind tags the variant held by an Allocatee.
type AllocateeKind int

const (
	AllocateeCandidate AllocateeKind = iota
	AllocateeExhausted
)

// Allocatee is the target of a vote within a round: either a continuing
// candidate or the Exhausted bucket.
type Allocatee struct {
	Kind      AllocateeKind
	Candidate CandidateId // valid only when Kind == AllocateeCandidate
}

func CandidateAllocatee(c CandidateId) Allocatee {
	return Allocatee{Kind: AllocateeCandidate, Candidate: c}
}

var Exhausted = Allocatee{Kind: AllocateeExhausted}

// Less orders two Allocatees by CandidateId ascending, with Exhausted
// sorting after every candidate. Used to give transfer lists and matrix
// columns a stable, deterministic order.
func (a Allocatee) Less(b Allocatee) bool {
	if a.Kind == AllocateeExhausted {
		return false
	}
	if b.Kind == AllocateeExhausted {
		return true
	}
	return a.Candidate < b.Candidate
}

// Allocation is one candidate's (or Exhausted's) vote count within a
// round, as it appears in TabulatorRound.Allocations.
type Allocation struct {
	Allocatee Allocatee
	Votes     int
}

// Transfer describes ballots moving off an eliminated candidate within a
// single round. Transfers sharing (From, To) are aggregated; the emitted
// list is sorted by (From, To).
type Transfer struct {
	From  CandidateId
	To    Allocatee
	Votes int
}

// TabulatorRound is one round of the instant-runoff process.
type TabulatorRound struct {
	RoundNumber int
	Allocations []Allocation
	Transfers   []Transfer
	Undervote   int
	Overvote    int
}
