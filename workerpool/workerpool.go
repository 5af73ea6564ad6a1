// Package workerpool runs independent contests concurrently. Each
// worker owns its contest's Election and NormalizedBallot slice
// exclusively; there is no shared mutable state between contests, and
// nothing inside a single contest's Tabulate/GenerateReport call is
// parallelized. This is the "parallelism at the outer layer" the core
// tabulation package makes no claims about.
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ranked-vote/stv.vote/tabulation"
)

// Job is one contest's worth of work: everything GenerateReport needs,
// plus an identifier for logging and result correlation.
type Job struct {
	ContestID string
	Input     tabulation.ElectionPreprocessed
}

// Result pairs a contest's report with any panic recovered while
// producing it. A panic in one contest's tabulation is an invariant
// violation in that contest's data (§7); it must not abort the others.
type Result struct {
	ContestID string
	Report    tabulation.ContestReport
	Err       error
}

// Pool runs Jobs across a fixed number of goroutines, each pulling from
// a shared channel so no contest is ever visited by two workers at once.
type Pool struct {
	concurrency int
	log         zerolog.Logger
}

func New(concurrency int, log zerolog.Logger) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{concurrency: concurrency, log: log}
}

// Run processes every job and returns results in the order jobs were
// submitted, regardless of completion order, so callers can line results
// up with their originating contest list deterministically.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	indexed := make(chan int, len(jobs))
	for i := range jobs {
		indexed <- i
	}
	close(indexed)

	var wg sync.WaitGroup
	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range indexed {
				select {
				case <-ctx.Done():
					results[i] = Result{ContestID: jobs[i].ContestID, Err: ctx.Err()}
					continue
				default:
				}
				results[i] = p.runOne(workerID, jobs[i])
			}
		}(w)
	}
	wg.Wait()
	return results
}

func (p *Pool) runOne(workerID int, job Job) (result Result) {
	log := p.log.With().Str("contest_id", job.ContestID).Int("worker", workerID).Logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("contest tabulation panicked; marking contest failed")
			result = Result{ContestID: job.ContestID, Err: fmt.Errorf("workerpool: contest %s panicked: %v", job.ContestID, r)}
		}
	}()

	log.Info().Int("ballots", len(job.Input.Ballots)).Msg("tabulating contest")
	report := tabulation.GenerateReport(job.Input)
	log.Info().Bool("has_winner", report.HasWinner).Msg("contest tabulation complete")
	return Result{ContestID: job.ContestID, Report: report}
}
