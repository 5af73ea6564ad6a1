// Command rcvtab is the CLI / orchestration layer around the tabulation
// pipeline: it calls the core's pure functions and never changes their
// semantics, per the external-interface contract that keeps CLI
// argument parsing out of the core.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ranked-vote/stv.vote/config"
	"github.com/ranked-vote/stv.vote/cvr"
	httpserver "github.com/ranked-vote/stv.vote/reportsvc/http"
	"github.com/ranked-vote/stv.vote/tabulation"
)

type cli struct {
	Verbose bool `help:"Enable debug-level logging."`

	Tabulate tabulateCmd `cmd:"" help:"Normalize, tabulate, and report on one contest."`
	Summary  summaryCmd  `cmd:"" help:"Print a round-by-round summary table for one contest."`
	Serve    serveCmd    `cmd:"" help:"Run the reporting HTTP server."`
}

type tabulateCmd struct {
	CVR                string `arg:"" help:"Path to a NIST SP-1500 CSV cast vote record export."`
	Config             string `arg:"" help:"Path to the contest's YAML configuration."`
	Out                string `help:"Write the report JSON here instead of stdout."`
	VerifyDeterministic bool  `help:"Run the pipeline twice and fail if the two reports diverge."`
}

type summaryCmd struct {
	CVR    string `arg:"" help:"Path to a NIST SP-1500 CSV cast vote record export."`
	Config string `arg:"" help:"Path to the contest's YAML configuration."`
}

type serveCmd struct {
	Addr string `default:":8080" help:"Address to listen on."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c, kong.Name("rcvtab"), kong.Description("Ranked-choice tabulation and reporting."))

	setupLogging(c.Verbose)

	if err := ctx.Run(&c); err != nil {
		log.Error().Err(err).Msg("rcvtab failed")
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if isTerminal(os.Stderr) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	// else: leave the default JSON writer, the right shape for a
	// production pipeline's log aggregator.
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (t *tabulateCmd) Run(c *cli) error {
	report, err := runPipeline(t.CVR, t.Config)
	if err != nil {
		return err
	}

	if t.VerifyDeterministic {
		second, err := runPipeline(t.CVR, t.Config)
		if err != nil {
			return fmt.Errorf("rcvtab: second pass for determinism check: %w", err)
		}
		if !tabulation.Deterministic(report, second) {
			return fmt.Errorf("rcvtab: tabulation is not deterministic across repeated runs")
		}
		log.Info().Msg("determinism check passed")
	}

	out := os.Stdout
	if t.Out != "" {
		f, err := os.Create(t.Out)
		if err != nil {
			return fmt.Errorf("rcvtab: creating %s: %w", t.Out, err)
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (s *summaryCmd) Run(c *cli) error {
	report, err := runPipeline(s.CVR, s.Config)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", report.Info.Name)
	for _, round := range report.Rounds {
		fmt.Printf("Round %d:\n", round.RoundNumber)
		total := decimal.Zero
		for _, a := range round.Allocations {
			total = total.Add(decimal.NewFromInt(int64(a.Votes)))
		}
		for _, a := range round.Allocations {
			label := allocateeLabel(report, a.Allocatee)
			share := decimal.Zero
			if !total.IsZero() {
				share = decimal.NewFromInt(int64(a.Votes)).Div(total).Mul(decimal.NewFromInt(100))
			}
			fmt.Printf("  %-20s %6d votes (%s%%)\n", label, a.Votes, share.StringFixed(1))
		}
		for _, tr := range round.Transfers {
			fmt.Printf("  transfer: %s -> %s: %d\n",
				report.Candidates[tr.From].Name, allocateeLabel(report, tr.To), tr.Votes)
		}
	}
	if report.HasWinner {
		fmt.Printf("Winner: %s\n", allocateeLabel(report, report.Winner))
	} else {
		fmt.Println("Winner: none")
	}
	return nil
}

func allocateeLabel(report tabulation.ContestReport, a tabulation.Allocatee) string {
	if a.Kind == tabulation.AllocateeExhausted {
		return "Exhausted"
	}
	return report.Candidates[a.Candidate].Name
}

func (s *serveCmd) Run(c *cli) error {
	server := httpserver.NewServer(log.Logger)
	log.Info().Str("addr", s.Addr).Msg("starting reporting HTTP server")
	return serveHTTP(context.Background(), s.Addr, server)
}

func runPipeline(cvrPath, configPath string) (tabulation.ContestReport, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return tabulation.ContestReport{}, err
	}
	normalizationPolicy, err := cfg.NormalizationPolicy()
	if err != nil {
		return tabulation.ContestReport{}, err
	}
	tabulationOptions, err := cfg.TabulationOptions()
	if err != nil {
		return tabulation.ContestReport{}, err
	}

	f, err := os.Open(cvrPath)
	if err != nil {
		return tabulation.ContestReport{}, fmt.Errorf("rcvtab: opening %s: %w", cvrPath, err)
	}
	defer f.Close()

	reader := cvr.NewNistCSVReader(f, "")
	election, err := reader.ReadElection()
	if err != nil {
		return tabulation.ContestReport{}, err
	}

	normalized := tabulation.Normalize(election, normalizationPolicy)
	report := tabulation.GenerateReport(tabulation.ElectionPreprocessed{
		Info: tabulation.ElectionInfo{
			Office:     cfg.Office,
			OfficeName: cfg.OfficeName,
			Name:       cfg.Name,
			Date:       cfg.Date,
			DataFormat: cfg.DataFormat,
		},
		Candidates: election.Candidates,
		Ballots:    normalized,
		Options:    tabulationOptions,
	})
	return report, nil
}
