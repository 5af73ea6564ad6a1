// Package http is a thin, stateless HTTP front end over the tabulation
// pipeline: a health check and a single tabulate-and-report endpoint.
// It owns no tabulation state of its own — every request builds and
// discards its own Election, exactly as §4's lifecycle describes.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ranked-vote/stv.vote/tabulation"
)

// Handler is implemented by every route; returning an error routes
// through resolveError instead of every handler writing its own error
// response, the same separation the HandlerFunc pattern this is modeled
// on uses.
type Handler interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request) error
}

type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// Server wires Handlers into a *http.ServeMux, resolving any returned
// error through resolveError.
type Server struct {
	Mux *http.ServeMux
	log zerolog.Logger
}

func NewServer(log zerolog.Logger) *Server {
	s := &Server{Mux: http.NewServeMux(), log: log}
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.handle("/health", HandlerFunc(s.health))
	s.handle("/tabulate", HandlerFunc(s.tabulate))
}

func (s *Server) handle(pattern string, h Handler) {
	s.Mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := h.ServeHTTP(w, r); err != nil {
			s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
			resolveError(w, err)
		}
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// tabulateRequest is the inbound shape: a raw Election plus the metadata
// and options that configure normalization and tabulation.
type tabulateRequest struct {
	Candidates        []tabulation.Candidate         `json:"candidates"`
	Ballots           []rawBallot                    `json:"ballots"`
	Normalization     tabulation.NormalizationPolicy `json:"normalization"`
	TabulationOptions tabulation.TabulationOptions   `json:"tabulation_options"`
}

type rawBallot struct {
	ID      string              `json:"id"`
	Choices []tabulation.Choice `json:"choices"`
}

func (s *Server) tabulate(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		return statusCode(http.StatusMethodNotAllowed, tabulation.MessageError(tabulation.ErrNotAllowed, "tabulate requires POST"))
	}

	var req tabulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return statusCode(http.StatusBadRequest, tabulation.MessageErrorf(tabulation.ErrInvalid, "decoding request body: %v", err))
	}

	ballots := make([]tabulation.Ballot, len(req.Ballots))
	for i, b := range req.Ballots {
		ballots[i] = tabulation.Ballot{ID: b.ID, Choices: b.Choices}
	}
	election := tabulation.Election{Candidates: req.Candidates, Ballots: ballots}

	normalized := tabulation.Normalize(election, req.Normalization)
	report := tabulation.GenerateReport(tabulation.ElectionPreprocessed{
		Candidates: req.Candidates,
		Ballots:    normalized,
		Options:    req.TabulationOptions,
	})

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}
