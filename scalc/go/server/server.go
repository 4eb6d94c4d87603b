// Package server serves tokenization of inputs over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.scalc.org/scalc/go/httputils"
	"go.scalc.org/scalc/go/metrics2"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/go/tokenizer"
	"go.scalc.org/scalc/scalc/go/config"
	"go.scalc.org/scalc/scalc/go/format"
	"go.scalc.org/scalc/scalc/go/tokencache"
	"golang.org/x/time/rate"
)

// maxRequestBytes limits the size of a tokenize request body.
const maxRequestBytes = 1 << 20

// DefaultMaxInputBytes is the input limit used when New is given 0. Scan time
// grows with the square of the input length, so keep it small.
const DefaultMaxInputBytes = 4 << 10

// ErrInputTooLarge is returned by Tokenize for inputs over the limit.
var ErrInputTooLarge = errors.New("input too large")

// TokenizeRequest is the body of a POST to /_/tokenize.
type TokenizeRequest struct {
	RuleSet string `json:"rule_set"`
	Input   string `json:"input"`
}

// TokenizeResponse is the response to a POST to /_/tokenize.
type TokenizeResponse format.Result

// RuleSetsResponse is the response to a GET of /_/rulesets.
type RuleSetsResponse struct {
	RuleSets []string `json:"rule_sets"`
}

// Server handles tokenize requests against a fixed set of named parsers.
type Server struct {
	parsers map[string]*tokenizer.Parser[config.Token]
	names   []string

	// cache may be nil, in which case every request is scanned.
	cache *tokencache.Cache

	// limiter may be nil, in which case requests are never dropped.
	limiter *rate.Limiter

	maxInputBytes int
}

// New returns a Server for the given parsers. The parsers must not be
// modified afterwards. cache and limiter are optional. Inputs longer than
// maxInputBytes are refused; 0 means DefaultMaxInputBytes.
func New(parsers map[string]*tokenizer.Parser[config.Token], cache *tokencache.Cache, limiter *rate.Limiter, maxInputBytes int) *Server {
	if maxInputBytes <= 0 {
		maxInputBytes = DefaultMaxInputBytes
	}
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Server{
		parsers: parsers,
		names:   names,
		cache:         cache,
		limiter:       limiter,
		maxInputBytes: maxInputBytes,
	}
}

// AddHandlers registers the API routes on router.
func (s *Server) AddHandlers(router chi.Router) {
	router.Post("/_/tokenize", s.tokenizeHandler)
	router.Get("/_/rulesets", s.ruleSetsHandler)
}

// Handler returns the complete HTTP handler for the service, including
// /metrics and /healthz. Cross-origin requests are allowed from
// allowedOrigins, which may contain "*".
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	router := chi.NewRouter()
	s.AddHandlers(router)
	router.Handle("/metrics", metrics2.Handler())
	router.HandleFunc("/ready", httputils.ReadyHandleFunc)
	var h http.Handler = router
	if len(allowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(h)
	}
	return httputils.Healthz(httputils.LoggingRequestResponse(h))
}

// Tokenize scans input with the named rule set, consulting the cache first.
func (s *Server) Tokenize(ruleSet, input string) (format.Result, error) {
	p, ok := s.parsers[ruleSet]
	if !ok {
		return format.Result{}, skerr.Fmt("unknown rule set %q", ruleSet)
	}
	if len(input) > s.maxInputBytes {
		return format.Result{}, skerr.Wrapf(ErrInputTooLarge, "%d bytes, limit is %d", len(input), s.maxInputBytes)
	}
	tags := map[string]string{"rule_set": ruleSet}
	metrics2.GetCounter("scalc_tokenize_requests", tags).Inc(1)
	if s.cache != nil {
		if r, ok := s.cache.Get(ruleSet, input); ok {
			metrics2.GetCounter("scalc_cache_hits", tags).Inc(1)
			return r, nil
		}
	}
	r := format.Collect(p.Parse(input))
	metrics2.GetCounter("scalc_tokens", tags).Inc(int64(len(r.Items)))
	if r.Error != nil {
		metrics2.GetCounter("scalc_lex_errors", tags).Inc(1)
	}
	if s.cache != nil {
		s.cache.Add(ruleSet, input, r)
	}
	return r, nil
}

func (s *Server) tokenizeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.limiter != nil && !s.limiter.Allow() {
		sklog.Infof("The request is dropped due to rate limiting.")
		metrics2.GetCounter("scalc_rate_limited").Inc(1)
		httputils.ReportError(w, skerr.Fmt("rate limit exceeded"), "Too many requests.", http.StatusTooManyRequests)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req TokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.ReportError(w, err, "Failed to decode JSON.", http.StatusBadRequest)
		return
	}
	if _, ok := s.parsers[req.RuleSet]; !ok {
		httputils.ReportError(w, skerr.Fmt("unknown rule set %q", req.RuleSet), "Unknown rule set.", http.StatusNotFound)
		return
	}
	result, err := s.Tokenize(req.RuleSet, req.Input)
	if errors.Is(err, ErrInputTooLarge) {
		httputils.ReportError(w, err, "Input too large.", http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		httputils.ReportError(w, err, "Failed to tokenize.", http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(TokenizeResponse(result)); err != nil {
		sklog.Errorf("Failed to write response: %s", err)
	}
}

func (s *Server) ruleSetsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RuleSetsResponse{RuleSets: s.names}); err != nil {
		sklog.Errorf("Failed to write response: %s", err)
	}
}
