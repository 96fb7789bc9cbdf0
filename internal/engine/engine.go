// Package engine drives a simulation round by round and keeps its history.
//
// An Engine is Uninitialized until Setup succeeds, then Ready. Each engine
// owns its random stream and population; engines share nothing and are not
// safe for concurrent use.
package engine

import (
	"context"
	"log/slog"

	"evogame/internal/logging"
	"evogame/internal/model"
	"evogame/internal/rng"
)

type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Population is a read-only snapshot of the current population.
type Population struct {
	Rule       model.Rule       `json:"rule"`
	Agents     []model.Agent    `json:"agents,omitempty"`
	Strategies []model.Strategy `json:"strategies,omitempty"`
	Fitness    []int            `json:"fitness,omitempty"`
	Target     model.Strategy   `json:"target,omitempty"`
}

type Option func(*Engine)

// WithLogger routes engine logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

type Engine struct {
	logger *slog.Logger

	params  model.Params
	runner  runner
	round   int
	history []model.HistoryRecord
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup validates p and, only if it is valid, replaces all prior state: a
// fresh stream is seeded, the population regenerated, and history restarts
// with the round-0 record.
func (e *Engine) Setup(p model.Params) error {
	if err := Validate(p); err != nil {
		return err
	}
	r, err := newRunner(p, rng.New(p.Seed))
	if err != nil {
		return err
	}

	initial := r.snapshot()
	initial.Round = 0

	e.params = p
	e.runner = r
	e.round = 0
	e.history = []model.HistoryRecord{initial}

	e.logger.Info("setup",
		"rule", p.Rule,
		"population", p.PopulationSize,
		"seed", p.Seed,
		"figure", initial.Figure(p.Rule),
	)
	return nil
}

// Step runs one round and appends exactly one record.
func (e *Engine) Step() (model.HistoryRecord, error) {
	if e.runner == nil {
		return model.HistoryRecord{}, ErrNotReady
	}
	record, err := e.runner.advance()
	if err != nil {
		return model.HistoryRecord{}, err
	}
	e.round++
	record.Round = e.round
	e.history = append(e.history, record)

	e.logger.Debug("step", "rule", e.params.Rule, "round", e.round, "figure", record.Figure(e.params.Rule))
	e.traceMembers()
	return record, nil
}

// traceMembers logs every agent or strategy of the current round at
// logging.LevelTrace.
func (e *Engine) traceMembers() {
	ctx := context.Background()
	if !e.logger.Enabled(ctx, logging.LevelTrace) {
		return
	}
	pop := e.runner.population()
	switch pop.Rule {
	case model.RuleGenetic:
		for i, s := range pop.Strategies {
			e.logger.Log(ctx, logging.LevelTrace, "member",
				"round", e.round, "index", i, "strategy", s, "fitness", pop.Fitness[i])
		}
	default:
		for i, a := range pop.Agents {
			attrs := []any{"round", e.round, "index", i, "effort", a.Effort, "payoff", a.Payoff}
			if e.params.Arena.Enabled {
				attrs = append(attrs, "x", a.X, "y", a.Y, "heading", a.Heading)
			}
			e.logger.Log(ctx, logging.LevelTrace, "agent", attrs...)
		}
	}
}

// RunFor steps n times and returns the records produced.
func (e *Engine) RunFor(n int) ([]model.HistoryRecord, error) {
	if e.runner == nil {
		return nil, ErrNotReady
	}
	out := make([]model.HistoryRecord, 0, max(n, 0))
	for i := 0; i < n; i++ {
		record, err := e.Step()
		if err != nil {
			return out, err
		}
		out = append(out, record)
	}
	return out, nil
}

// RunToCompletion steps until the configured horizon (generations or rounds)
// has been reached and returns the full history.
func (e *Engine) RunToCompletion() ([]model.HistoryRecord, error) {
	if e.runner == nil {
		return nil, ErrNotReady
	}
	if _, err := e.RunFor(e.params.Horizon() - e.round); err != nil {
		return nil, err
	}
	return e.History(), nil
}

func (e *Engine) State() State {
	if e.runner == nil {
		return StateUninitialized
	}
	return StateReady
}

// Round is the index of the latest record; 0 right after Setup.
func (e *Engine) Round() int {
	return e.round
}

func (e *Engine) Params() (model.Params, error) {
	if e.runner == nil {
		return model.Params{}, ErrNotReady
	}
	return e.params, nil
}

// History returns a copy of every record so far, oldest first.
func (e *Engine) History() []model.HistoryRecord {
	return append([]model.HistoryRecord(nil), e.history...)
}

// Latest returns the most recent record.
func (e *Engine) Latest() (model.HistoryRecord, error) {
	if e.runner == nil {
		return model.HistoryRecord{}, ErrNotReady
	}
	return e.history[len(e.history)-1], nil
}

func (e *Engine) Population() (Population, error) {
	if e.runner == nil {
		return Population{}, ErrNotReady
	}
	return e.runner.population(), nil
}
