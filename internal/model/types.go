package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the fixed-width UTC layout of CreatedAtUTC values, so
// that string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewerThan reports whether timestamp a is strictly later than b. Any RFC 3339
// precision is accepted; unparsable values fall back to string order.
func NewerThan(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}

var ErrInvalidGroupSize = errors.New("invalid group size")

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Rule selects which update rule drives a run.
type Rule string

const (
	RuleSocial  Rule = "social"
	RuleGenetic Rule = "genetic"
)

func ParseRule(s string) (Rule, error) {
	switch Rule(strings.ToLower(strings.TrimSpace(s))) {
	case RuleSocial, "cooperation", "imitate":
		return RuleSocial, nil
	case RuleGenetic, "ga", "evolutionary":
		return RuleGenetic, nil
	default:
		return "", fmt.Errorf("unknown rule %q", s)
	}
}

// GroupSize is either the whole population or a fixed chunk size.
type GroupSize struct {
	All  bool
	Size int
}

func WholePopulation() GroupSize {
	return GroupSize{All: true}
}

func GroupsOf(k int) GroupSize {
	return GroupSize{Size: k}
}

func ParseGroupSize(s string) (GroupSize, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return WholePopulation(), nil
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return GroupSize{}, fmt.Errorf("%w: must be \"all\" or an integer, got %q", ErrInvalidGroupSize, s)
	}
	return GroupsOf(k), nil
}

func (g GroupSize) String() string {
	if g.All {
		return "all"
	}
	return strconv.Itoa(g.Size)
}

func (g GroupSize) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalJSON accepts "all", a quoted integer or a bare JSON number.
func (g *GroupSize) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return g.UnmarshalText([]byte(s))
	}
	return g.UnmarshalText(data)
}

func (g *GroupSize) UnmarshalText(text []byte) error {
	parsed, err := ParseGroupSize(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Arena enables the moving-agent world used by the cooperation game display.
type Arena struct {
	Enabled bool    `json:"enabled"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
}

// Params is the configuration captured once at setup.
type Params struct {
	Rule           Rule      `json:"rule"`
	PopulationSize int       `json:"population_size"`
	Seed           float64   `json:"seed"`
	GroupSize      GroupSize `json:"group_size"`
	LearningRate   float64   `json:"learning_rate,omitempty"`
	Rounds         int       `json:"rounds,omitempty"`
	Arena          Arena     `json:"arena,omitzero"`

	MutationRate   float64 `json:"mutation_rate,omitempty"`
	StrategyLength int     `json:"strategy_length,omitempty"`
	Generations    int     `json:"generations,omitempty"`
	TournamentSize int     `json:"tournament_size,omitempty"`
	CrossoverRate  float64 `json:"crossover_rate,omitempty"`
}

// Horizon is the number of rounds a full run covers.
func (p Params) Horizon() int {
	if p.Rule == RuleGenetic {
		return p.Generations
	}
	return p.Rounds
}

// Agent is one player of the cooperation game.
type Agent struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Effort  Effort  `json:"effort"`
	Payoff  float64 `json:"payoff"`
}

// Strategy is a fixed-length bitstring over {'0','1'}.
type Strategy string

var Bits = []byte{'0', '1'}

func (s Strategy) Len() int {
	return len(s)
}

// CooperationStats summarises one cooperation-game round.
type CooperationStats struct {
	ShareLow      float64 `json:"share_low"`
	ShareMedium   float64 `json:"share_medium"`
	ShareHigh     float64 `json:"share_high"`
	AveragePayoff float64 `json:"avg_payoff"`
	Minimum       Effort  `json:"class_min"`
}

// Share returns the population share of e.
func (c CooperationStats) Share(e Effort) float64 {
	switch e {
	case Low:
		return c.ShareLow
	case Medium:
		return c.ShareMedium
	case High:
		return c.ShareHigh
	default:
		panic(fmt.Sprintf("unhandled effort %d", e))
	}
}

// GeneticStats summarises one generation of the genetic game.
type GeneticStats struct {
	BestFitness      int      `json:"best_fitness"`
	AverageFitness   float64  `json:"average_fitness"`
	UniqueStrategies int      `json:"unique_strategies"`
	BestStrategy     Strategy `json:"best_strategy"`
}

// HistoryRecord is the immutable per-round snapshot. Exactly one of
// Cooperation or Genetic is populated, matching the run's rule.
type HistoryRecord struct {
	Round       int              `json:"round"`
	Cooperation CooperationStats `json:"cooperation,omitzero"`
	Genetic     GeneticStats     `json:"genetic,omitzero"`
}

// Figure returns the representative payoff or fitness of the record.
func (r HistoryRecord) Figure(rule Rule) float64 {
	if rule == RuleGenetic {
		return float64(r.Genetic.BestFitness)
	}
	return r.Cooperation.AveragePayoff
}

// RunRecord is the archived summary of a finished run.
type RunRecord struct {
	VersionedRecord
	ID           string          `json:"id"`
	Params       Params          `json:"params"`
	Target       Strategy        `json:"target,omitempty"`
	History      []HistoryRecord `json:"history"`
	CreatedAtUTC string          `json:"created_at_utc"`
}
