package engine

import (
	"fmt"

	"evogame/internal/evo"
	"evogame/internal/game"
	"evogame/internal/groups"
	"evogame/internal/model"
	"evogame/internal/rng"
)

// runner is one update-rule variant bound to a stream and a population.
// The engine owns the round counter and the history; runners own the
// population and the per-round algorithm.
type runner interface {
	snapshot() model.HistoryRecord
	advance() (model.HistoryRecord, error)
	population() Population
}

func newRunner(p model.Params, stream *rng.Stream) (runner, error) {
	switch p.Rule {
	case model.RuleSocial:
		return newSocialRunner(p, stream), nil
	case model.RuleGenetic:
		return newGeneticRunner(p, stream), nil
	default:
		return nil, fmt.Errorf("unknown rule %q", p.Rule)
	}
}

// socialRunner plays the weak-link effort game with imitate-the-best.
//
// Setup draws, per agent: x, y, heading (arena only), then effort.
// Round draws: the group shuffle (skipped for the whole population), then per
// agent in order the learning draw followed by the heading draw (arena only).
type socialRunner struct {
	params   model.Params
	stream   *rng.Stream
	agents   []model.Agent
	learning evo.SocialLearning
}

func newSocialRunner(p model.Params, stream *rng.Stream) *socialRunner {
	agents := make([]model.Agent, p.PopulationSize)
	for i := range agents {
		if p.Arena.Enabled {
			agents[i] = place(stream, p.Arena)
		}
		agents[i].Effort = rng.Pick(stream, model.Efforts)
	}
	return &socialRunner{
		params:   p,
		stream:   stream,
		agents:   agents,
		learning: evo.SocialLearning{LearningRate: p.LearningRate},
	}
}

func (r *socialRunner) snapshot() model.HistoryRecord {
	return model.HistoryRecord{Cooperation: evo.SummarizeRound(r.agents)}
}

func (r *socialRunner) advance() (model.HistoryRecord, error) {
	formed, err := groups.Form(len(r.agents), r.params.GroupSize, r.stream)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("form groups: %w", err)
	}
	game.ScoreGroups(r.agents, formed)
	best := evo.BestEffort(r.agents)

	var after func(*model.Agent)
	if r.params.Arena.Enabled {
		after = func(a *model.Agent) {
			move(r.stream, a, r.params.Arena)
		}
	}
	r.learning.Update(r.stream, r.agents, best, after)
	return r.snapshot(), nil
}

func (r *socialRunner) population() Population {
	return Population{Rule: model.RuleSocial, Agents: append([]model.Agent(nil), r.agents...)}
}

// geneticRunner evolves bitstrings toward a fixed random target.
//
// Setup draws the target first, then each strategy symbol by symbol. Each
// generation draws as documented on evo.GeneticAlgorithm.
type geneticRunner struct {
	params     model.Params
	stream     *rng.Stream
	target     model.Strategy
	strategies []model.Strategy
	scores     []int
	ga         evo.GeneticAlgorithm
}

func newGeneticRunner(p model.Params, stream *rng.Stream) *geneticRunner {
	target := game.RandomStrategy(stream, p.StrategyLength)
	strategies := make([]model.Strategy, p.PopulationSize)
	for i := range strategies {
		strategies[i] = game.RandomStrategy(stream, p.StrategyLength)
	}
	return &geneticRunner{
		params:     p,
		stream:     stream,
		target:     target,
		strategies: strategies,
		scores:     game.ScoreStrategies(strategies, target),
		ga:         evo.NewGeneticAlgorithm(p.TournamentSize, p.CrossoverRate, p.MutationRate),
	}
}

func (r *geneticRunner) snapshot() model.HistoryRecord {
	return model.HistoryRecord{Genetic: evo.SummarizeGeneration(r.strategies, r.scores)}
}

func (r *geneticRunner) advance() (model.HistoryRecord, error) {
	next, err := r.ga.NextGeneration(r.stream, r.strategies, r.scores, r.params.PopulationSize)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("breed generation: %w", err)
	}
	r.strategies = next
	r.scores = game.ScoreStrategies(next, r.target)
	return r.snapshot(), nil
}

func (r *geneticRunner) population() Population {
	return Population{
		Rule:       model.RuleGenetic,
		Strategies: append([]model.Strategy(nil), r.strategies...),
		Fitness:    append([]int(nil), r.scores...),
		Target:     r.target,
	}
}
