package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"evogame/internal/model"
)

var (
	geneticHeader     = []string{"generation", "best_fitness", "average_fitness", "unique_strategies", "best_strategy"}
	cooperationHeader = []string{"round", "share_low", "share_medium", "share_high", "avg_payoff"}
)

// WriteHistoryCSV writes one row per record. Genetic averages carry four
// decimals; cooperation shares are percentages with one decimal and payoffs
// carry two.
func WriteHistoryCSV(w io.Writer, rule model.Rule, history []model.HistoryRecord) error {
	writer := csv.NewWriter(w)
	switch rule {
	case model.RuleGenetic:
		if err := writer.Write(geneticHeader); err != nil {
			return err
		}
		for _, rec := range history {
			if err := writer.Write(GeneticRow(rec)); err != nil {
				return err
			}
		}
	case model.RuleSocial:
		if err := writer.Write(cooperationHeader); err != nil {
			return err
		}
		for _, rec := range history {
			if err := writer.Write(CooperationRow(rec)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported rule: %q", rule)
	}
	writer.Flush()
	return writer.Error()
}

func GeneticRow(rec model.HistoryRecord) []string {
	g := rec.Genetic
	return []string{
		strconv.Itoa(rec.Round),
		strconv.Itoa(g.BestFitness),
		Fixed(g.AverageFitness, 4),
		strconv.Itoa(g.UniqueStrategies),
		string(g.BestStrategy),
	}
}

func CooperationRow(rec model.HistoryRecord) []string {
	c := rec.Cooperation
	return []string{
		strconv.Itoa(rec.Round),
		Percent(c.ShareLow),
		Percent(c.ShareMedium),
		Percent(c.ShareHigh),
		Fixed(c.AveragePayoff, 2),
	}
}

// Fixed renders v rounded half away from zero to places decimals.
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Percent renders a [0,1] share as a percentage with one decimal.
func Percent(share float64) string {
	return decimal.NewFromFloat(share).Shift(2).StringFixed(1)
}
