package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"evogame/internal/model"
	"evogame/internal/stats"
	"evogame/pkg/evogame"
)

func printHistory(w io.Writer, rule model.Rule, history []model.HistoryRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch rule {
	case model.RuleGenetic:
		fmt.Fprintln(tw, "GEN\tBEST\tAVERAGE\tUNIQUE\tBEST STRATEGY")
		for _, rec := range history {
			fmt.Fprintln(tw, strings.Join(stats.GeneticRow(rec), "\t"))
		}
	default:
		fmt.Fprintln(tw, "ROUND\tLOW %\tMEDIUM %\tHIGH %\tAVG PAYOFF\tMIN")
		for _, rec := range history {
			fmt.Fprintf(tw, "%s\t%s\n", strings.Join(stats.CooperationRow(rec), "\t"), rec.Cooperation.Minimum)
		}
	}
	return tw.Flush()
}

func printRecord(w io.Writer, rule model.Rule, rec model.HistoryRecord) {
	if rule == model.RuleGenetic {
		g := rec.Genetic
		fmt.Fprintf(w, "gen %d: best=%d avg=%s unique=%d best_strategy=%s\n",
			rec.Round, g.BestFitness, stats.Fixed(g.AverageFitness, 4), g.UniqueStrategies, g.BestStrategy)
		return
	}
	c := rec.Cooperation
	fmt.Fprintf(w, "round %d: L=%s%% M=%s%% H=%s%% avg_payoff=%s min=%s\n",
		rec.Round, stats.Percent(c.ShareLow), stats.Percent(c.ShareMedium), stats.Percent(c.ShareHigh),
		stats.Fixed(c.AveragePayoff, 2), c.Minimum)
}

func printSummary(w io.Writer, summary evogame.RunSummary) {
	p := summary.Params
	final := summary.Final()
	fmt.Fprintf(w, "run %s: %s rule, %s agents, %s rounds\n",
		summary.RunID, p.Rule, humanize.Comma(int64(p.PopulationSize)), humanize.Comma(int64(p.Horizon())))
	if p.Rule == model.RuleGenetic {
		fmt.Fprintf(w, "target %s, final best %d/%d (%s)\n",
			summary.Target, final.Genetic.BestFitness, p.StrategyLength, final.Genetic.BestStrategy)
	} else {
		fmt.Fprintf(w, "final avg payoff %s, group minimum %s\n",
			stats.Fixed(final.Cooperation.AveragePayoff, 2), final.Cooperation.Minimum)
	}
	fmt.Fprintf(w, "artifacts: %s\n", summary.ArtifactsDir)
}

func printRuns(w io.Writer, runs []evogame.RunItem, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tRULE\tAGENTS\tROUNDS\tSEED\tFINAL")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.RunID,
			createdAgo(run.CreatedAtUTC, now),
			run.Rule,
			humanize.Comma(int64(run.PopulationSize)),
			humanize.Comma(int64(run.Rounds)),
			humanize.Ftoa(run.Seed),
			stats.Fixed(run.FinalFigure, 2),
		)
	}
	return tw.Flush()
}

func createdAgo(createdAt string, now time.Time) string {
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return createdAt
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
