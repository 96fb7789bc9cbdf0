package stats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evogame/internal/model"
)

func geneticArtifacts(runID, createdAt string) RunArtifacts {
	return RunArtifacts{
		Config: RunConfig{
			RunID: runID,
			Params: model.Params{
				Rule:           model.RuleGenetic,
				PopulationSize: 6,
				Seed:           42,
				StrategyLength: 8,
				Generations:    1,
				TournamentSize: 3,
				MutationRate:   0.1,
				CrossoverRate:  0.8,
			},
			Target:       "01001111",
			CreatedAtUTC: createdAt,
		},
		History: []model.HistoryRecord{
			{Round: 0, Genetic: model.GeneticStats{BestFitness: 6, AverageFitness: 3, UniqueStrategies: 6, BestStrategy: "11101111"}},
			{Round: 1, Genetic: model.GeneticStats{BestFitness: 7, AverageFitness: 28.0 / 6, UniqueStrategies: 6, BestStrategy: "11001111"}},
		},
	}
}

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runDir, err := WriteRunArtifacts(baseDir, geneticArtifacts("run-123", "2026-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	files := []string{"config.json", "history.json", "history.csv"}
	for _, file := range files {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	exportedDir, err := ExportRunArtifacts(baseDir, "run-123", outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}
	for _, file := range files {
		if _, err := os.Stat(filepath.Join(exportedDir, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}

	cfg, ok, err := ReadRunConfig(baseDir, "run-123")
	if err != nil || !ok {
		t.Fatalf("read config: ok=%v err=%v", ok, err)
	}
	if cfg.Target != "01001111" || cfg.Params.Rule != model.RuleGenetic {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	history, ok, err := ReadRunHistory(baseDir, "run-123")
	if err != nil || !ok {
		t.Fatalf("read history: ok=%v err=%v", ok, err)
	}
	if len(history) != 2 || history[1].Genetic.BestStrategy != "11001111" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestReadRunConfigMissing(t *testing.T) {
	_, ok, err := ReadRunConfig(t.TempDir(), "missing")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected run id error")
	}
}

func TestExportMissingRun(t *testing.T) {
	if _, err := ExportRunArtifacts(t.TempDir(), "missing", t.TempDir()); err == nil {
		t.Fatal("expected missing run error")
	}
}

func TestRunIndexOrderingAndReplace(t *testing.T) {
	baseDir := t.TempDir()
	entries := []RunIndexEntry{
		IndexEntry(geneticArtifacts("old", "2026-01-01T00:00:00Z")),
		IndexEntry(geneticArtifacts("new", "2026-02-01T00:00:00Z")),
		IndexEntry(geneticArtifacts("tie", "2026-01-01T00:00:00Z")),
	}
	for _, entry := range entries {
		if err := AppendRunIndex(baseDir, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{index[0].RunID, index[1].RunID, index[2].RunID}
	if strings.Join(got, ",") != "new,tie,old" {
		t.Fatalf("unexpected order %v", got)
	}
	if index[0].FinalFigure != 7 || index[0].Rounds != 1 {
		t.Fatalf("unexpected entry %+v", index[0])
	}

	replaced := entries[0]
	replaced.FinalFigure = 8
	if err := AppendRunIndex(baseDir, replaced); err != nil {
		t.Fatalf("replace: %v", err)
	}
	index, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(index) != 3 || index[2].FinalFigure != 8 {
		t.Fatalf("expected in-place replacement, got %+v", index)
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	index, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(index) != 0 {
		t.Fatalf("expected empty index, got %+v", index)
	}
}

func TestWriteHistoryCSVGenetic(t *testing.T) {
	var buf bytes.Buffer
	a := geneticArtifacts("r", "")
	if err := WriteHistoryCSV(&buf, model.RuleGenetic, a.History); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := "generation,best_fitness,average_fitness,unique_strategies,best_strategy\n" +
		"0,6,3.0000,6,11101111\n" +
		"1,7,4.6667,6,11001111\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteHistoryCSVCooperation(t *testing.T) {
	var buf bytes.Buffer
	history := []model.HistoryRecord{
		{Round: 0, Cooperation: model.CooperationStats{ShareLow: 2.0 / 6, ShareMedium: 3.0 / 6, ShareHigh: 1.0 / 6, AveragePayoff: 0, Minimum: model.Low}},
		{Round: 1, Cooperation: model.CooperationStats{ShareLow: 1, AveragePayoff: -25.0 / 6, Minimum: model.Low}},
	}
	if err := WriteHistoryCSV(&buf, model.RuleSocial, history); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := "round,share_low,share_medium,share_high,avg_payoff\n" +
		"0,33.3,50.0,16.7,0.00\n" +
		"1,100.0,0.0,0.0,-4.17\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteHistoryCSVUnknownRule(t *testing.T) {
	if err := WriteHistoryCSV(&bytes.Buffer{}, model.Rule("chess"), nil); err == nil {
		t.Fatal("expected unsupported rule error")
	}
}

func TestListRunIndexOrdersWithinTheSameSecond(t *testing.T) {
	baseDir := t.TempDir()
	older := IndexEntry(geneticArtifacts("older", "2026-01-01T00:00:05Z"))
	newer := IndexEntry(geneticArtifacts("newer", "2026-01-01T00:00:05.5Z"))
	for _, entry := range []RunIndexEntry{older, newer} {
		if err := AppendRunIndex(baseDir, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(index) != 2 || index[0].RunID != "newer" {
		t.Fatalf("expected newer first, got %+v", index)
	}
}
