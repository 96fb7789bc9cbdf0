package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"evogame/internal/model"
)

const (
	runIndexFile = "run_index.json"

	configFile     = "config.json"
	historyFile    = "history.json"
	historyCSVFile = "history.csv"
)

type RunConfig struct {
	RunID        string         `json:"run_id"`
	Params       model.Params   `json:"params"`
	Target       model.Strategy `json:"target,omitempty"`
	CreatedAtUTC string         `json:"created_at_utc"`
}

type RunArtifacts struct {
	Config  RunConfig             `json:"config"`
	History []model.HistoryRecord `json:"history"`
}

type RunIndexEntry struct {
	RunID          string     `json:"run_id"`
	Rule           model.Rule `json:"rule"`
	PopulationSize int        `json:"population_size"`
	Rounds         int        `json:"rounds"`
	Seed           float64    `json:"seed"`
	FinalFigure    float64    `json:"final_figure"`
	CreatedAtUTC   string     `json:"created_at_utc"`
}

// IndexEntry summarises artifacts for run_index.json. FinalFigure is the
// last record's average payoff or best fitness.
func IndexEntry(artifacts RunArtifacts) RunIndexEntry {
	cfg := artifacts.Config
	entry := RunIndexEntry{
		RunID:          cfg.RunID,
		Rule:           cfg.Params.Rule,
		PopulationSize: cfg.Params.PopulationSize,
		Rounds:         cfg.Params.Horizon(),
		Seed:           cfg.Params.Seed,
		CreatedAtUTC:   cfg.CreatedAtUTC,
	}
	if n := len(artifacts.History); n > 0 {
		entry.FinalFigure = artifacts.History[n-1].Figure(cfg.Params.Rule)
	}
	return entry
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, historyFile), artifacts.History); err != nil {
		return "", err
	}

	file, err := os.Create(filepath.Join(runDir, historyCSVFile))
	if err != nil {
		return "", err
	}
	defer file.Close()
	if err := WriteHistoryCSV(file, artifacts.Config.Params.Rule, artifacts.History); err != nil {
		return "", err
	}

	return runDir, file.Sync()
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns index entries newest first. Entries with equal
// timestamps keep the most recently appended one first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := entries[order[i]], entries[order[j]]
		if model.NewerThan(a.CreatedAtUTC, b.CreatedAtUTC) {
			return true
		}
		if model.NewerThan(b.CreatedAtUTC, a.CreatedAtUTC) {
			return false
		}
		return order[i] > order[j]
	})

	sorted := make([]RunIndexEntry, 0, len(entries))
	for _, idx := range order {
		sorted = append(sorted, entries[idx])
	}
	return sorted, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{configFile, historyFile, historyCSVFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, configFile), &cfg)
	return cfg, ok, err
}

func ReadRunHistory(baseDir, runID string) ([]model.HistoryRecord, bool, error) {
	var history []model.HistoryRecord
	ok, err := readJSON(filepath.Join(baseDir, runID, historyFile), &history)
	return history, ok, err
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
