// Package evogame runs simulations end to end: a run is set up, driven to
// completion, archived in the run store and written out as artifacts.
package evogame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"evogame/internal/engine"
	"evogame/internal/logging"
	"evogame/internal/model"
	"evogame/internal/stats"
	"evogame/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
	defaultDBPath       = "evogame.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       *slog.Logger
}

type Client struct {
	store  storage.Store
	logger *slog.Logger

	initOnce sync.Once
	initErr  error

	artifactsDir string
	exportsDir   string

	now func() time.Time
}

type RunRequest struct {
	Params model.Params
	// Observe, when set, sees every record as it is produced, round 0
	// included.
	Observe func(model.HistoryRecord)
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Params       model.Params
	Target       model.Strategy
	History      []model.HistoryRecord
	Population   engine.Population
}

// Final returns the last history record.
func (s RunSummary) Final() model.HistoryRecord {
	return s.History[len(s.History)-1]
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Rule           model.Rule
	Seed           float64
	PopulationSize int
	Rounds         int
	FinalFigure    float64
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		logger:       logger,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
		now:          time.Now,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Init prepares the run store. Other methods call it on demand.
func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Run sets up an engine with req.Params, runs it for the full horizon, then
// archives the result and writes its artifacts.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	eng := engine.New(engine.WithLogger(c.logger))
	if err := eng.Setup(req.Params); err != nil {
		return RunSummary{}, err
	}
	if req.Observe != nil {
		rec, err := eng.Latest()
		if err != nil {
			return RunSummary{}, err
		}
		req.Observe(rec)
	}
	for eng.Round() < req.Params.Horizon() {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, err
		}
		rec, err := eng.Step()
		if err != nil {
			return RunSummary{}, err
		}
		if req.Observe != nil {
			req.Observe(rec)
		}
	}

	population, err := eng.Population()
	if err != nil {
		return RunSummary{}, err
	}
	runID := uuid.NewString()
	createdAt := model.Timestamp(c.now())
	history := eng.History()

	record := storage.Stamp(model.RunRecord{
		ID:           runID,
		Params:       req.Params,
		Target:       population.Target,
		History:      history,
		CreatedAtUTC: createdAt,
	})
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("archive run %s: %w", runID, err)
	}

	artifacts := stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:        runID,
			Params:       req.Params,
			Target:       population.Target,
			CreatedAtUTC: createdAt,
		},
		History: history,
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, artifacts)
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.IndexEntry(artifacts)); err != nil {
		return RunSummary{}, err
	}

	c.logger.Info("run finished",
		"run_id", runID,
		"rule", req.Params.Rule,
		"rounds", len(history)-1,
		"final", history[len(history)-1].Figure(req.Params.Rule),
	)

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Params:       req.Params,
		Target:       population.Target,
		History:      history,
		Population:   population,
	}, nil
}

// Runs lists archived runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		item := RunItem{
			RunID:          run.ID,
			CreatedAtUTC:   run.CreatedAtUTC,
			Rule:           run.Params.Rule,
			Seed:           run.Params.Seed,
			PopulationSize: run.Params.PopulationSize,
			Rounds:         run.Params.Horizon(),
		}
		if n := len(run.History); n > 0 {
			item.FinalFigure = run.History[n-1].Figure(run.Params.Rule)
		}
		out = append(out, item)
	}
	return out, nil
}

// History returns an archived run's records, truncated to Limit when set.
func (c *Client) History(ctx context.Context, req HistoryRequest) (model.RunRecord, error) {
	if req.RunID != "" && req.Latest {
		return model.RunRecord{}, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return model.RunRecord{}, errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return model.RunRecord{}, err
	}

	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return model.RunRecord{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run not found: %s", runID)
	}
	if req.Limit > 0 && len(run.History) > req.Limit {
		run.History = run.History[:req.Limit]
	}
	return run, nil
}

// Delete removes a run from the archive. Artifacts on disk are kept.
func (c *Client) Delete(ctx context.Context, runID string) (bool, error) {
	if err := c.Init(ctx); err != nil {
		return false, err
	}
	return c.store.DeleteRun(ctx, runID)
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if !latest {
		if runID == "" {
			return "", errors.New("run id or latest is required")
		}
		return runID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[0].ID, nil
}
