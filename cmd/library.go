package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pable/cs-logstats/internal/loader"
	"github.com/pable/cs-logstats/internal/log"
	"github.com/pable/cs-logstats/internal/model"
	"github.com/pable/cs-logstats/internal/pipeline"
	"github.com/pable/cs-logstats/internal/storage"
)

// openLibrary opens the configured database, creating its directory first.
func openLibrary() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadAndRun reads source and runs the stats pipeline over it.
func loadAndRun(ctx context.Context, source string) (*pipeline.Result, string, error) {
	raw, err := loader.New().Load(ctx, source)
	if err != nil {
		return nil, "", err
	}
	slog.Debug("Loaded log", slog.String("source", source), slog.Int("bytes", len(raw)))

	res, err := pipeline.Run(raw)
	if err != nil {
		return nil, raw, err
	}
	return res, raw, nil
}

// summarize builds the library record for a computed log.
func summarize(source, raw string, res *pipeline.Result) model.LogSummary {
	return model.LogSummary{
		Hash:    storage.HashLog(raw),
		Source:  source,
		MapName: res.MapName,
		Rounds:  len(res.RoundStats),
		Score:   res.FinalScore(),
		Size:    int64(len(raw)),
	}
}

// storedLog recomputes the stats for the stored log matching prefix.
// Returns a nil summary when nothing matches.
func storedLog(db *storage.DB, prefix string) (*model.LogSummary, *pipeline.Result, error) {
	summary, raw, err := db.GetLogByPrefix(prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("query log: %w", err)
	}
	if summary == nil {
		return nil, nil, nil
	}
	res, err := pipeline.Run(raw)
	if err != nil {
		return summary, nil, fmt.Errorf("log %s: %w", shortHash(summary.Hash), err)
	}
	return summary, res, nil
}

// selectRounds narrows stats to one round (round > 0) or the last one.
func selectRounds(stats []model.RoundStats, round int, final bool) ([]model.RoundStats, error) {
	switch {
	case round > 0:
		if round > len(stats) {
			return nil, fmt.Errorf("round %d out of range: log has %d rounds", round, len(stats))
		}
		return stats[round-1 : round], nil
	case final:
		if len(stats) == 0 {
			return nil, nil
		}
		return stats[len(stats)-1:], nil
	default:
		return stats, nil
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// recomputeAll runs the pipeline over every stored log in parallel. Logs that
// no longer score are skipped with a warning. Results keep library order.
func recomputeAll(ctx context.Context, db *storage.DB) ([]model.LogSummary, [][]model.RoundStats, error) {
	summaries, raws, err := db.GetAllRawLogs()
	if err != nil {
		return nil, nil, fmt.Errorf("load logs: %w", err)
	}

	stats := make([][]model.RoundStats, len(raws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := pipeline.ComputeRoundStats(raw)
			if err != nil {
				slog.Warn("Skipping stored log", slog.String("hash", shortHash(summaries[i].Hash)), log.ErrAttr(err))
				return nil
			}
			stats[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return summaries, stats, nil
}
