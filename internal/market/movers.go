package market

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kjannette/pulse-backend/internal/models"
)

// TopMoversLimit is the length of the ranked movers feed.
const TopMoversLimit = 10

// MoverFetcher produces mover records for one asset class.
type MoverFetcher interface {
	Movers(ctx context.Context) Batch[models.Mover]
}

// MoversReport is the cached all-movers payload. Movers is the served feed.
type MoversReport struct {
	Movers  []models.Mover `json:"movers"`
	Skipped []Skip         `json:"skipped"`
}

// Aggregator merges every asset class into one ranked feed.
type Aggregator struct {
	groups  []MoverFetcher
	indices MoverFetcher
	limit   int
	logger  *slog.Logger
}

// NewAggregator runs groups concurrently and indices after them.
func NewAggregator(groups []MoverFetcher, indices MoverFetcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		groups:  groups,
		indices: indices,
		limit:   TopMoversLimit,
		logger:  logger.With("component", "aggregator"),
	}
}

// TopMovers never fails: a group that errors or panics contributes nothing.
func (a *Aggregator) TopMovers(ctx context.Context) MoversReport {
	results := make([]Batch[models.Mover], len(a.groups))

	var g errgroup.Group
	for i, group := range a.groups {
		i, group := i, group
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("mover group panicked", "group", i, "panic", r)
					results[i] = Batch[models.Mover]{Skipped: []Skip{{Symbol: fmt.Sprintf("group-%d", i), Reason: fmt.Sprint(r)}}}
				}
			}()
			results[i] = group.Movers(ctx)
			return nil
		})
	}
	// Groups report failures as skips, so the join has no error to return.
	_ = g.Wait()

	if a.indices != nil {
		results = append(results, a.indices.Movers(ctx))
	}

	var all []models.Mover
	skipped := []Skip{}
	for _, r := range results {
		all = append(all, r.Items...)
		skipped = append(skipped, r.Skipped...)
	}

	ranked := Top(Rank(Dedupe(all)), a.limit)
	a.logger.Info("movers aggregated", "candidates", len(all), "served", len(ranked), "skipped", len(skipped))
	return MoversReport{Movers: ranked, Skipped: skipped}
}

// Dedupe keeps one record per symbol, the one with the larger absolute
// percent. On a tie the later record wins. First-seen order is kept.
func Dedupe(movers []models.Mover) []models.Mover {
	index := make(map[string]int, len(movers))
	out := make([]models.Mover, 0, len(movers))
	for _, m := range movers {
		i, seen := index[m.Symbol]
		if !seen {
			index[m.Symbol] = len(out)
			out = append(out, m)
			continue
		}
		if m.AbsPercent() >= out[i].AbsPercent() {
			out[i] = m
		}
	}
	return out
}

// Rank sorts movers by absolute percent, largest first, in place.
func Rank(movers []models.Mover) []models.Mover {
	slices.SortStableFunc(movers, func(a, b models.Mover) int {
		return cmp.Compare(b.AbsPercent(), a.AbsPercent())
	})
	return movers
}

// Top returns at most n movers. The result is never nil.
func Top(movers []models.Mover, n int) []models.Mover {
	if len(movers) > n {
		movers = movers[:n]
	}
	if movers == nil {
		return []models.Mover{}
	}
	return movers
}
