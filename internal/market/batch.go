package market

import (
	"log/slog"
)

// Skip records why a symbol was left out of a result.
type Skip struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// Batch carries the records a fetch produced and the symbols it skipped.
// Items is never nil so an empty run encodes as [].
type Batch[T any] struct {
	Items   []T    `json:"items"`
	Skipped []Skip `json:"skipped"`
}

func newBatch[T any](capacity int) Batch[T] {
	return Batch[T]{Items: make([]T, 0, capacity), Skipped: []Skip{}}
}

func (b *Batch[T]) add(item T) { b.Items = append(b.Items, item) }

func (b *Batch[T]) skip(logger *slog.Logger, symbol string, reason error) {
	logger.Warn("skipping symbol", "symbol", symbol, "reason", reason)
	b.Skipped = append(b.Skipped, Skip{Symbol: symbol, Reason: reason.Error()})
}
