// Package cache holds the per-endpoint payload cache shared by every route.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key names one logical endpoint. Each key holds at most one entry.
type Key string

const (
	KeyIndices          Key = "indices"
	KeyForex            Key = "forex"
	KeyCrypto           Key = "crypto"
	KeyCommodities      Key = "commodities"
	KeyAllMovers        Key = "all-movers"
	KeyForexHeatmap     Key = "forex-heatmap"
	KeyCryptoHeatmap    Key = "crypto-heatmap"
	KeyEconomicCalendar Key = "economic-calendar"
	KeyJSEStocks        Key = "jse-stocks"
	KeyUSStocks         Key = "us-stocks"
)

// Keys lists every key in a stable order.
var Keys = []Key{
	KeyIndices, KeyForex, KeyCrypto, KeyCommodities, KeyAllMovers,
	KeyForexHeatmap, KeyCryptoHeatmap, KeyEconomicCalendar, KeyJSEStocks, KeyUSStocks,
}

// ErrMiss is returned by Peek when no fresh entry exists.
var ErrMiss = errors.New("cache miss")

const loadTimeout = 2 * time.Minute

// Entry is a cached payload and the moment it was written.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	WrittenAt time.Time       `json:"writtenAt"`
}

// Store persists entries. Set replaces the whole entry for a key.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Set(ctx context.Context, key Key, e Entry, ttl time.Duration) error
	Ping(ctx context.Context) error
	Name() string
}

// TTLs maps every key to its time-to-live.
type TTLs map[Key]time.Duration

// TTLConfig groups the four TTL classes.
type TTLConfig struct {
	Quotes   time.Duration
	Movers   time.Duration
	Heatmap  time.Duration
	Calendar time.Duration
}

var DefaultTTLConfig = TTLConfig{
	Quotes:   60 * time.Second,
	Movers:   120 * time.Second,
	Heatmap:  5 * time.Minute,
	Calendar: 6 * time.Hour,
}

// Table expands the TTL classes into a per-key table.
func (c TTLConfig) Table() TTLs {
	return TTLs{
		KeyIndices:          c.Quotes,
		KeyForex:            c.Quotes,
		KeyCrypto:           c.Quotes,
		KeyCommodities:      c.Quotes,
		KeyJSEStocks:        c.Quotes,
		KeyUSStocks:         c.Quotes,
		KeyAllMovers:        c.Movers,
		KeyForexHeatmap:     c.Heatmap,
		KeyCryptoHeatmap:    c.Heatmap,
		KeyEconomicCalendar: c.Calendar,
	}
}

// Cache serves fresh entries and runs at most one loader per key at a time.
type Cache struct {
	store  Store
	ttls   TTLs
	now    func() time.Time
	group  singleflight.Group
	logger *slog.Logger
}

// New builds a cache. A nil clock uses time.Now.
func New(store Store, ttls TTLs, now func() time.Time, logger *slog.Logger) *Cache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:  store,
		ttls:   ttls,
		now:    now,
		logger: logger.With("component", "cache", "store", store.Name()),
	}
}

// TTL returns the time-to-live configured for key.
func (c *Cache) TTL(key Key) time.Duration { return c.ttls[key] }

// Backend returns the store name and its health.
func (c *Cache) Backend(ctx context.Context) (string, error) {
	return c.store.Name(), c.store.Ping(ctx)
}

func (c *Cache) fresh(e Entry, key Key) bool {
	return c.now().Sub(e.WrittenAt) < c.ttls[key]
}

// Peek returns the entry for key if it is still fresh.
func (c *Cache) Peek(ctx context.Context, key Key) (Entry, error) {
	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("store read failed, treating as miss", "key", key, "error", err)
		return Entry{}, ErrMiss
	}
	if !ok || !c.fresh(e, key) {
		return Entry{}, ErrMiss
	}
	return e, nil
}

// Load returns the fresh payload for key, or runs load and stores its result.
// Loader errors are returned and never cached.
func (c *Cache) Load(ctx context.Context, key Key, load func(context.Context) (any, error)) (json.RawMessage, error) {
	if e, err := c.Peek(ctx, key); err == nil {
		return e.Payload, nil
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		// Another flight may have finished between Peek and Do.
		if e, err := c.Peek(ctx, key); err == nil {
			return e.Payload, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		started := c.now()
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}

		entry := Entry{Payload: payload, WrittenAt: c.now()}
		if err := c.store.Set(loadCtx, key, entry, c.ttls[key]); err != nil {
			c.logger.Warn("store write failed", "key", key, "error", err)
		}
		c.logger.Debug("cache refreshed", "key", key, "took", entry.WrittenAt.Sub(started), "bytes", len(payload))
		return json.RawMessage(payload), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// Fetch is the typed form of Load.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	var out T
	payload, err := c.Load(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// EntryStatus describes one key for health reporting.
type EntryStatus struct {
	Key     Key    `json:"key"`
	Cached  bool   `json:"cached"`
	Fresh   bool   `json:"fresh"`
	AgeSec  int64  `json:"ageSec"`
	TTLSec  int64  `json:"ttlSec"`
	Written string `json:"written,omitempty"`
}

// Status reports every known key.
func (c *Cache) Status(ctx context.Context) []EntryStatus {
	out := make([]EntryStatus, 0, len(Keys))
	for _, key := range Keys {
		st := EntryStatus{Key: key, TTLSec: int64(c.ttls[key].Seconds())}
		if e, ok, err := c.store.Get(ctx, key); err == nil && ok {
			st.Cached = true
			st.Fresh = c.fresh(e, key)
			st.AgeSec = int64(c.now().Sub(e.WrittenAt).Seconds())
			st.Written = e.WrittenAt.UTC().Format(time.RFC3339)
		}
		out = append(out, st)
	}
	return out
}
