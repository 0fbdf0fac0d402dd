package omission

import (
	"context"
	"log/slog"

	"github.com/gst-factory/partner-kpi/internal/model"
)

// LoadFunc loads the snapshot records of a period.
type LoadFunc func(ctx context.Context, period model.Period) ([]model.SnapshotRecord, error)

// Cache keeps the snapshot records of the last loaded period so that the
// report and the artifact of one month share a single download. Asking for
// another period replaces the entry. A Cache is not safe for concurrent use.
type Cache struct {
	logger  *slog.Logger
	records []model.SnapshotRecord
	period  model.Period
	loaded  bool
}

// NewCache creates an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{logger: logger}
}

// Get returns the records of period, calling load only when the cache holds
// nothing or holds another period. Failed loads are not cached.
func (c *Cache) Get(ctx context.Context, period model.Period, load LoadFunc) ([]model.SnapshotRecord, error) {
	if c.loaded && c.period == period {
		c.logger.Debug("Using cached snapshot records", "period", period.String(), "records", len(c.records))
		return c.records, nil
	}

	if c.loaded {
		c.logger.Debug("Snapshot cache holds another period, reloading",
			"cached", c.period.String(),
			"requested", period.String())
	}

	records, err := load(ctx, period)
	if err != nil {
		return nil, err
	}

	c.period = period
	c.records = records
	c.loaded = true
	return records, nil
}

// Invalidate drops the cached records.
func (c *Cache) Invalidate() {
	c.records = nil
	c.period = model.Period{}
	c.loaded = false
}
