package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"glyco/defs"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes reports per reading set and configuration, evicting the
// least recently used entry beyond its size. Concurrent requests for the
// same key share a single computation.
type Cache struct {
	Logger *zap.Logger

	group   singleflight.Group
	entries *lru.Cache[string, *Report]
}

// NewCache holds at most size reports; a size of zero or less selects
// defs.DefaultCacheSize.
func NewCache(logger *zap.Logger, size int) (*Cache, error) {
	if size <= 0 {
		size = defs.DefaultCacheSize
	}
	entries, err := lru.New[string, *Report](size)
	if err != nil {
		return nil, fmt.Errorf("unable to create report cache: %w", err)
	}
	return &Cache{Logger: logger, entries: entries}, nil
}

// Key identifies a computation of readingSetID under req's configuration.
func Key(readingSetID string, req Request) string {
	loc := "Local"
	if req.Location != nil {
		loc = req.Location.String()
	}
	th, an := req.Thresholds, req.Analytics
	return strings.Join([]string{
		readingSetID,
		req.Filter.Key(),
		fmt.Sprintf("%g/%g/%g/%g", th.VeryLow, th.Low, th.High, th.VeryHigh),
		fmt.Sprintf("m%d", an.CategoryMode),
		fmt.Sprintf("i%d/h%d/d%g/p%d", an.RoCInterval, an.HourGroup, an.InsulinDuration, an.Precision),
		formatDay(req.Day),
		formatDay(req.ReferenceEnd),
		loc,
	}, "|")
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

// Get returns the cached report for readingSetID or builds it. The build is
// detached from ctx so one caller giving up does not fail the others
// waiting on it; ctx only bounds how long this caller waits.
func (c *Cache) Get(ctx context.Context, readingSetID string, req Request) (*Report, error) {
	key := Key(readingSetID, req)

	if rep, ok := c.entries.Get(key); ok {
		c.Logger.Debug("report cache hit", zap.String("key", key))
		return rep, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.Logger.Debug("building report", zap.String("key", key), zap.Int("readings", len(req.Glucose)))
		rep, err := Build(buildCtx, req)
		if err != nil {
			return nil, err
		}
		if evicted := c.entries.Add(key, rep); evicted {
			c.Logger.Debug("evicted least recently used report")
		}
		return rep, nil
	})

	select {
	case <-ctx.Done():
		c.Logger.Debug("stopped waiting for report", zap.String("key", key), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.Logger.Debug("unable to build report", zap.String("key", key), zap.Error(res.Err))
			return nil, res.Err
		}
		if res.Shared {
			c.Logger.Debug("shared in-flight report", zap.String("key", key))
		}
		return res.Val.(*Report), nil
	}
}

// Invalidate drops every entry computed from readingSetID.
func (c *Cache) Invalidate(readingSetID string) {
	prefix := readingSetID + "|"
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
