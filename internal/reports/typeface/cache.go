package typeface

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const loadKey = "typefaces"

// CacheConfig names the two typeface locations and bounds the shared load
type CacheConfig struct {
	RegularLocation string        `json:"regular_location" yaml:"regular_location"`
	BoldLocation    string        `json:"bold_location" yaml:"bold_location"`
	LoadTimeout     time.Duration `json:"load_timeout" yaml:"load_timeout"`
}

// DefaultCacheConfig returns the embedded fallback fonts with a 30s load timeout
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		RegularLocation: SchemeEmbedded + ":regular",
		BoldLocation:    SchemeEmbedded + ":bold",
		LoadTimeout:     30 * time.Second,
	}
}

// Cache loads the regular and bold typefaces once and keeps them for the
// lifetime of the process. Concurrent callers on a cold cache share a single
// in-flight load. A failed load caches nothing, so the next call retries.
type Cache struct {
	source Source
	config CacheConfig
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	set   *Set
	loads atomic.Int64
}

// NewCache creates a cold typeface cache
func NewCache(source Source, config CacheConfig, logger *zap.Logger) *Cache {
	return &Cache{
		source: source,
		config: config,
		logger: logger,
	}
}

// Acquire returns the cached typefaces, loading them first if needed.
// Cancelling ctx abandons only this caller's wait; the shared load keeps
// running for the other waiters.
func (c *Cache) Acquire(ctx context.Context) (*Set, error) {
	if set := c.cached(); set != nil {
		return set, nil
	}

	ch := c.group.DoChan(loadKey, func() (interface{}, error) {
		// a previous flight may have finished between cached() and DoChan
		if set := c.cached(); set != nil {
			return set, nil
		}

		set, err := c.load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.set = set
		c.mu.Unlock()
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Set), nil
	}
}

// Warm reports whether the typefaces are loaded
func (c *Cache) Warm() bool {
	return c.cached() != nil
}

// Loads returns how many underlying loads have been started
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

func (c *Cache) cached() *Set {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// load fetches both typefaces concurrently on a context detached from any
// single caller.
func (c *Cache) load() (*Set, error) {
	c.loads.Add(1)
	start := time.Now()

	ctx := context.Background()
	if c.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.LoadTimeout)
		defer cancel()
	}

	var regular, bold *Face
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := c.loadFace(gctx, c.config.RegularLocation)
		regular = f
		return err
	})
	g.Go(func() error {
		f, err := c.loadFace(gctx, c.config.BoldLocation)
		bold = f
		return err
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn("Failed to load typefaces", zap.Error(err))
		return nil, err
	}

	c.logger.Info("Typefaces loaded",
		zap.String("regular", c.config.RegularLocation),
		zap.String("bold", c.config.BoldLocation),
		zap.Duration("elapsed", time.Since(start)))

	return &Set{Regular: regular, Bold: bold}, nil
}

func (c *Cache) loadFace(ctx context.Context, location string) (*Face, error) {
	data, err := c.source.Fetch(ctx, location)
	if err != nil {
		return nil, &FontLoadError{Location: location, Err: err}
	}
	face, err := NewFace(location, data)
	if err != nil {
		return nil, &FontLoadError{Location: location, Err: err}
	}
	return face, nil
}
