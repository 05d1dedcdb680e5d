// Package feed layers caching, retries and request dedupe on top of a
// workouts.Provider, the way the mobile app's query client does.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/claude/fitfeed/internal/metrics"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/coocood/freecache"
	"golang.org/x/sync/singleflight"
)

const (
	keyWorkouts     = "workouts"
	keyDetailPrefix = "workout::"

	minCacheBytes = 512 * 1024
)

// Options configures a Loader. Zero values disable the matching feature.
type Options struct {
	StaleTime  time.Duration
	Retries    int
	Backoff    time.Duration
	CacheBytes int
	Metrics    *metrics.Manager
	Log        *slog.Logger
}

// Loader serves workouts through a staleness cache. It is safe for
// concurrent use; every caller receives its own copy of the data.
type Loader struct {
	provider workouts.Provider
	cache    *freecache.Cache
	ttl      int
	retries  int
	backoff  time.Duration
	group    singleflight.Group
	metrics  *metrics.Manager
	log      *slog.Logger

	mu      sync.Mutex
	gen     uint64
	flights map[string]*flight
}

// flight is one shared provider load. Its context outlives any single
// caller and is cancelled once the last waiter has gone.
type flight struct {
	key     string
	gen     uint64
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New creates a Loader over p.
func New(p workouts.Provider, opts Options) *Loader {
	size := opts.CacheBytes
	if size < minCacheBytes {
		size = minCacheBytes
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		provider: p,
		cache:    freecache.NewCache(size),
		ttl:      int(opts.StaleTime / time.Second),
		retries:  max(opts.Retries, 0),
		backoff:  opts.Backoff,
		metrics:  opts.Metrics,
		log:      log,
		flights:  make(map[string]*flight),
	}
}

// Workouts returns the workout list, from cache while it is fresh.
func (l *Loader) Workouts(ctx context.Context) ([]models.Workout, error) {
	var out []models.Workout
	err := l.load(ctx, keyWorkouts, &out, func(ctx context.Context) (any, error) {
		return l.provider.GetWorkouts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WorkoutDetail returns one workout's detail, from cache while it is fresh.
func (l *Loader) WorkoutDetail(ctx context.Context, id int) (*models.WorkoutDetail, error) {
	var out models.WorkoutDetail
	err := l.load(ctx, keyDetailPrefix+strconv.Itoa(id), &out, func(ctx context.Context) (any, error) {
		return l.provider.GetWorkoutDetail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Invalidate drops every cached entry so the next load hits the provider.
// Loads already in flight still answer their callers but are not cached,
// and later callers do not join them.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.cache.Clear()
}

var _ workouts.Provider = (*Loader)(nil)

// GetWorkouts and GetWorkoutDetail let a Loader stand in for a Provider.
func (l *Loader) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	return l.Workouts(ctx)
}

func (l *Loader) GetWorkoutDetail(ctx context.Context, id int) (*models.WorkoutDetail, error) {
	return l.WorkoutDetail(ctx, id)
}

// load decodes the cached or freshly fetched JSON for key into dst.
func (l *Loader) load(ctx context.Context, key string, dst any, fetch func(context.Context) (any, error)) error {
	if data, err := l.cache.Get([]byte(key)); err == nil {
		if err := json.Unmarshal(data, dst); err == nil {
			l.metrics.FeedLoad("hit")
			return nil
		}
		l.log.Warn("feed: dropping undecodable cache entry", "key", key)
		l.cache.Del([]byte(key))
	}

	f := l.join(ctx, key)
	defer l.leave(f)

	ch := l.group.DoChan(f.key, func() (any, error) {
		data, err := l.fetchWithRetry(f.ctx, fetch)
		if err != nil {
			return nil, err
		}
		l.store(key, data, f.gen)
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		l.metrics.FeedLoad("error")
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		l.metrics.FeedLoad("error")
		return res.Err
	}
	l.metrics.FeedLoad("miss")
	if res.Shared {
		l.log.Debug("feed: shared in-flight load", "key", key)
	}

	if err := json.Unmarshal(res.Val.([]byte), dst); err != nil {
		return fmt.Errorf("feed: decode %s: %w", key, err)
	}
	return nil
}

// join registers the caller as a waiter on the current generation's load
// for key, creating the flight if there is none.
func (l *Loader) join(ctx context.Context, key string) *flight {
	l.mu.Lock()
	defer l.mu.Unlock()
	fkey := key + "@" + strconv.FormatUint(l.gen, 10)
	f := l.flights[fkey]
	if f == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{key: fkey, gen: l.gen, ctx: fctx, cancel: cancel}
		l.flights[fkey] = f
	}
	f.waiters++
	return f
}

func (l *Loader) leave(f *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if l.flights[f.key] == f {
		delete(l.flights, f.key)
		l.group.Forget(f.key)
	}
}

// store caches data unless the cache was invalidated after the load began.
func (l *Loader) store(key string, data []byte, gen uint64) {
	if l.ttl <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		l.log.Debug("feed: dropping load from before invalidate", "key", key)
		return
	}
	if err := l.cache.Set([]byte(key), data, l.ttl); err != nil {
		l.log.Warn("feed: cache set failed", "key", key, "size", len(data), "error", err)
	}
}

func (l *Loader) fetchWithRetry(ctx context.Context, fetch func(context.Context) (any, error)) ([]byte, error) {
	var lastErr error
	for attempt := range l.retries + 1 {
		if attempt > 0 {
			l.metrics.FeedRetry()
			l.log.Info("feed: retrying", "attempt", attempt, "error", lastErr)
			if err := sleepCtx(ctx, l.backoff<<(attempt-1)); err != nil {
				return nil, fmt.Errorf("feed: after %d attempts: %w", attempt, lastErr)
			}
		}

		v, err := fetch(ctx)
		if err == nil {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("feed: encode: %w", err)
			}
			return data, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
	}
	if l.retries > 0 && Retryable(lastErr) {
		return nil, fmt.Errorf("feed: after %d attempts: %w", l.retries+1, lastErr)
	}
	return nil, lastErr
}

// Retryable reports whether a provider error is worth another attempt:
// transport failures and 5xx responses are, parse errors and 4xx are not.
// A cancelled or expired context is never retried.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne *workouts.NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var se *workouts.ServerError
	return errors.As(err, &se) && se.StatusCode >= http.StatusInternalServerError
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
