package userpage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluele/gcache"

	"github.com/joestump/trail-mix/internal/metrics"
)

// ErrNoController is returned by Registry.Get when no live controller is
// held for the key, either because the page was never activated or because
// it expired.
var ErrNoController = errors.New("userpage: no active controller")

// Registry keeps the live controller of each open user page between
// requests. Entries expire ttl after they are stored or when the LRU is
// full; an evicted controller is deactivated.
type Registry struct {
	mu    sync.Mutex // guards Put and Remove
	cache gcache.Cache
}

// NewRegistry builds a Registry holding at most size controllers, each
// dropped ttl after it was stored. A zero ttl disables expiry.
func NewRegistry(size int, ttl time.Duration) *Registry {
	if size <= 0 {
		size = 1024
	}
	release := func(_, value interface{}) {
		if c, ok := value.(*Controller); ok {
			c.Deactivate()
		}
		metrics.ActiveControllers.Dec()
	}
	b := gcache.New(size).LRU().
		EvictedFunc(release).
		PurgeVisitorFunc(release)
	if ttl > 0 {
		b = b.Expiration(ttl)
	}
	return &Registry{cache: b.Build()}
}

// Key returns the registry key for a visitor's session and a profile id.
func Key(sessionToken, profileID string) string {
	return sessionToken + "|" + profileID
}

// Put stores c under key, deactivating whatever controller it replaces.
func (r *Registry) Put(key string, c *Controller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(key)
	if err := r.cache.Set(key, c); err != nil {
		return fmt.Errorf("store controller: %w", err)
	}
	metrics.ActiveControllers.Inc()
	return nil
}

// Get returns the live controller for key.
func (r *Registry) Get(key string) (*Controller, error) {
	v, err := r.cache.Get(key)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return nil, ErrNoController
		}
		return nil, err
	}
	c, ok := v.(*Controller)
	if !ok {
		return nil, ErrNoController
	}
	return c, nil
}

// Remove drops and deactivates the controller under key, if any.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(key)
}

func (r *Registry) remove(key string) {
	if v, err := r.cache.Get(key); err == nil {
		if c, ok := v.(*Controller); ok {
			c.Deactivate()
		}
		r.cache.Remove(key)
	}
}

// Sweep deactivates and drops every expired controller and returns how
// many it collected. gcache only notices expiry on access, so without a
// sweep an idle expired entry keeps its controller and stays counted in
// the active-controllers gauge.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, key := range r.cache.Keys(false) {
		if r.cache.Has(key) {
			continue
		}
		// Get on an expired entry removes it and runs the eviction callback.
		if _, err := r.cache.Get(key); errors.Is(err, gcache.KeyNotFoundError) {
			n++
		}
	}
	return n
}

// Run sweeps the registry every interval until ctx is done. A non-positive
// interval disables sweeping.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// Len reports how many controllers are held, counting expired entries that
// have not been collected yet.
func (r *Registry) Len() int {
	return r.cache.Len(false)
}

// Purge deactivates every held controller.
func (r *Registry) Purge() {
	r.cache.Purge()
}
