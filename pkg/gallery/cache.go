package gallery

import (
	"sync"
	"time"

	"lensfolio/pkg/domain"
)

// photoCache holds the last fetched collection for a bounded staleness
// window. Reads hit the cached snapshot while it is fresh; the only writer
// is the refresh path, which replaces the snapshot wholesale.
type photoCache struct {
	mu        sync.Mutex
	photos    []domain.Photo
	fetchedAt time.Time
	valid     bool

	ttl time.Duration
	now func() time.Time
}

func newPhotoCache(ttl time.Duration) *photoCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &photoCache{ttl: ttl, now: time.Now}
}

// get returns the cached snapshot and whether it is still fresh.
func (c *photoCache) get() ([]domain.Photo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.photos, true
}

// replace installs a new snapshot.
func (c *photoCache) replace(photos []domain.Photo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.photos = photos
	c.fetchedAt = c.now()
	c.valid = true
}

// invalidate drops the snapshot so the next read refetches.
func (c *photoCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.photos = nil
	c.valid = false
}
