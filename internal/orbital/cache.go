package orbital

import (
	"fmt"
	"time"

	"github.com/starwatch/voyager/internal/cache"
)

// PositionCache memoizes per-body Cartesian positions so a tour replan
// triggered by a later scan doesn't recompute the full parent chain for
// bodies that haven't moved since the session's scan of them.
type PositionCache struct {
	c *cache.Cache[Vec3]
}

// NewPositionCache returns a cache keyed by "<systemAddress>:<bodyID>",
// holding each entry for 30 minutes after it is set.
func NewPositionCache() *PositionCache {
	return &PositionCache{c: cache.New[Vec3](30*time.Minute, 0)}
}

func positionKey(systemAddress int64, bodyID int32) string {
	return fmt.Sprintf("%d:%d", systemAddress, bodyID)
}

// ChainPositionCached returns ChainPosition(id, nodes), caching the
// result under (systemAddress, id) so repeated tour replans within the
// same system visit skip the chain walk entirely.
func (p *PositionCache) ChainPositionCached(systemAddress int64, id int32, nodes map[int32]Node) Vec3 {
	key := positionKey(systemAddress, id)
	if v, ok := p.c.Get(key); ok {
		return v
	}
	v := ChainPosition(id, nodes)
	p.c.Set(key, v)
	return v
}

// InvalidateSystem drops every cached position for a system. The
// cache's own mutex is its only synchronization.
func (p *PositionCache) InvalidateSystem(systemAddress int64) {
	p.c.DeleteByPrefix(fmt.Sprintf("%d:", systemAddress))
}

// Len reports the number of cached positions, for tests.
func (p *PositionCache) Len() int {
	return p.c.Len()
}
