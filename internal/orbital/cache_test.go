package orbital

import "testing"

func TestPositionCacheMemoizes(t *testing.T) {
	t.Parallel()
	nodes := map[int32]Node{
		3: {ID: 3, Elements: Elements{SemiMajorAxis: 42}},
	}
	pc := NewPositionCache()

	first := pc.ChainPositionCached(100, 3, nodes)
	if pc.Len() != 1 {
		t.Fatalf("Len() after first call = %d, want 1", pc.Len())
	}

	// Mutate nodes after caching; a cache hit should still return the
	// stale (cached) value rather than recomputing.
	delete(nodes, 3)
	second := pc.ChainPositionCached(100, 3, nodes)
	if second != first {
		t.Errorf("ChainPositionCached() on cache hit = %+v, want %+v (cached)", second, first)
	}
}

func TestPositionCacheInvalidateSystem(t *testing.T) {
	t.Parallel()
	nodes := map[int32]Node{1: {ID: 1, Elements: Elements{SemiMajorAxis: 1}}}
	pc := NewPositionCache()

	pc.ChainPositionCached(1, 1, nodes)
	pc.ChainPositionCached(2, 1, nodes)
	if pc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", pc.Len())
	}

	pc.InvalidateSystem(1)
	if pc.Len() != 1 {
		t.Errorf("Len() after InvalidateSystem(1) = %d, want 1", pc.Len())
	}
}
