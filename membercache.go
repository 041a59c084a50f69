package barb

import "sync"

// memberCacheKey identifies a (host type, member name) pair.
type memberCacheKey struct {
	typeName string
	member   string
}

// MemberCache memoizes a Host's reflection-based member lookups. It
// adapts the teacher's LRU snapshot cache to this domain's access
// pattern: a compiled expression re-resolves the same handful of
// (type, member) pairs on every invocation, the host type universe in
// a single process is small and bounded by the program's own source, and
// nothing here is ever invalidated mid-run — so there is no working set
// to bound and no entry to evict. A plain mutex-guarded map is the
// adaptation; see DESIGN.md for why the LRU discipline itself didn't
// carry over.
type MemberCache struct {
	mu      sync.RWMutex
	entries map[memberCacheKey]HostMember
}

// NewMemberCache returns an empty cache.
func NewMemberCache() *MemberCache {
	return &MemberCache{entries: make(map[memberCacheKey]HostMember)}
}

// Get returns the cached member for (typeName, name), if present.
func (c *MemberCache) Get(typeName, name string) (HostMember, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[memberCacheKey{typeName, name}]
	return m, ok
}

// Put installs the member resolved for (typeName, name).
func (c *MemberCache) Put(typeName, name string, member HostMember) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memberCacheKey{typeName, name}] = member
}

// Len reports the number of cached entries, chiefly for tests.
func (c *MemberCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
