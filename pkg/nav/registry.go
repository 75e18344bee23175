package nav

import (
	"sort"
	"sync"
)

type entry struct {
	item Item
	seq  uint64
}

func (e *entry) less(o *entry) bool {
	if e.item.Order != o.item.Order {
		return e.item.Order < o.item.Order
	}
	return e.seq < o.seq
}

// Snapshot is the result of a live-tier query.
type Snapshot struct {
	Tier  Tier
	Items []Item
	// Pending is set when the live tier is reserved by an opening overlay
	// that has not registered its items yet. Keys must be inert.
	Pending bool
}

// Empty reports whether the snapshot carries no items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// Registry is the set of currently mounted selectable items. Every list or
// menu registers its rows on mount and calls the returned function on
// unmount. Registry is safe for concurrent use, but callers should keep
// mutations on the same goroutine that handles keys so a key never observes
// a half-rendered list.
type Registry struct {
	mu       sync.RWMutex
	entries  map[itemKey]*entry
	byTier   [tierCount][]*entry // sorted by (Order, seq)
	reserved [tierCount]int
	seq      uint64
	gen      uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[itemKey]*entry)}
}

// Register adds it to the registry and returns its deregistration function.
// Registering an item whose (tier, scope, id) is already present replaces
// the earlier registration; the earlier deregistration function then becomes
// a no-op.
func (r *Registry) Register(it Item) (func(), error) {
	if err := it.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := it.key()
	if old, ok := r.entries[k]; ok {
		r.removeLocked(old)
	}
	r.seq++
	e := &entry{item: it, seq: r.seq}
	r.entries[k] = e
	r.insertLocked(e)
	r.gen++

	var once sync.Once
	return func() {
		once.Do(func() { r.deregister(e) })
	}, nil
}

// RegisterAll registers items in order and returns one function that
// deregisters all of them. Every item is validated first, so on error the
// registry is left as it was.
func (r *Registry) RegisterAll(items []Item) (func(), error) {
	for _, it := range items {
		if err := it.validate(); err != nil {
			return nil, err
		}
	}
	undo := make([]func(), 0, len(items))
	release := func() {
		for _, fn := range undo {
			fn()
		}
	}
	for _, it := range items {
		fn, err := r.Register(it)
		if err != nil {
			release()
			return nil, err
		}
		undo = append(undo, fn)
	}
	return release, nil
}

func (r *Registry) deregister(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := e.item.key()
	if cur, ok := r.entries[k]; !ok || cur != e {
		return
	}
	delete(r.entries, k)
	r.removeLocked(e)
	r.gen++
}

func (r *Registry) insertLocked(e *entry) {
	list := r.byTier[e.item.Tier]
	i := sort.Search(len(list), func(i int) bool { return e.less(list[i]) })
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = e
	r.byTier[e.item.Tier] = list
}

func (r *Registry) removeLocked(e *entry) {
	list := r.byTier[e.item.Tier]
	for i, cur := range list {
		if cur == e {
			r.byTier[e.item.Tier] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Reserve marks tier as about to receive items, typically while an overlay
// plays its opening animation. A reserved tier with no enabled items still
// counts as live, so keys are swallowed rather than reaching the page
// underneath. The returned function releases the reservation.
func (r *Registry) Reserve(tier Tier) func() {
	if !tier.Valid() {
		return func() {}
	}
	r.mu.Lock()
	r.reserved[tier]++
	r.gen++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.reserved[tier]--
			r.gen++
			r.mu.Unlock()
		})
	}
}

// QueryTier returns every item of tier in traversal order, disabled items
// included.
func (r *Registry) QueryTier(tier Tier) []Item {
	return r.QueryScope(tier, "")
}

// QueryScope is QueryTier restricted to one scope. An empty scope matches
// every item of the tier.
func (r *Registry) QueryScope(tier Tier, scope string) []Item {
	if !tier.Valid() {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(tier, scope)
}

func (r *Registry) collectLocked(tier Tier, scope string) []Item {
	list := r.byTier[tier]
	out := make([]Item, 0, len(list))
	for _, e := range list {
		if scope != "" && e.item.Scope != scope {
			continue
		}
		out = append(out, e.item)
	}
	return out
}

func (r *Registry) hasEnabledLocked(tier Tier) bool {
	for _, e := range r.byTier[tier] {
		if !e.item.Disabled {
			return true
		}
	}
	return false
}

// QueryLive returns the highest tier holding at least one enabled item, with
// all of that tier's items in traversal order. ok is false when nothing is
// registered anywhere; callers must treat that as inert.
func (r *Registry) QueryLive() (snap Snapshot, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range tiersByPriority {
		if r.hasEnabledLocked(t) {
			return Snapshot{Tier: t, Items: r.collectLocked(t, "")}, true
		}
		if r.reserved[t] > 0 {
			return Snapshot{Tier: t, Pending: true}, true
		}
	}
	return Snapshot{}, false
}

// Len returns the number of registered items across all tiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Generation increments on every mutation. Renderers can compare it to skip
// work when nothing changed.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}
