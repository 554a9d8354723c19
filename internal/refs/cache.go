// Package refs remembers the last identifier observed for each entity kind so
// that dependent commands ("get the current order") have a default input.
//
// Slots are last-write-wins and never invalidated. A cached identifier may
// point at an entity that was since deleted server-side; the server is
// expected to reject it and the operator can always pass an explicit id.
package refs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind names an entity slot.
type Kind string

const (
	KindUser     Kind = "user"
	KindProduct  Kind = "product"
	KindService  Kind = "service"
	KindResource Kind = "resource"
	KindOrder    Kind = "order"
)

// Kinds lists every slot in display order.
func Kinds() []Kind {
	return []Kind{KindUser, KindProduct, KindService, KindResource, KindOrder}
}

// ParseKind validates a slot name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k.Valid() {
		return k, nil
	}
	names := make([]string, 0, len(Kinds()))
	for _, kind := range Kinds() {
		names = append(names, string(kind))
	}
	return "", fmt.Errorf("unknown entity kind %q (want one of %s)", s, strings.Join(names, ", "))
}

// Valid reports whether k is a known slot.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindProduct, KindService, KindResource, KindOrder:
		return true
	}
	return false
}

// Cache holds one identifier per kind.
type Cache struct {
	mu    sync.RWMutex
	slots map[Kind]string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{slots: make(map[Kind]string, len(Kinds()))}
}

// RecordCreated sets the slot for kind to id. Empty ids and unknown kinds are
// ignored; the return value reports whether the slot changed hands.
func (c *Cache) RecordCreated(kind Kind, id string) bool {
	if !kind.Valid() || id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[kind] = id
	return true
}

// RecordFirstOfList caches the first identifier of a listing. An empty
// listing leaves the slot untouched.
func (c *Cache) RecordFirstOfList(kind Kind, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	return c.RecordCreated(kind, ids[0])
}

// Get returns the cached identifier for kind.
func (c *Cache) Get(kind Kind) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.slots[kind]
	return id, ok
}

// Snapshot copies all populated slots.
func (c *Cache) Snapshot() map[Kind]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[Kind]string, len(c.slots))
	for k, v := range c.slots {
		out[k] = v
	}
	return out
}

// Restore replaces the cache contents with slots, dropping unknown kinds and
// empty identifiers.
func (c *Cache) Restore(slots map[Kind]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = make(map[Kind]string, len(slots))
	for k, v := range slots {
		if k.Valid() && v != "" {
			c.slots[k] = v
		}
	}
}

// Populated returns the kinds that currently hold an identifier, sorted.
func (c *Cache) Populated() []Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Kind, 0, len(c.slots))
	for k := range c.slots {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
