// Copyright 2016 The etcd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package directory

import (
	"sync"
	"time"
)

// Cache is a small time-evicting cache of directory listings, keyed by
// path. Unlike a size-bounded LRU, entries are only ever evicted by
// expiry — a subtree walk is bounded by the server's own namespace, not
// by cache pressure.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	children []string
	expiry   time.Time
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Set stores children for key, valid until ttl elapses.
func (c *Cache) Set(key string, children []string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{children: children, expiry: time.Now().Add(ttl)}
}

// Get returns key's cached children, if present and not yet expired. A
// stale entry is evicted as a side effect of the lookup.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return e.children, true
}

// Len reports the number of entries that have not yet expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	n := 0
	for k, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, k)
			continue
		}
		n++
	}
	return n
}
