// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"container/list"
	"sync"
)

// lru is a generic, size-and-byte-bounded LRU cache used for the
// storage layer's two read caches and its write-through cache.
// capBytes, when > 0, adds a byte bound to the entry-count bound; the
// store opens all three caches with capBytes 0, so each is bounded by
// entry count only.
//
// Unlike a plain capacity-bounded cache, evictions and fullness are
// not purely the caller's concern: onEvict fires for every entry the
// cache itself displaces (the read caches use it to count evictions
// into storage.stats), and Full reports when the entry count has
// reached capEntries so a write-through cache can trigger its own
// flush-to-durable-storage step without the caller re-deriving the
// capacity check from its own config.
type lru[K comparable, V any] struct {
	mu          sync.Mutex
	ll          *list.List
	entries     map[K]*list.Element
	capEntries  int
	capBytes    int
	curBytes    int
	sizeOfValue func(V) int
	onEvict     func(K, V)
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
	size  int
}

// newLRU creates an LRU bounded by capEntries entries and, if capBytes
// > 0, by capBytes total size as measured by sizeOfValue. onEvict, if
// non-nil, is called synchronously for every entry the cache evicts to
// make room for a new one; it must not call back into the same cache.
func newLRU[K comparable, V any](capEntries, capBytes int, sizeOfValue func(V) int, onEvict func(K, V)) *lru[K, V] {
	if capEntries <= 0 {
		capEntries = 1
	}
	if capBytes < 0 {
		capBytes = 0
	}
	return &lru[K, V]{
		ll:          list.New(),
		entries:     make(map[K]*list.Element, capEntries),
		capEntries:  capEntries,
		capBytes:    capBytes,
		sizeOfValue: sizeOfValue,
		onEvict:     onEvict,
	}
}

func (l *lru[K, V]) Get(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if el, ok := l.entries[k]; ok {
		l.ll.MoveToFront(el)
		en := el.Value.(lruEntry[K, V])
		return en.value, true
	}
	var zero V
	return zero, false
}

func (l *lru[K, V]) Peek(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[k]
	return ok
}

func (l *lru[K, V]) Put(k K, v V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if el, ok := l.entries[k]; ok {
		en := el.Value.(lruEntry[K, V])
		l.curBytes -= en.size
		en.value = v
		en.size = l.sizeOfValue(v)
		el.Value = en
		l.curBytes += en.size
		l.ll.MoveToFront(el)
		l.evict()
		return
	}

	en := lruEntry[K, V]{key: k, value: v, size: l.sizeOfValue(v)}
	el := l.ll.PushFront(en)
	l.entries[k] = el
	l.curBytes += en.size
	l.evict()
}

// Len returns the current number of cached entries.
func (l *lru[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ll.Len()
}

// Full reports whether the cache currently holds capEntries entries,
// the threshold at which the next Put evicts. The write-through cache
// uses this to decide when to flush, instead of the caller comparing
// Len() against its own copy of the capacity.
func (l *lru[K, V]) Full() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ll.Len() >= l.capEntries
}

// Clear evicts every entry, used when the write-through cache is
// flushed.
func (l *lru[K, V]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ll.Init()
	l.entries = make(map[K]*list.Element, l.capEntries)
	l.curBytes = 0
}

// Snapshot returns a copy of every cached value, used to flush the
// write-through cache to durable storage before clearing it.
func (l *lru[K, V]) Snapshot() []V {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]V, 0, l.ll.Len())
	for el := l.ll.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(lruEntry[K, V]).value)
	}
	return out
}

func (l *lru[K, V]) evict() {
	for (l.capEntries > 0 && l.ll.Len() > l.capEntries) || (l.capBytes > 0 && l.curBytes > l.capBytes) {
		el := l.ll.Back()
		if el == nil {
			return
		}
		en := el.Value.(lruEntry[K, V])
		delete(l.entries, en.key)
		l.curBytes -= en.size
		l.ll.Remove(el)
		if l.onEvict != nil {
			l.onEvict(en.key, en.value)
		}
	}
}
