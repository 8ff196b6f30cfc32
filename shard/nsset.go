// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import "golang.org/x/exp/maps"

// NamespaceSet is a set of namespace strings owned by a shard.
type NamespaceSet map[string]struct{}

// NewNamespaceSet returns an empty NamespaceSet.
func NewNamespaceSet() *NamespaceSet {
	s := make(NamespaceSet)
	return &s
}

// Add adds namespaces to the set.
func (s *NamespaceSet) Add(namespaces ...string) {
	for _, ns := range namespaces {
		(*s)[ns] = struct{}{}
	}
}

// Contains reports whether the set contains namespace.
func (s *NamespaceSet) Contains(namespace string) bool {
	_, ok := (*s)[namespace]
	return ok
}

// Remove removes namespaces from the set.
func (s *NamespaceSet) Remove(namespaces ...string) {
	for _, ns := range namespaces {
		delete(*s, ns)
	}
}

// Len returns the number of namespaces in the set.
func (s *NamespaceSet) Len() int {
	return len(*s)
}

// List returns the set's namespaces as a slice. Order is
// non-deterministic.
func (s *NamespaceSet) List() []string {
	return maps.Keys(*s)
}

// Clone returns a copy of the set.
func (s *NamespaceSet) Clone() *NamespaceSet {
	out := make(NamespaceSet, s.Len())
	maps.Copy(out, *s)
	return &out
}
