// Package filter reduces a full switch configuration to its base bootstrap
// subset: network instances are filtered by name, the interface units they
// use are collected, and the BFD and interface sections are pruned to match.
package filter

import "strings"

// Consolidation selects how pruned interface records are grouped.
type Consolidation string

const (
	// PerReference emits one interface record per in-use reference, so an
	// interface with several referenced units appears several times.
	PerReference Consolidation = "per-reference"
	// ByName emits at most one record per interface name.
	ByName Consolidation = "by-name"
)

// NameMatcher reports whether an interface name is selected.
type NameMatcher func(name string) bool

// ContainsAny matches names containing any of markers. It returns nil when
// no markers are given, which policies treat as "no predicate".
func ContainsAny(markers ...string) NameMatcher {
	if len(markers) == 0 {
		return nil
	}
	return func(name string) bool {
		for _, m := range markers {
			if strings.Contains(name, m) {
				return true
			}
		}
		return false
	}
}

// Policy parameterizes a Pipeline.
type Policy struct {
	// KeepInstances lists substrings; a network instance survives when its
	// name contains any of them.
	KeepInstances []string
	// UsageFilter restricts which in-use references are collected. Nil
	// keeps every reference.
	UsageFilter NameMatcher
	// Consolidation defaults to PerReference.
	Consolidation Consolidation
	// KeepWhole marks interfaces that are always emitted in ByName mode,
	// even without referenced units. Nil keeps none.
	KeepWhole NameMatcher
}

func (p Policy) keepInstance(name string) bool {
	for _, part := range p.KeepInstances {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}
