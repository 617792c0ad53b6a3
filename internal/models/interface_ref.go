// Package models defines the value types the filter pipeline passes around.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/pacofilter/internal/apperr"
)

// refSeparator splits an interface name from its unit number.
const refSeparator = "."

// InterfaceRef identifies one unit of an interface, e.g. "irb0.100".
type InterfaceRef struct {
	name string
	unit int
}

// NewInterfaceRef builds a reference from its parts.
func NewInterfaceRef(name string, unit int) (InterfaceRef, error) {
	if name == "" || strings.Contains(name, refSeparator) {
		return InterfaceRef{}, fmt.Errorf("%w: invalid interface name %q", apperr.ErrMalformedInterfaceName, name)
	}
	if unit < 0 {
		return InterfaceRef{}, fmt.Errorf("%w: negative unit %d", apperr.ErrMalformedInterfaceName, unit)
	}
	return InterfaceRef{name: name, unit: unit}, nil
}

// ParseInterfaceRef parses "<name>.<unit>". The unit must be written in
// canonical decimal so that String reproduces s exactly.
func ParseInterfaceRef(s string) (InterfaceRef, error) {
	parts := strings.Split(s, refSeparator)
	if len(parts) != 2 {
		return InterfaceRef{}, fmt.Errorf("%w: %q must have the form <name>.<unit>", apperr.ErrMalformedInterfaceName, s)
	}
	name, rawUnit := parts[0], parts[1]
	if name == "" {
		return InterfaceRef{}, fmt.Errorf("%w: %q has an empty interface name", apperr.ErrMalformedInterfaceName, s)
	}
	unit, err := strconv.Atoi(rawUnit)
	if err != nil || unit < 0 || strconv.Itoa(unit) != rawUnit {
		return InterfaceRef{}, fmt.Errorf("%w: %q has an invalid unit %q", apperr.ErrMalformedInterfaceName, s, rawUnit)
	}
	return InterfaceRef{name: name, unit: unit}, nil
}

// Name returns the interface name part.
func (r InterfaceRef) Name() string { return r.name }

// Unit returns the unit (subinterface index) part.
func (r InterfaceRef) Unit() int { return r.unit }

// String returns the canonical "<name>.<unit>" form used as BFD id.
func (r InterfaceRef) String() string {
	return r.name + refSeparator + strconv.Itoa(r.unit)
}

// RefSet is a set of interface references that remembers insertion order.
type RefSet struct {
	order []InterfaceRef
	index map[InterfaceRef]struct{}
}

// NewRefSet returns a set holding refs, duplicates dropped.
func NewRefSet(refs ...InterfaceRef) *RefSet {
	s := &RefSet{index: make(map[InterfaceRef]struct{}, len(refs))}
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// Add inserts r and reports whether it was new.
func (s *RefSet) Add(r InterfaceRef) bool {
	if _, ok := s.index[r]; ok {
		return false
	}
	s.index[r] = struct{}{}
	s.order = append(s.order, r)
	return true
}

// Contains reports whether r is in the set.
func (s *RefSet) Contains(r InterfaceRef) bool {
	_, ok := s.index[r]
	return ok
}

// ContainsID reports whether id equals the canonical form of a member.
func (s *RefSet) ContainsID(id string) bool {
	r, err := ParseInterfaceRef(id)
	if err != nil {
		return false
	}
	return s.Contains(r)
}

// Len returns the number of members.
func (s *RefSet) Len() int { return len(s.order) }

// Refs returns the members in insertion order.
func (s *RefSet) Refs() []InterfaceRef {
	out := make([]InterfaceRef, len(s.order))
	copy(out, s.order)
	return out
}

// Units returns the units referenced for the named interface.
func (s *RefSet) Units(name string) map[int]struct{} {
	units := make(map[int]struct{})
	for _, r := range s.order {
		if r.name == name {
			units[r.unit] = struct{}{}
		}
	}
	return units
}
