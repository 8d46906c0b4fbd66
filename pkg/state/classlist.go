package state

import (
	"slices"
	"strings"
)

// ElementClassList stores the class names of a plain element in insertion
// order.
type ElementClassList struct {
	node  *Node
	names []string
}

// Type implements Feature.
func (*ElementClassList) Type() FeatureType { return FeatureElementClassList }

// Node implements Feature.
func (c *ElementClassList) Node() *Node { return c.node }

// Contains reports whether name is present.
func (c *ElementClassList) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Len returns the number of class names.
func (c *ElementClassList) Len() int { return len(c.names) }

// Names returns a copy of the class names.
func (c *ElementClassList) Names() []string { return slices.Clone(c.names) }

// Add appends name and reports whether it was absent.
func (c *ElementClassList) Add(name string) bool {
	if name == "" || c.Contains(name) {
		return false
	}
	c.names = append(c.names, name)
	return true
}

// Remove deletes name and reports whether it was present.
func (c *ElementClassList) Remove(name string) bool {
	i := slices.Index(c.names, name)
	if i < 0 {
		return false
	}
	c.names = slices.Delete(c.names, i, i+1)
	return true
}

// Clear removes every class name.
func (c *ElementClassList) Clear() {
	c.names = nil
}

// SetString replaces the class names with the space-separated tokens of s.
func (c *ElementClassList) SetString(s string) {
	c.names = nil
	for _, name := range strings.Fields(s) {
		c.Add(name)
	}
}

// String returns the class names joined by spaces.
func (c *ElementClassList) String() string {
	return strings.Join(c.names, " ")
}
