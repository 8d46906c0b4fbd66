package dom

import (
	"iter"
	"slices"
	"strings"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/state"
)

// ClassList is the set of class names of an element.
type ClassList interface {
	Contains(name string) bool
	Len() int
	All() iter.Seq[string]
	Slice() []string
	Add(name string) error
	Remove(name string) error
}

// plainClassList is backed by a plain element's ElementClassList.
type plainClassList struct {
	list *state.ElementClassList
}

func (c plainClassList) Contains(name string) bool { return c.list.Contains(name) }

func (c plainClassList) Len() int { return c.list.Len() }

func (c plainClassList) All() iter.Seq[string] { return slices.Values(c.list.Names()) }

func (c plainClassList) Slice() []string { return c.list.Names() }

func (c plainClassList) Add(name string) error {
	if err := checkClassName(name); err != nil {
		return err
	}
	c.list.Add(name)
	return nil
}

func (c plainClassList) Remove(name string) error {
	c.list.Remove(name)
	return nil
}

func checkClassName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n\r\f") {
		return treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("invalid class name %q", name)
	}
	return nil
}

// computedClassList is a read-only view recomputed on every call. A nil
// names func yields an empty list.
type computedClassList struct {
	names func() []string
}

func (c computedClassList) Slice() []string {
	if c.names == nil {
		return nil
	}
	return c.names()
}

func (c computedClassList) Contains(name string) bool { return slices.Contains(c.Slice(), name) }

func (c computedClassList) Len() int { return len(c.Slice()) }

func (c computedClassList) All() iter.Seq[string] { return slices.Values(c.Slice()) }

func (c computedClassList) Add(name string) error {
	return treeerrors.New(treeerrors.CodeUnsupported).
		WithDetailf("cannot add %q to a template class list", name)
}

func (c computedClassList) Remove(name string) error {
	return treeerrors.New(treeerrors.CodeUnsupported).
		WithDetailf("cannot remove %q from a template class list", name)
}
