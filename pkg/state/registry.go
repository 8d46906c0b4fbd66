package state

import (
	"slices"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// Kind identifies the façade kind a node is created for.
type Kind uint8

const (
	KindCustom           Kind = iota // Ad-hoc feature set, see NewNodeWithFeatures
	KindElement                      // Plain element
	KindText                         // Plain text node
	KindTemplateRoot                 // Root of a template instance
	KindTemplateSubModel             // Nested model of a template instance
	KindOverride                     // Per-instance data for one template definition
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "Custom"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindTemplateRoot:
		return "TemplateRoot"
	case KindTemplateSubModel:
		return "TemplateSubModel"
	case KindOverride:
		return "Override"
	default:
		return "Unknown"
	}
}

// FeatureSet declares the features of a kind.
type FeatureSet struct {
	Required []FeatureType
	Optional []FeatureType
}

// featureMask is a bit set indexed by FeatureType.
type featureMask uint32

func (m featureMask) has(t FeatureType) bool { return m&(1<<t) != 0 }

func maskOf(types []FeatureType) featureMask {
	var m featureMask
	for _, t := range types {
		m |= 1 << t
	}
	return m
}

type kindEntry struct {
	required featureMask
	all      featureMask
}

// Registry maps node kinds to their feature sets. A Registry is read-only
// once NewRegistry returns.
type Registry struct {
	kinds map[Kind]kindEntry
}

// NewRegistry builds a registry from a kind table. It fails if a feature
// type is unknown or listed as both required and optional for a kind.
func NewRegistry(table map[Kind]FeatureSet) (*Registry, error) {
	r := &Registry{kinds: make(map[Kind]kindEntry, len(table))}

	for kind, set := range table {
		for _, t := range slices.Concat(set.Required, set.Optional) {
			if !t.Valid() {
				return nil, treeerrors.New(treeerrors.CodeIllegalState).
					WithDetailf("kind %s lists unknown feature type %d", kind, t)
			}
		}
		required := maskOf(set.Required)
		optional := maskOf(set.Optional)
		if required&optional != 0 {
			return nil, treeerrors.New(treeerrors.CodeIllegalState).
				WithDetailf("kind %s lists a feature as both required and optional", kind)
		}
		r.kinds[kind] = kindEntry{required: required, all: required | optional}
	}

	return r, nil
}

var elementFeatures = []FeatureType{
	FeatureElementData,
	FeatureElementAttributes,
	FeatureElementProperties,
	FeatureElementChildren,
	FeatureElementClassList,
}

var defaultRegistry = mustNewRegistry(map[Kind]FeatureSet{
	KindElement: {Required: elementFeatures},
	KindText:    {Required: []FeatureType{FeatureTextNode}},
	KindTemplateRoot: {
		Required: []FeatureType{FeatureModelMap, FeatureTemplateOverrides},
		Optional: []FeatureType{FeatureTemplateMap, FeatureTemplateEventHandlerNames},
	},
	KindTemplateSubModel: {
		Required: []FeatureType{FeatureModelMap, FeatureTemplateOverrides},
	},
	KindOverride: {
		Required: append(slices.Clone(elementFeatures), FeatureOverrideTarget),
	},
})

func mustNewRegistry(table map[Kind]FeatureSet) *Registry {
	r, err := NewRegistry(table)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns the process-wide registry used by NewNode.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// HasFeature reports whether nodes of kind carry feature t.
func (r *Registry) HasFeature(kind Kind, t FeatureType) bool {
	e, ok := r.kinds[kind]
	return ok && e.all.has(t)
}

// Features returns every feature of kind, in FeatureType order.
func (r *Registry) Features(kind Kind) []FeatureType {
	return expand(r.kinds[kind].all)
}

// Required returns the required features of kind, in FeatureType order.
func (r *Registry) Required(kind Kind) []FeatureType {
	return expand(r.kinds[kind].required)
}

func expand(m featureMask) []FeatureType {
	var types []FeatureType
	for t := FeatureType(0); t < featureTypeCount; t++ {
		if m.has(t) {
			types = append(types, t)
		}
	}
	return types
}

// NewNode creates a node with the features registered for kind.
func (r *Registry) NewNode(kind Kind) (*Node, error) {
	e, ok := r.kinds[kind]
	if !ok {
		return nil, treeerrors.New(treeerrors.CodeIllegalState).
			WithDetailf("kind %s is not registered", kind)
	}
	return newNode(r, kind, expand(e.all)), nil
}
