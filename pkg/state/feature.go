package state

import "github.com/vango-dev/statetree/pkg/template"

// FeatureType identifies a feature kind.
type FeatureType uint8

const (
	FeatureElementData FeatureType = iota
	FeatureElementAttributes
	FeatureElementProperties
	FeatureElementChildren
	FeatureElementClassList
	FeatureTextNode
	FeatureModelMap
	FeatureTemplateOverrides
	FeatureTemplateMap
	FeatureTemplateEventHandlerNames
	FeatureOverrideTarget

	featureTypeCount
)

// String returns the feature name.
func (t FeatureType) String() string {
	switch t {
	case FeatureElementData:
		return "ElementData"
	case FeatureElementAttributes:
		return "ElementAttributes"
	case FeatureElementProperties:
		return "ElementProperties"
	case FeatureElementChildren:
		return "ElementChildren"
	case FeatureElementClassList:
		return "ElementClassList"
	case FeatureTextNode:
		return "TextNode"
	case FeatureModelMap:
		return "ModelMap"
	case FeatureTemplateOverrides:
		return "TemplateOverrides"
	case FeatureTemplateMap:
		return "TemplateMap"
	case FeatureTemplateEventHandlerNames:
		return "TemplateEventHandlerNames"
	case FeatureOverrideTarget:
		return "OverrideTarget"
	default:
		return "Unknown"
	}
}

// Valid reports whether t names a known feature.
func (t FeatureType) Valid() bool {
	return t < featureTypeCount
}

// Feature is a data compartment attached to a node.
type Feature interface {
	// Type returns the feature kind.
	Type() FeatureType

	// Node returns the node owning the feature.
	Node() *Node
}

// newFeature creates the feature of type t for node n.
func newFeature(t FeatureType, n *Node) Feature {
	switch t {
	case FeatureElementData:
		return &ElementData{NodeMap: newNodeMap(n)}
	case FeatureElementAttributes:
		return &ElementAttributes{NodeMap: newNodeMap(n)}
	case FeatureElementProperties:
		return &ElementProperties{NodeMap: newNodeMap(n)}
	case FeatureElementChildren:
		return &ElementChildren{NodeList: newNodeList(n, t)}
	case FeatureElementClassList:
		return &ElementClassList{node: n}
	case FeatureTextNode:
		return &TextNodeMap{NodeMap: newNodeMap(n)}
	case FeatureModelMap:
		return &ModelMap{NodeMap: newNodeMap(n)}
	case FeatureTemplateOverrides:
		return &TemplateOverrides{node: n, overrides: make(map[*template.ElementNode]*Node)}
	case FeatureTemplateMap:
		return &TemplateMap{NodeMap: newNodeMap(n), slot: newNodeList(n, t)}
	case FeatureTemplateEventHandlerNames:
		return &TemplateEventHandlerNames{NodeMap: newNodeMap(n)}
	case FeatureOverrideTarget:
		return &OverrideTarget{node: n}
	default:
		return nil
	}
}
