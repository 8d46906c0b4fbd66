package state

import "sort"

// NodeMap is the mapping feature shape: unique keys, last write wins.
type NodeMap struct {
	node   *Node
	values map[string]any
}

func newNodeMap(n *Node) NodeMap {
	return NodeMap{node: n}
}

// Node returns the owning node.
func (m *NodeMap) Node() *Node { return m.node }

// Get returns the value stored for key.
func (m *NodeMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is set.
func (m *NodeMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key.
func (m *NodeMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
}

// Remove deletes key and reports whether it was set.
func (m *NodeMap) Remove(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	return true
}

// Keys returns the set keys, sorted.
func (m *NodeMap) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of set keys.
func (m *NodeMap) Len() int { return len(m.values) }

// ModelMap holds the model values read by ModelValue bindings.
type ModelMap struct{ NodeMap }

// Type implements Feature.
func (*ModelMap) Type() FeatureType { return FeatureModelMap }

// SetValue is Set under the name templates use for model writes.
func (m *ModelMap) SetValue(key string, value any) { m.Set(key, value) }

// ElementData holds the tag of a plain element.
type ElementData struct{ NodeMap }

// Type implements Feature.
func (*ElementData) Type() FeatureType { return FeatureElementData }

// Tag returns the element tag.
func (d *ElementData) Tag() string {
	tag, _ := d.Get("tag")
	s, _ := tag.(string)
	return s
}

// SetTag sets the element tag.
func (d *ElementData) SetTag(tag string) { d.Set("tag", tag) }

// ElementAttributes holds the attributes of a plain element.
type ElementAttributes struct{ NodeMap }

// Type implements Feature.
func (*ElementAttributes) Type() FeatureType { return FeatureElementAttributes }

// ElementProperties holds the properties of a plain element.
type ElementProperties struct{ NodeMap }

// Type implements Feature.
func (*ElementProperties) Type() FeatureType { return FeatureElementProperties }

// TextNodeMap holds the content of a plain text node.
type TextNodeMap struct{ NodeMap }

// Type implements Feature.
func (*TextNodeMap) Type() FeatureType { return FeatureTextNode }

// Text returns the text content.
func (m *TextNodeMap) Text() string {
	v, _ := m.Get("text")
	s, _ := v.(string)
	return s
}

// SetText sets the text content.
func (m *TextNodeMap) SetText(text string) { m.Set("text", text) }

// TemplateEventHandlerNames is the set of handler names a template instance
// accepts.
type TemplateEventHandlerNames struct{ NodeMap }

// Type implements Feature.
func (*TemplateEventHandlerNames) Type() FeatureType { return FeatureTemplateEventHandlerNames }

// Add registers a handler name.
func (h *TemplateEventHandlerNames) Add(name string) { h.Set(name, true) }

// Contains reports whether name is registered.
func (h *TemplateEventHandlerNames) Contains(name string) bool { return h.Has(name) }

// Names returns the registered names, sorted.
func (h *TemplateEventHandlerNames) Names() []string { return h.Keys() }
