// Package template defines immutable template definition trees.
//
// A definition tree is produced once, by the parser or by builders, and is
// then shared by reference across every state node instantiated from it.
// Nothing in this package mutates a tree after Build returns.
//
// # Node Kinds
//
// Every definition node is either an ElementNode or a TextNode. Element
// definitions carry a tag, attribute, property and class bindings, event
// handler names, an ordered list of static children and at most one child
// slot marking where a runtime-supplied subtree is placed.
//
// # Bindings
//
// A Binding resolves a value against a model:
//
//	template.Static("primary")  // always "primary"
//	template.ModelValue("title") // model["title"], re-read on every call
//
// # Building
//
//	def, err := template.NewElement("div").
//	    SetAttribute("class", template.Static("card")).
//	    SetClass("active", template.ModelValue("isActive")).
//	    AddChild(template.NewText(template.ModelValue("title"))).
//	    AddSlot().
//	    Build()
package template
