// Package dom provides Element, a uniform DOM-like façade over state tree
// nodes.
//
// An Element is a state node paired with the provider that knows how the
// node stores element data. Plain elements keep their tag, attributes,
// properties, class names and children directly in element features.
// Template elements are a template root node paired with one definition of
// its template; the definition supplies the structure and the bindings, the
// root's model supplies the values, and per-instance edits land in override
// nodes created on demand.
//
//	def, _ := parser.Parse(`<div class="card" [class.active]=isActive>@child@</div>`, nil)
//	card, _ := dom.NewTemplate(def)
//	model, _ := card.Model()
//	model.SetValue("isActive", true)
//
//	body := dom.NewText("hello")
//	_ = card.SetChildSlot(body)
//	fmt.Println(card.ClassList().Slice()) // [card active]
//
// Two Elements are Equal when they wrap the same node through the same
// definition. Every sub-element of a template instance wraps the instance's
// root node, so the definition is part of an element's identity.
package dom
