// Package parser turns template source into definition trees.
//
// Template source is HTML with a small binding syntax on top:
//
//	<div class="card" [class.active]=isActive (click)=select>
//	  <h2 [title]=tooltip>{{title}}</h2>
//	  @include footer.html@
//	  @child@
//	</div>
//
// Plain attributes are static. [name] binds a property, [attr.name] an
// attribute and [class.name] a class condition to a model key. (event)
// names the handler invoked for an event. Text {{key}} binds text to a
// model key, @child@ marks the child slot and @include name@ inlines the
// template the Resolver returns for name.
//
// Attribute names are lowercased by the HTML tokenizer, so bindings such
// as [innerHTML] are declared as [innerhtml]. Attribute values, and with
// them model keys, keep their case.
package parser
