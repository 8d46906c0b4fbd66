// Package errors provides the structured error taxonomy for statetree.
//
// Every failure raised by the state tree is a contract violation rather than
// a transient condition, so errors carry a stable code instead of retry
// hints. Codes map to a registered template with a category, a short message
// and a longer explanation.
//
// # Error Categories
//
//   - state: feature lookups and structural preconditions on state nodes
//   - binding: writes that conflict with template bindings
//   - view: mutations attempted on computed views
//   - template: template source resolution and parsing
//   - config: configuration loading
//
// # Usage
//
//	err := errors.New(errors.CodeBoundProperty).
//	    WithDetail(`property "value" is bound by the template`)
//
//	if stderrors.Is(err, dom.ErrBoundProperty) {
//	    // ...
//	}
//
// Parse errors can point into the template source:
//
//	err := errors.New(errors.CodeParse).WithSource("card.html", src, 3, 14)
//	fmt.Println(err.Format())
package errors
