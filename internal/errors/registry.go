package errors

import "sort"

// Registered error codes.
const (
	CodeMissingFeature           = "E100"
	CodeBoundProperty            = "E101"
	CodeTemplateChildrenMutation = "E102"
	CodeIllegalState             = "E103"
	CodeUnsupported              = "E104"
	CodeReentrantSplice          = "E105"

	CodeResolverIO = "E200"
	CodeParse      = "E201"

	CodeConfig = "E300"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// State Errors (E100-E199)
	// ============================================

	CodeMissingFeature: {
		Category: CategoryState,
		Message:  "node does not have the requested feature",
		Detail:   "The node's kind does not declare this feature. Features are fixed when the node is created.",
	},
	CodeBoundProperty: {
		Category: CategoryBinding,
		Message:  "value is bound by the template",
		Detail:   "Properties and attributes with a template binding can only change through the model.",
	},
	CodeTemplateChildrenMutation: {
		Category: CategoryState,
		Message:  "children are defined by the template",
		Detail:   "Only template elements without static children and without a child slot accept direct child mutation.",
	},
	CodeIllegalState: {
		Category: CategoryState,
		Message:  "illegal state",
		Detail:   "A structural precondition of the state tree was violated.",
	},
	CodeUnsupported: {
		Category: CategoryView,
		Message:  "unsupported operation",
		Detail:   "The target is a computed view and cannot be modified.",
	},
	CodeReentrantSplice: {
		Category: CategoryState,
		Message:  "list modified from its own splice listener",
		Detail:   "Splice listeners run before the mutating call returns and must not edit the same list.",
	},

	// ============================================
	// Template Errors (E200-E299)
	// ============================================

	CodeResolverIO: {
		Category: CategoryTemplate,
		Message:  "template source could not be resolved",
		Detail:   "The resolver failed to open an included template.",
	},
	CodeParse: {
		Category: CategoryTemplate,
		Message:  "template parse error",
		Detail:   "The template source is not a well-formed template.",
	},

	// ============================================
	// Config Errors (E300-E399)
	// ============================================

	CodeConfig: {
		Category: CategoryConfig,
		Message:  "invalid configuration",
		Detail:   "statetree.yaml could not be read or contains invalid values.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
