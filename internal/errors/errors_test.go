package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "missing feature",
			code:    CodeMissingFeature,
			wantMsg: "node does not have the requested feature",
			wantCat: CategoryState,
		},
		{
			name:    "bound property",
			code:    CodeBoundProperty,
			wantMsg: "value is bound by the template",
			wantCat: CategoryBinding,
		},
		{
			name:    "parse error",
			code:    CodeParse,
			wantMsg: "template parse error",
			wantCat: CategoryTemplate,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestTreeError_Error(t *testing.T) {
	err := New(CodeBoundProperty).WithDetail(`property "value"`)
	want := `E101: value is bound by the template: property "value"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &TreeError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestTreeError_Is(t *testing.T) {
	sentinel := New(CodeIllegalState)
	err := fmt.Errorf("append: %w", New(CodeIllegalState).WithDetail("node already has a parent"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match errors with the same code")
	}
	if stderrors.Is(err, New(CodeUnsupported)) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(err, &TreeError{Message: "no code"}) {
		t.Error("errors.Is should not match a code-less target")
	}
}

func TestTreeError_Wrap(t *testing.T) {
	inner := stderrors.New("no such key")
	outer := New(CodeResolverIO).Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see through Wrap")
	}
	if !strings.HasSuffix(outer.Error(), ": no such key") {
		t.Errorf("Error() = %q, want wrapped message suffix", outer.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeParse) != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	te := New(CodeParse)
	if FromError(te, CodeResolverIO) != te {
		t.Error("FromError should return TreeError as-is")
	}

	std := stderrors.New("boom")
	if got := FromError(std, CodeResolverIO); got.Wrapped != std || got.Code != CodeResolverIO {
		t.Errorf("FromError = %+v, want wrapped E200", got)
	}
}

func TestWithSource(t *testing.T) {
	src := "<div>\n  <span>\n  </p>\n</div>\n"
	err := New(CodeParse).WithSource("card.html", src, 3, 3)

	if err.Location == nil || err.Location.String() != "card.html:3:3" {
		t.Fatalf("Location = %v, want card.html:3:3", err.Location)
	}
	if len(err.Context) != 5 {
		t.Errorf("len(Context) = %d, want 5", len(err.Context))
	}
	if err.Context[2] != "  </p>" {
		t.Errorf("Context[2] = %q, want %q", err.Context[2], "  </p>")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "with column", loc: &Location{File: "a.html", Line: 10, Column: 5}, want: "a.html:10:5"},
		{name: "without column", loc: &Location{File: "a.html", Line: 10}, want: "a.html:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeParse).
		WithSource("card.html", "<div>\n</span>\n", 2, 1).
		WithSuggestion("close <div> instead")

	out := err.Format()
	for _, want := range []string{
		"ERROR E201: template parse error",
		"card.html:2:1",
		"→    2 │ </span>",
		"Hint: close <div> instead",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatContextNumbering(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var src strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&src, "line%d\n", i)
	}
	err := New(CodeParse).WithSource("long.html", src.String(), 8, 2)
	if len(err.Context) != contextWindow {
		t.Fatalf("len(Context) = %d, want %d", len(err.Context), contextWindow)
	}

	out := err.Format()
	for _, want := range []string{
		"   6 │ line6",
		"→    8 │ line8",
		"  10 │ line10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "line5") || strings.Contains(out, "line11") {
		t.Errorf("Format() printed lines outside the window:\n%s", out)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint() = %q", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != len(registry) {
		t.Fatalf("len(GetAllCodes()) = %d, want %d", len(codes), len(registry))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Errorf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate(CodeConfig); !ok {
		t.Error("GetTemplate(CodeConfig) not found")
	}
}
