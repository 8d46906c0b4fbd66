package parser

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/template"
)

func dump(t *testing.T, def template.Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := template.Fprint(&buf, def); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func mustParse(t *testing.T, source string, r Resolver) template.Node {
	t.Helper()
	def, err := Parse(source, r)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", source, err)
	}
	return def
}

func TestParseElement(t *testing.T) {
	def := mustParse(t, `<div class='foo' [class.bar]=hasBar [value]=v [attr.title]=tip (click)=save></div>`, nil)
	el, ok := def.(*template.ElementNode)
	if !ok {
		t.Fatalf("root = %T", def)
	}

	if el.Tag() != "div" {
		t.Errorf("Tag() = %q", el.Tag())
	}
	if b, _ := el.Attribute("class"); b == nil || b.(*template.StaticBinding).Literal() != "foo" {
		t.Errorf("class attribute = %v", b)
	}
	if b, _ := el.ClassBinding("bar"); b == nil || b.(*template.ModelValueBinding).Key() != "hasBar" {
		t.Errorf("class binding = %v", b)
	}
	if b, _ := el.Property("value"); b == nil || b.(*template.ModelValueBinding).Key() != "v" {
		t.Errorf("property binding = %v", b)
	}
	if b, _ := el.Attribute("title"); b == nil || b.(*template.ModelValueBinding).Key() != "tip" {
		t.Errorf("attribute binding = %v", b)
	}
	if h, _ := el.EventHandler("click"); h != "save" {
		t.Errorf("EventHandler(click) = %q", h)
	}
	if el.ChildCount() != 0 || el.HasSlot() {
		t.Error("element should be empty")
	}
}

func TestParseChildren(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "text and elements",
			source: "<ul>\n  <li>One</li>\n  <li>{{two}}</li>\n</ul>",
			want:   "<ul>\n  <li>\n    text \"One\"\n  <li>\n    text {{two}}\n",
		},
		{
			name:   "mixed text",
			source: `<p>Hello {{ name }}!</p>`,
			want:   "<p>\n  text \"Hello \"\n  text {{name}}\n  text \"!\"\n",
		},
		{
			name:   "slot order",
			source: `<div><before></before>@child@<after></after></div>`,
			want:   "<div>\n  <before>\n  @child@\n  <after>\n",
		},
		{
			name:   "void elements",
			source: `<form><input [value]=v><br/><span>x</span></form>`,
			want:   "<form>\n  <input [value]={{v}}>\n  <br>\n  <span>\n    text \"x\"\n",
		},
		{
			name:   "unclosed at eof",
			source: `<div><span>text`,
			want:   "<div>\n  <span>\n    text \"text\"\n",
		},
		{
			name:   "comments ignored",
			source: `<!-- note --><div></div>`,
			want:   "<div>\n",
		},
		{
			name:   "text root",
			source: `  Hello  `,
			want:   "text \"  Hello  \"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dump(t, mustParse(t, tt.source, nil))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("definition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", "   "},
		{"two roots", `<div></div><span></span>`},
		{"unbalanced", `<div></span>`},
		{"stray end tag", `</div>`},
		{"slot at root", `@child@`},
		{"two slots", `<div>@child@<p>@child@</p></div>`},
		{"two slots in one element", `<div>@child@@child@</div>`},
		{"malformed binding", `<div [value=v></div>`},
		{"empty binding key", `<div [value]></div>`},
		{"empty handler", `<div (click)></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source, nil)
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse(%q) error = %v, want ErrParse", tt.source, err)
			}
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse("<div>\n  <p>\n  </span>\n</div>", nil)
	var te *treeerrors.TreeError
	if !errors.As(err, &te) || te.Location == nil {
		t.Fatalf("error = %v, want a located TreeError", err)
	}
	if te.Location.Line != 3 || te.Location.Column != 3 {
		t.Errorf("location = %d:%d, want 3:3", te.Location.Line, te.Location.Column)
	}
}

func TestIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"page.html":   {Data: []byte(`<main>@include header.html@<p>{{body}}</p></main>`)},
		"header.html": {Data: []byte(`<h1>{{title}}</h1><hr>`)},
		"loop.html":   {Data: []byte(`<div>@include loop.html@</div>`)},
		"a.html":      {Data: []byte(`<div>@include b.html@</div>`)},
		"b.html":      {Data: []byte(`<span>@include a.html@</span>`)},
	}
	r := NewFSResolver(fsys)

	def, err := ParseFile("page.html", r)
	if err != nil {
		t.Fatal(err)
	}
	want := "<main>\n  <h1>\n    text {{title}}\n  <hr>\n  <p>\n    text {{body}}\n"
	if diff := cmp.Diff(want, dump(t, def)); diff != "" {
		t.Errorf("definition mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"loop.html", "a.html"} {
		if _, err := ParseFile(name, r); !errors.Is(err, ErrParse) || !strings.Contains(err.Error(), "cycle") {
			t.Errorf("ParseFile(%s) error = %v, want include cycle", name, err)
		}
	}

	if _, err := ParseFile("missing.html", r); !errors.Is(err, ErrResolverIO) {
		t.Errorf("missing file error = %v, want ErrResolverIO", err)
	}
	if _, err := Parse(`<div>@include header.html@</div>`, nil); !errors.Is(err, ErrResolverIO) {
		t.Errorf("null resolver error = %v, want ErrResolverIO", err)
	}
}

type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.keys = append(f.keys, *in.Key)
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Resolver(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"bucket/tpl/card.html":        `<div class="card">@include parts/title.html@</div>`,
		"bucket/tpl/parts/title.html": `<h2>{{title}}</h2>`,
	}}
	r := NewS3Resolver(client, "bucket", "tpl/")

	def, err := ParseFile("card.html", WithContext(context.Background(), r))
	if err != nil {
		t.Fatal(err)
	}
	if got := dump(t, def); !strings.Contains(got, "text {{title}}") {
		t.Errorf("definition = %s", got)
	}
	if diff := cmp.Diff([]string{"tpl/card.html", "tpl/parts/title.html"}, client.keys); diff != "" {
		t.Errorf("requested keys mismatch (-want +got):\n%s", diff)
	}

	if got := r.Key("../../etc/passwd"); got != "tpl/etc/passwd" {
		t.Errorf("Key() = %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ParseFile("card.html", WithContext(ctx, r))
	if !errors.Is(err, ErrResolverIO) || !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v", err)
	}
}

func TestWithContextPlainResolver(t *testing.T) {
	fsys := fstest.MapFS{"a.html": {Data: []byte(`<a></a>`)}}
	ctx, cancel := context.WithCancel(context.Background())
	r := WithContext(ctx, NewFSResolver(fsys))

	if _, err := ParseFile("a.html", r); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := ParseFile("a.html", r); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
