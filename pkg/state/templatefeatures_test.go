package state

import (
	"errors"
	"runtime"
	"testing"

	"github.com/vango-dev/statetree/pkg/template"
)

func buildTemplate(t *testing.T, b template.Builder) template.Node {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return def
}

func TestTemplateOverridesMemoized(t *testing.T) {
	root := NewNode(KindTemplateRoot)
	def := buildTemplate(t, template.NewElement("div").AddChild(template.NewElement("span"))).(*template.ElementNode)
	span := def.Child(0).(*template.ElementNode)
	overrides := Must[*TemplateOverrides](root)

	if n, err := overrides.Get(def, false); n != nil || err != nil {
		t.Errorf("Get(create=false) = %v, %v; want nil, nil", n, err)
	}

	first, err := overrides.Get(def, true)
	if err != nil {
		t.Fatal(err)
	}
	again, _ := overrides.Get(def, true)
	lookup, _ := overrides.Get(def, false)
	if first != again || first != lookup {
		t.Error("override creation should be idempotent")
	}

	other, _ := overrides.Get(span, true)
	if other == first || overrides.Len() != 2 {
		t.Errorf("each definition gets its own override node; len = %d", overrides.Len())
	}
	if nodes := overrides.Nodes(); len(nodes) != 2 || nodes[0] != first {
		t.Errorf("Nodes() = %v", nodes)
	}

	if first.Kind() != KindOverride {
		t.Errorf("override kind = %s", first.Kind())
	}
	target := Must[*OverrideTarget](first)
	if target.Root() != root || target.Definition() != def {
		t.Error("override target should record its root and definition")
	}
	if Must[*ElementData](first).Tag() != "div" {
		t.Error("override node should carry the definition tag")
	}
	if first.Parent() != nil {
		t.Error("override nodes are not list children")
	}
	if !first.IsDescendantOf(root) {
		t.Error("override node should count as a descendant of its root")
	}
}

func TestTemplateOverridesNeedOverrideKind(t *testing.T) {
	r, err := NewRegistry(map[Kind]FeatureSet{
		KindTemplateRoot: {Required: []FeatureType{FeatureModelMap, FeatureTemplateOverrides}},
	})
	if err != nil {
		t.Fatal(err)
	}
	root, _ := r.NewNode(KindTemplateRoot)
	def := buildTemplate(t, template.NewElement("div")).(*template.ElementNode)

	if _, err := Must[*TemplateOverrides](root).Get(def, true); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Get() error = %v, want ErrIllegalState", err)
	}
}

func TestSetRootTemplate(t *testing.T) {
	m := Must[*TemplateMap](NewNode(KindTemplateRoot))
	def := buildTemplate(t, template.NewElement("div"))

	if err := m.SetRootTemplate(nil); !errors.Is(err, ErrIllegalState) {
		t.Errorf("SetRootTemplate(nil) error = %v", err)
	}
	if err := m.SetRootTemplate(def); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRootTemplate(def); err != nil {
		t.Errorf("setting the same template again failed: %v", err)
	}
	if err := m.SetRootTemplate(buildTemplate(t, template.NewElement("p"))); !errors.Is(err, ErrIllegalState) {
		t.Errorf("replacing the root template error = %v", err)
	}
	if m.RootTemplate() != def || m.SlotHolder() != nil {
		t.Error("root template mismatch")
	}
}

func TestSlotFill(t *testing.T) {
	root := NewNode(KindTemplateRoot)
	m := Must[*TemplateMap](root)
	if err := m.SetRootTemplate(buildTemplate(t, template.NewElement("div").AddSlot())); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	m.AddSpliceListener(rec.listen)

	span := NewNode(KindElement)
	if err := m.SetChild(span); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChild(span); err != nil {
		t.Fatal(err)
	}
	if m.Child() != span || span.Parent() != root {
		t.Error("slot occupant should be parented to the template root")
	}
	if len(rec.events) != 1 {
		t.Errorf("filling with the same child twice emitted %d splices, want 1", len(rec.events))
	}

	other := NewNode(KindText)
	if err := m.SetChild(other); err != nil {
		t.Fatal(err)
	}
	if span.Parent() != nil || m.Child() != other {
		t.Error("replacing the occupant should detach the previous one")
	}

	if err := m.SetChild(nil); err != nil {
		t.Fatal(err)
	}
	if m.Child() != nil || other.Parent() != nil {
		t.Error("clearing the slot should detach the occupant")
	}

	want := []spliceSummary{
		{Index: 0, Removed: 0, Added: []uint64{span.ID()}},
		{Index: 0, Removed: 1, Added: []uint64{other.ID()}},
		{Index: 0, Removed: 1, Added: []uint64{}},
	}
	got := summarize(rec.events)
	if len(got) != len(want) {
		t.Fatalf("got %d splices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Index != want[i].Index || got[i].Removed != want[i].Removed || len(got[i].Added) != len(want[i].Added) {
			t.Errorf("splice %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSlotFillWithoutSlot(t *testing.T) {
	m := Must[*TemplateMap](NewNode(KindTemplateRoot))
	if err := m.SetRootTemplate(buildTemplate(t, template.NewElement("div"))); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChild(NewNode(KindElement)); !errors.Is(err, ErrIllegalState) {
		t.Errorf("SetChild() error = %v, want ErrIllegalState", err)
	}
}

func TestSlotFillRejectsAttachedChild(t *testing.T) {
	m := Must[*TemplateMap](NewNode(KindTemplateRoot))
	_ = m.SetRootTemplate(buildTemplate(t, template.NewElement("div").AddSlot()))

	owner := NewNode(KindElement)
	child := NewNode(KindElement)
	_ = Must[*ElementChildren](owner).Add(child)

	if err := m.SetChild(child); !errors.Is(err, ErrIllegalState) {
		t.Errorf("SetChild(attached) error = %v, want ErrIllegalState", err)
	}
	runtime.KeepAlive(owner)
}
