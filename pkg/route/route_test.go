package route

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		path     string
		selected string
	}{
		{"/podcasts", "/podcasts", ""},
		{"podcast/42/", "/podcast/42", ""},
		{"/podcast/42?selectedItemId=ep-7", "/podcast/42", "ep-7"},
		{"", "/", ""},
	}
	for _, tt := range tests {
		loc, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if loc.Path != tt.path || loc.Get(nav.SelectedItemParam) != tt.selected {
			t.Errorf("Parse(%q) = %q/%q, want %q/%q", tt.in, loc.Path, loc.Get(nav.SelectedItemParam), tt.path, tt.selected)
		}
	}
}

func TestLocation_WithDoesNotAlias(t *testing.T) {
	a := MustParse("/x?selectedItemId=1&tab=recent")
	b := a.With(nav.SelectedItemParam, "2")
	c := b.With(nav.SelectedItemParam, "")

	if a.Get(nav.SelectedItemParam) != "1" || b.Get(nav.SelectedItemParam) != "2" {
		t.Fatalf("With mutated its receiver: a=%s b=%s", a, b)
	}
	if c.String() != "/x?tab=recent" {
		t.Fatalf("removal = %s", c)
	}
}

func TestLocation_Segments(t *testing.T) {
	if got := MustParse("/podcast/42").Segments(); len(got) != 2 || got[0] != "podcast" || got[1] != "42" {
		t.Fatalf("Segments = %v", got)
	}
	if got := MustParse("/").Segments(); got != nil {
		t.Fatalf("root Segments = %v", got)
	}
}

func TestRouter_PushBack(t *testing.T) {
	r := NewRouter(MustParse("/podcasts"))
	r.Push(MustParse("/podcast/1"))
	r.Push(MustParse("/episode/9"))
	if r.Depth() != 3 {
		t.Fatalf("Depth = %d, want 3", r.Depth())
	}
	loc, err := r.Back()
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/podcast/1" || r.Current().Path != "/podcast/1" {
		t.Fatalf("Back = %s, current %s", loc, r.Current())
	}
	if r.Depth() != 2 {
		t.Fatalf("Depth after Back = %d, want 2", r.Depth())
	}
}

func TestRouter_BackAtRoot(t *testing.T) {
	r := NewRouter(MustParse("/podcasts"))
	if _, err := r.Back(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("Back at root err = %v", err)
	}
}

func TestRouter_ReplaceSelectionPreservedAcrossBack(t *testing.T) {
	r := NewRouter(MustParse("/podcasts"))
	r.ReplaceSelection("p3")
	r.ReplaceSelection("p4")
	if r.Depth() != 1 {
		t.Fatalf("selection replace grew history to %d", r.Depth())
	}

	r.Push(MustParse("/podcast/p4"))
	r.ReplaceSelection("ep1")
	loc, err := r.Back()
	if err != nil {
		t.Fatal(err)
	}
	if loc.Get(nav.SelectedItemParam) != "p4" {
		t.Fatalf("back restored %q, want p4", loc)
	}
	if r.CurrentSelection() != "p4" {
		t.Fatalf("CurrentSelection = %q", r.CurrentSelection())
	}

	r.ReplaceSelection("")
	if r.Current().String() != "/podcasts" {
		t.Fatalf("empty selection left %s", r.Current())
	}
}

func TestRouter_ReplaceParamKeepsSelection(t *testing.T) {
	r := NewRouter(MustParse("/podcasts?selectedItemId=p1"))
	r.ReplaceParam("tab", "recent")
	cur := r.Current()
	if cur.Get("tab") != "recent" || cur.Get(nav.SelectedItemParam) != "p1" {
		t.Fatalf("current = %s", cur)
	}
	r.ReplaceParam("tab", "")
	if r.Current().Get("tab") != "" {
		t.Fatalf("empty value kept tab: %s", r.Current())
	}
}
