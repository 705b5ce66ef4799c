package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lucifer1004/dropcode/internal/domain"
)

func TestToggleSelectInvolution(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	s.ToggleSelect("a")
	if got := s.Selected(); !cmp.Equal(got, []string{"a"}) {
		t.Fatalf("selected = %v, want [a]", got)
	}

	s.ToggleSelect("a")
	if got := s.Selected(); len(got) != 0 {
		t.Fatalf("selected = %v after double toggle, want empty", got)
	}
}

func TestIsHighlighted(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	s.SetNav("/vault", "a")
	s.ToggleSelect("b")

	cases := []struct {
		id   string
		want bool
	}{
		{"a", true},  // open
		{"b", true},  // selected
		{"c", false}, // neither
		{"", false},
	}
	for _, tc := range cases {
		if got := s.IsHighlighted(tc.id); got != tc.want {
			t.Errorf("IsHighlighted(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestEffectiveSelectionIncludesVisibleOpen(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	s.SetNav("/vault", "a")
	s.ToggleSelect("b")

	got := s.EffectiveSelection()
	want := []string{"b", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("effective selection mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectiveSelectionExcludesHiddenOpen(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	// Open the trashed snippet while looking at the active list: it is not
	// visible, so bulk operations must not sweep it in.
	s.SetNav("/vault", "t1")
	s.ToggleSelect("b")

	got := s.EffectiveSelection()
	want := []string{"b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("effective selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionClearsOnOpenChange(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	s.ToggleSelect("b")
	s.ToggleSelect("c")
	s.SetNav("/vault", "a")

	if got := s.Selected(); len(got) != 0 {
		t.Fatalf("selected = %v after opening a snippet, want empty", got)
	}
}

func TestSelectionClearsOnModeChange(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	s.ToggleSelect("b")
	if err := s.SetMode(domain.ModeTrash); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	if got := s.Selected(); len(got) != 0 {
		t.Fatalf("selected = %v after mode change, want empty", got)
	}
}

func TestSelectionSurvivesKeywordChange(t *testing.T) {
	s, store := newTestSession(t, defaultSeed(), Hooks{})
	openFolder(t, s, store, "/vault")

	if err := s.SetMode(domain.ModeSearch); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	s.ToggleSelect("b")
	s.SetKeyword("charlie")
	time.Sleep(30 * time.Millisecond)

	if got := s.Selected(); !cmp.Equal(got, []string{"b"}) {
		t.Fatalf("selected = %v after keyword change, want [b]", got)
	}
}
