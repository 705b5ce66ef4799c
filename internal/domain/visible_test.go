package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ts(offset int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
}

func tsPtr(offset int) *time.Time {
	t := ts(offset)
	return &t
}

func names(list []Snippet) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Name)
	}
	return out
}

func TestVisibleSnippets_Filter(t *testing.T) {
	all := []Snippet{
		{ID: "a", Name: "HTTP client", CreatedAt: ts(0)},
		{ID: "b", Name: "Dockerfile base", CreatedAt: ts(1)},
		{ID: "c", Name: "http server", CreatedAt: ts(2), DeletedAt: tsPtr(10)},
		{ID: "d", Name: "SQL join", CreatedAt: ts(3), DeletedAt: tsPtr(11)},
	}

	tests := []struct {
		name    string
		mode    SearchMode
		keyword string
		want    []string
	}{
		{
			name: "inactive mode lists active only",
			mode: ModeInactive,
			want: []string{"Dockerfile base", "HTTP client"},
		},
		{
			name: "trash mode lists trashed only",
			mode: ModeTrash,
			want: []string{"SQL join", "http server"},
		},
		{
			name:    "keyword matches case-insensitively",
			mode:    ModeSearch,
			keyword: "http",
			want:    []string{"HTTP client"},
		},
		{
			name:    "keyword is a substring match",
			mode:    ModeSearch,
			keyword: "ocker",
			want:    []string{"Dockerfile base"},
		},
		{
			name:    "keyword applies in trash mode too",
			mode:    ModeTrash,
			keyword: "sql",
			want:    []string{"SQL join"},
		},
		{
			name:    "no match yields empty list",
			mode:    ModeSearch,
			keyword: "zzz",
			want:    []string{},
		},
		{
			name: "empty collection",
			mode: ModeInactive,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := all
			if tt.name == "empty collection" {
				input = nil
			}

			got := VisibleSnippets(input, tt.mode, tt.keyword)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("VisibleSnippets() mismatch (-want +got):\n%s", diff)
			}

			// No mixed trash states in any result set.
			wantTrashed := tt.mode == ModeTrash
			for _, s := range got {
				if s.Trashed() != wantTrashed {
					t.Errorf("snippet %q trash state %v does not match mode %v", s.Name, s.Trashed(), tt.mode)
				}
			}
		})
	}
}

func TestVisibleSnippets_Order(t *testing.T) {
	t.Run("active newest-created first", func(t *testing.T) {
		all := []Snippet{
			{ID: "x", Name: "X", CreatedAt: ts(0)},
			{ID: "y", Name: "Y", CreatedAt: ts(5)},
			{ID: "z", Name: "Z", CreatedAt: ts(3)},
		}

		got := VisibleSnippets(all, ModeInactive, "")
		want := []string{"Y", "Z", "X"}
		if diff := cmp.Diff(want, names(got)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("trashed most-recently-trashed first", func(t *testing.T) {
		all := []Snippet{
			{ID: "x", Name: "X", CreatedAt: ts(0), DeletedAt: tsPtr(20)},
			{ID: "y", Name: "Y", CreatedAt: ts(9), DeletedAt: tsPtr(10)},
		}

		got := VisibleSnippets(all, ModeTrash, "")
		// X was trashed later even though Y was created later.
		want := []string{"X", "Y"}
		if diff := cmp.Diff(want, names(got)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("equal timestamps keep input order", func(t *testing.T) {
		all := []Snippet{
			{ID: "x", Name: "X", CreatedAt: ts(1)},
			{ID: "y", Name: "Y", CreatedAt: ts(1)},
		}

		got := VisibleSnippets(all, ModeInactive, "")
		want := []string{"X", "Y"}
		if diff := cmp.Diff(want, names(got)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestVisibleSnippets_Pure(t *testing.T) {
	all := []Snippet{
		{ID: "a", Name: "A", CreatedAt: ts(0)},
		{ID: "b", Name: "B", CreatedAt: ts(5)},
	}

	before := names(all)
	_ = VisibleSnippets(all, ModeInactive, "")
	_ = VisibleSnippets(all, ModeSearch, "a")

	if diff := cmp.Diff(before, names(all)); diff != "" {
		t.Errorf("input slice mutated (-want +got):\n%s", diff)
	}
}

func TestContainsSnippet(t *testing.T) {
	list := []Snippet{{ID: "a"}, {ID: "b"}}

	if !ContainsSnippet(list, "a") {
		t.Error("ContainsSnippet(a) = false, want true")
	}
	if ContainsSnippet(list, "c") {
		t.Error("ContainsSnippet(c) = true, want false")
	}
	if ContainsSnippet(list, "") {
		t.Error("ContainsSnippet(empty id) = true, want false")
	}
}

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		input  string
		want   SearchMode
		wantOK bool
	}{
		{input: "", want: ModeInactive, wantOK: true},
		{input: "inactive", want: ModeInactive, wantOK: true},
		{input: "search", want: ModeSearch, wantOK: true},
		{input: "trash", want: ModeTrash, wantOK: true},
		{input: "Trash", wantOK: false},
		{input: "garbage", wantOK: false},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, ok := ParseSearchMode(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseSearchMode(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseSearchMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
