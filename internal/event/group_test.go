package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupByCategory(t *testing.T) {
	a := &Event{Title: "a", Category: "workshops_upskilling"}
	b := &Event{Title: "b", Category: "networking"}
	c := &Event{Title: "c", Category: "workshops_upskilling"}
	d := &Event{Title: "d"}
	e := &Event{Title: "e", Category: "networking"}

	groups := GroupByCategory([]*Event{a, b, c, d, e})

	wantOrder := []string{"workshops_upskilling", "networking", "other"}
	if diff := cmp.Diff(wantOrder, groups.Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}

	titles := func(events []*Event) []string {
		out := make([]string, 0, len(events))
		for _, evt := range events {
			out = append(out, evt.Title)
		}
		return out
	}

	tests := []struct {
		category string
		want     []string
	}{
		{"workshops_upskilling", []string{"a", "c"}},
		{"networking", []string{"b", "e"}},
		{"other", []string{"d"}},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(groups.Events(tt.category))); diff != "" {
				t.Errorf("Events(%q) mismatch (-want +got):\n%s", tt.category, diff)
			}
		})
	}

	if groups.Events("meetups") != nil {
		t.Error("unseen category should have no entry")
	}
	if groups.Len() != 3 {
		t.Errorf("Len() = %d, want 3", groups.Len())
	}
}

func TestGroupByCategory_Empty(t *testing.T) {
	groups := GroupByCategory(nil)
	if groups.Len() != 0 || len(groups.Categories()) != 0 {
		t.Errorf("empty input should produce no categories, got %v", groups.Categories())
	}
}

func TestGroups_CategoriesIsACopy(t *testing.T) {
	groups := GroupByCategory([]*Event{{Category: "networking"}})
	cats := groups.Categories()
	cats[0] = "mutated"

	if groups.Categories()[0] != "networking" {
		t.Error("Categories() should return a copy")
	}
}
