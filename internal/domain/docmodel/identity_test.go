package docmodel

import (
	"sort"
	"testing"
)

func TestSafeInt(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"3", 3},
		{"page 2", 2},
		{"10", 10},
		{"", 0},
		{"cover", 0},
		{"p4-draft", 4},
	}

	for _, tt := range tests {
		if got := SafeInt(tt.in); got != tt.expected {
			t.Errorf("SafeInt(%q) = %d; want %d", tt.in, got, tt.expected)
		}
	}
}

func TestSafeInt_Ordering(t *testing.T) {
	pages := []string{"3", "1", "page 2", "10"}
	sort.SliceStable(pages, func(i, j int) bool {
		return SafeInt(pages[i]) < SafeInt(pages[j])
	})

	expected := []string{"1", "page 2", "3", "10"}
	for i := range expected {
		if pages[i] != expected[i] {
			t.Fatalf("order got %v; want %v", pages, expected)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	if got := PageID("handbook", "4"); got != "handbook_page_4" {
		t.Errorf("PageID = %s", got)
	}
	if got := DocID("handbook"); got != "doc_handbook" {
		t.Errorf("DocID = %s", got)
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	a := NewPageRecord("handbook", "1")
	a.Description = "welcome page"
	a.PageSummary = "an intro"

	b := NewPageRecord("handbook", "1")
	b.Description = "welcome page"
	b.PageSummary = "an intro"

	ha := ContentHash(a)
	hb := ContentHash(b)
	if ha != hb {
		t.Errorf("same content hashed differently: %s vs %s", ha, hb)
	}
}

func TestContentHash_IgnoresEmbedding(t *testing.T) {
	a := NewPageRecord("handbook", "1")
	a.Description = "welcome page"

	b := NewPageRecord("handbook", "1")
	b.Description = "welcome page"
	b.Embedding = []float32{0.5, 0.25}

	ha := ContentHash(a)
	hb := ContentHash(b)
	if ha != hb {
		t.Error("embedding changed the content hash")
	}
}

func TestContentHash_SensitiveToContent(t *testing.T) {
	a := NewPageRecord("handbook", "1")
	a.Description = "welcome page"

	b := NewPageRecord("handbook", "1")
	b.Description = "changed page"

	ha := ContentHash(a)
	hb := ContentHash(b)
	if ha == hb {
		t.Error("different content produced the same hash")
	}
}
