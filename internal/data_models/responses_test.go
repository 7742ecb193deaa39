package dto

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name               string
		page, perPage      int
		total              int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"first of three", 1, 2, 5, 3, true, false},
		{"middle page", 2, 2, 5, 3, true, true},
		{"last page", 3, 2, 5, 3, false, true},
		{"exact division", 2, 5, 10, 2, false, true},
		{"empty set", 1, 50, 0, 0, false, false},
		{"single page", 1, 50, 12, 1, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPagination(c.page, c.perPage, c.total)
			if p.TotalPages != c.wantPages {
				t.Errorf("total_pages = %d, want %d", p.TotalPages, c.wantPages)
			}
			if p.HasNextPage != c.wantNext {
				t.Errorf("has_next_page = %v, want %v", p.HasNextPage, c.wantNext)
			}
			if p.HasPreviousPage != c.wantPrev {
				t.Errorf("has_previous_page = %v, want %v", p.HasPreviousPage, c.wantPrev)
			}
		})
	}
}

func TestNewBulkSummary(t *testing.T) {
	summary := NewBulkSummary([]BulkItemResult{
		{Index: 0, Success: true},
		{Index: 1, Error: "title is required"},
		{Index: 2, Success: true},
	})

	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
