package pagination

import (
	"net/url"
	"testing"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{})

	if p.Page != DefaultPage {
		t.Errorf("page = %d, want %d", p.Page, DefaultPage)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.SortType != "desc" {
		t.Errorf("sortType = %q, want %q", p.SortType, "desc")
	}
	if p.Offset() != 0 {
		t.Errorf("offset = %d, want 0", p.Offset())
	}
}

func TestFromQuery_Values(t *testing.T) {
	tests := []struct {
		name       string
		query      url.Values
		wantPage   int
		wantLimit  int
		wantOffset int
		wantSort   string
	}{
		{
			name:       "explicit page and limit",
			query:      url.Values{"page": {"3"}, "limit": {"20"}},
			wantPage:   3,
			wantLimit:  20,
			wantOffset: 40,
			wantSort:   "desc",
		},
		{
			name:       "ascending sort",
			query:      url.Values{"sortType": {"ASC"}},
			wantPage:   1,
			wantLimit:  10,
			wantOffset: 0,
			wantSort:   "asc",
		},
		{
			name:       "garbage falls back to defaults",
			query:      url.Values{"page": {"zero"}, "limit": {"-5"}},
			wantPage:   1,
			wantLimit:  10,
			wantOffset: 0,
			wantSort:   "desc",
		},
		{
			name:       "limit capped",
			query:      url.Values{"limit": {"5000"}},
			wantPage:   1,
			wantLimit:  MaxLimit,
			wantOffset: 0,
			wantSort:   "desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromQuery(tt.query)
			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", p.Offset(), tt.wantOffset)
			}
			if p.SortType != tt.wantSort {
				t.Errorf("sortType = %q, want %q", p.SortType, tt.wantSort)
			}
		})
	}
}

func TestNewMeta_Properties(t *testing.T) {
	// For all valid (page, limit, totalCount) combinations:
	// totalPages == ceil(totalCount/limit)
	// hasNextPage == (page < totalPages)
	// hasPrevPage == (page > 1)
	for totalCount := 0; totalCount <= 55; totalCount += 5 {
		for limit := 1; limit <= 25; limit += 3 {
			for page := 1; page <= 8; page++ {
				m := NewMeta(totalCount, page, limit)

				wantPages := (totalCount + limit - 1) / limit
				if m.TotalPages != wantPages {
					t.Fatalf("NewMeta(%d, %d, %d): totalPages = %d, want %d",
						totalCount, page, limit, m.TotalPages, wantPages)
				}
				if m.HasNextPage != (page < wantPages) {
					t.Fatalf("NewMeta(%d, %d, %d): hasNextPage = %v, want %v",
						totalCount, page, limit, m.HasNextPage, page < wantPages)
				}
				if m.HasPrevPage != (page > 1) {
					t.Fatalf("NewMeta(%d, %d, %d): hasPrevPage = %v, want %v",
						totalCount, page, limit, m.HasPrevPage, page > 1)
				}
				if m.CurrentPage != page {
					t.Fatalf("currentPage = %d, want %d", m.CurrentPage, page)
				}
			}
		}
	}
}

func TestNewMeta_Examples(t *testing.T) {
	m := NewMeta(25, 2, 10)
	if m.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", m.TotalPages)
	}
	if !m.HasNextPage || !m.HasPrevPage {
		t.Errorf("page 2 of 3 should have both next and prev, got next=%v prev=%v",
			m.HasNextPage, m.HasPrevPage)
	}

	m = NewMeta(0, 1, 10)
	if m.TotalPages != 0 || m.HasNextPage || m.HasPrevPage {
		t.Errorf("empty result set: got %+v", m)
	}
}
