package marketplace

import (
	"testing"
)

func TestListingQueryEncodeDropsEmptyValues(t *testing.T) {
	q := ListingQuery{
		Status:   "for_sale",
		City:     "Lagos",
		MinPrice: 100000,
		Page:     2,
		Limit:    20,
	}.normalized()

	v := q.encode()
	if v.Get("status") != "for_sale" || v.Get("city") != "Lagos" {
		t.Errorf("filters missing from query: %v", v)
	}
	if v.Get("minPrice") != "100000" {
		t.Errorf("minPrice = %q, want 100000", v.Get("minPrice"))
	}
	for _, absent := range []string{"listingType", "state", "agentId", "search", "maxPrice"} {
		if _, ok := v[absent]; ok {
			t.Errorf("empty filter %q was sent as %q", absent, v.Get(absent))
		}
	}
	if v.Get("page") != "2" || v.Get("limit") != "20" {
		t.Errorf("page/limit = %s/%s, want 2/20", v.Get("page"), v.Get("limit"))
	}
}

func TestListingQueryNormalizedDefaults(t *testing.T) {
	q := ListingQuery{}.normalized()
	if q.Page != 1 {
		t.Errorf("page = %d, want 1", q.Page)
	}
	if q.Limit != 10 {
		t.Errorf("limit = %d, want default 10", q.Limit)
	}

	q = ListingQuery{Page: -3, Limit: -1}.normalized()
	if q.Page != 1 || q.Limit != 10 {
		t.Errorf("negative inputs normalized to %d/%d, want 1/10", q.Page, q.Limit)
	}
}
