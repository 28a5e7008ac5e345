package marketplace

import (
	"net/url"
	"strconv"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

// ListingQuery is the filter set for listing pages. Zero-valued filters are
// dropped from the query string rather than sent as empty parameters.
type ListingQuery struct {
	Status      string
	ListingType string
	City        string
	State       string
	AgentID     string
	MinPrice    int64
	MaxPrice    int64
	Search      string
	Page        int
	Limit       int
}

// normalized applies page and limit defaults.
func (q ListingQuery) normalized() ListingQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = domain.DefaultPageLimit
	}
	return q
}

// encode builds the query parameters in backend naming, dropping empties.
func (q ListingQuery) encode() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("status", q.Status)
	set("listingType", q.ListingType)
	set("city", q.City)
	set("state", q.State)
	set("agentId", q.AgentID)
	set("search", q.Search)
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatInt(q.MinPrice, 10))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatInt(q.MaxPrice, 10))
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}
