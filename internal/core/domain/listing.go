package domain

import "time"

type ListingStatus string

const (
	ListingStatusForSale ListingStatus = "for_sale"
	ListingStatusForRent ListingStatus = "for_rent"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusRented  ListingStatus = "rented"
	ListingStatusPending ListingStatus = "pending"
)

type ListingType string

const (
	ListingTypeHouse      ListingType = "house"
	ListingTypeApartment  ListingType = "apartment"
	ListingTypeLand       ListingType = "land"
	ListingTypeCommercial ListingType = "commercial"
	ListingTypeOffice     ListingType = "office"
)

// Listing represents a property listing as returned by the marketplace API.
type Listing struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Price       int64         `json:"price"`
	Currency    string        `json:"currency,omitempty"`
	Status      ListingStatus `json:"status"`
	ListingType ListingType   `json:"listingType"`
	Bedrooms    int           `json:"bedrooms,omitempty"`
	Bathrooms   int           `json:"bathrooms,omitempty"`
	City        string        `json:"city"`
	State       string        `json:"state"`
	Address     string        `json:"address,omitempty"`
	AgentID     string        `json:"agentId"`
	Images      []string      `json:"images,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// listingIDLength is the document id length used by the backend (24 hex chars).
const listingIDLength = 24

// IsValidListingID reports whether id has the 24-character hex shape the
// backend uses for document ids. Lookups must reject anything else before
// touching the network.
func IsValidListingID(id string) bool {
	if len(id) != listingIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
