package domain

import "time"

// PaginationMeta describes one page of a paginated collection.
// TotalPages is always ceil(Total/Limit) when the data is known.
type PaginationMeta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

// NewPaginationMeta computes pagination metadata from known totals.
func NewPaginationMeta(total, currentPage, limit int) PaginationMeta {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return PaginationMeta{
		Total:       total,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		Limit:       limit,
	}
}

// FallbackPagination is the pagination shape used when no data is available:
// zero total, the page the caller asked for, a single page, the requested limit.
func FallbackPagination(requestedPage, limit int) PaginationMeta {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if requestedPage < 1 {
		requestedPage = 1
	}
	return PaginationMeta{
		Total:       0,
		CurrentPage: requestedPage,
		TotalPages:  1,
		Limit:       limit,
	}
}

// DefaultPageLimit matches the backend's default page size.
const DefaultPageLimit = 10

// ListingPage is the list-shaped fetch outcome handed to rendering code.
// When Fallback is true the page carries safe defaults instead of live data
// and FallbackReason explains the last failure.
type ListingPage struct {
	Listings       []Listing      `json:"listings"`
	Pagination     PaginationMeta `json:"pagination"`
	Fallback       bool           `json:"fallback"`
	FallbackReason string         `json:"fallbackReason,omitempty"`
	RequestID      string         `json:"requestId,omitempty"`
	FetchedAt      time.Time      `json:"fetchedAt"`
}

// EmptyListingPage is the canonical fallback value for list fetches.
func EmptyListingPage(requestedPage, limit int) *ListingPage {
	return &ListingPage{
		Listings:   []Listing{},
		Pagination: FallbackPagination(requestedPage, limit),
		Fallback:   true,
	}
}
