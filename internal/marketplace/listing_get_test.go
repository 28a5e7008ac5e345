package marketplace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Royalwole/sesame-sub004/internal/fetch"
)

const validID = "507f1f77bcf86cd799439011"

func TestGetListingByIDRejectsBadShape(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := newTestClient(t, server, Config{})

	badIDs := []string{
		"",
		"507f1f77bcf86cd79943901",   // 23 chars
		"507f1f77bcf86cd7994390111", // 25 chars
		"507f1f77bcf86cd79943901z",  // non-hex
		"not-an-object-id",
	}
	for _, id := range badIDs {
		_, _, err := c.GetListingByID(context.Background(), id)
		if !errors.Is(err, &fetch.Error{Kind: fetch.KindValidation}) {
			t.Errorf("GetListingByID(%q) error = %v, want KindValidation", id, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("upstream hits = %d, want 0 for invalid ids", hits.Load())
	}
}

func TestGetListingByIDSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/listings/"+validID {
			t.Errorf("path = %s, want primary strategy endpoint", r.URL.Path)
		}
		// The entity call site stamps its cache buster as _nocache.
		if r.URL.Query().Get("_nocache") == "" {
			t.Error("cache buster _nocache missing")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"success":true,"listing":{"_id":"` + validID + `","title":"Bungalow","price":12000000}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server, Config{})
	listing, res, err := c.GetListingByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing == nil || listing.ID != validID || listing.Title != "Bungalow" {
		t.Fatalf("listing = %+v, want upstream entity", listing)
	}
	if res.IDMatch == nil || !*res.IDMatch {
		t.Errorf("IDMatch = %v, want true", res.IDMatch)
	}
	if res.Strategy != "primary" {
		t.Errorf("strategy = %q, want primary", res.Strategy)
	}
}

func TestGetListingByIDIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"success":true,"listing":{"_id":"` + validID + `","title":"Bungalow"}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server, Config{})
	first, firstRes, err := c.GetListingByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, secondRes, err := c.GetListingByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("payloads differ across identical calls: %+v vs %+v", first, second)
	}
	if firstRes.RequestID == secondRes.RequestID {
		t.Error("request ids should differ per logical call")
	}
}

func TestGetListingByIDEscalatesToRecovery(t *testing.T) {
	var primaryHits, recoveryHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("fallback") == "true" {
			recoveryHits.Add(1)
			if _, err := w.Write([]byte(`{"success":true,"listing":{"_id":"111111111111111111111111","title":"Alternate"}}`)); err != nil {
				t.Errorf("write response: %v", err)
			}
			return
		}
		primaryHits.Add(1)
		if _, err := w.Write([]byte(`{"success":true,"listing":{"_id":"000000000000000000000000","title":"Wrong"}}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server, Config{})
	listing, res, err := c.GetListingByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing == nil || listing.Title != "Alternate" {
		t.Fatalf("listing = %+v, want recovery strategy's entity", listing)
	}
	if res.IDMatch == nil || *res.IDMatch {
		t.Errorf("IDMatch = %v, want recorded false for tolerated mismatch", res.IDMatch)
	}
	if primaryHits.Load() != 1 || recoveryHits.Load() != 1 {
		t.Errorf("hits = primary %d recovery %d, want 1 and 1", primaryHits.Load(), recoveryHits.Load())
	}
}

func TestGetListingByIDConfirmed404(t *testing.T) {
	if testing.Short() {
		t.Skip("walks the real entity-profile backoff schedule")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"success":false,"error":"listing not found"}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server, Config{})
	listing, res, err := c.GetListingByID(context.Background(), validID)
	if err != nil {
		t.Fatalf("lookup must not error on upstream 404, got: %v", err)
	}
	if listing != nil {
		t.Fatalf("listing = %+v, want nil", listing)
	}
	if !res.Fallback {
		t.Fatal("fallback = false, want exhausted lookup")
	}
	if !NotFound(res) {
		t.Errorf("NotFound = false for confirmed 404 (last status %d)", res.LastStatus)
	}
	if !strings.Contains(res.FallbackReason, "not found") {
		t.Errorf("fallback reason = %q, want upstream message", res.FallbackReason)
	}
}

func TestNotFoundHelper(t *testing.T) {
	tests := []struct {
		name string
		res  *fetch.Result
		want bool
	}{
		{"nil result", nil, false},
		{"confirmed 404", &fetch.Result{Fallback: true, LastStatus: 404}, true},
		{"transient exhaustion", &fetch.Result{Fallback: true, LastStatus: 503}, false},
		{"timeout exhaustion", &fetch.Result{Fallback: true}, false},
		{"live result", &fetch.Result{LastStatus: 404}, false},
	}
	for _, tt := range tests {
		if got := NotFound(tt.res); got != tt.want {
			t.Errorf("%s: NotFound = %v, want %v", tt.name, got, tt.want)
		}
	}
}
