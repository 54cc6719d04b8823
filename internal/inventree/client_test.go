package inventree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stocktree/internal/model"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	if _, err := c.Categories(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Token secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Token secret-token")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want %q", gotAccept, "application/json")
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	c := NewClient("https://example.com/", "t")
	if got := c.BaseURL(); got != "https://example.com" {
		t.Errorf("BaseURL = %q, want without trailing slash", got)
	}
}

func TestDecodeListBareArray(t *testing.T) {
	data := []byte(`  [{"pk": 1, "name": "Electronics"}]`)
	payload, err := decodeList[apiCategory](data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Results) != 1 || payload.Results[0].Name != "Electronics" {
		t.Errorf("results = %+v", payload.Results)
	}
	if payload.Next != "" {
		t.Errorf("Next = %q, want empty for bare array", payload.Next)
	}
}

func TestDecodeListEnvelope(t *testing.T) {
	data := []byte(`{"count": 40, "next": "http://x/api/part/?offset=25", "previous": null, "results": [{"pk": 2, "name": "R1"}]}`)
	payload, err := decodeList[apiPart](data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Results) != 1 || payload.Results[0].PK != 2 {
		t.Errorf("results = %+v", payload.Results)
	}
	if payload.Next == "" {
		t.Error("Next is empty, want the next-page URL")
	}
}

func TestDecodeListMalformed(t *testing.T) {
	_, err := decodeList[apiPart]([]byte(`{"results": "nope"`))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want *DecodeError", err)
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "expired")
	_, err := c.Part(context.Background(), 1)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestStatusErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail": "Not found."}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	_, err := c.Part(context.Background(), 99)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", se.Code)
	}
	if se.Detail != "Not found." {
		t.Errorf("Detail = %q, want server detail", se.Detail)
	}
}

func TestPartsQueryAndPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "3" || q.Get("limit") != "25" || q.Get("offset") != "25" {
			t.Errorf("unexpected query: %v", q)
		}
		fmt.Fprint(w, `{"count": 60, "next": "http://x/?offset=50", "results": [{"pk": 7, "name": "Relay", "in_stock": 4}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	page, err := c.Parts(context.Background(), PartQuery{Category: 3, Limit: 25, Offset: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasMore {
		t.Error("HasMore = false, want true")
	}
	if len(page.Parts) != 1 || page.Parts[0].Name != "Relay" {
		t.Errorf("parts = %+v", page.Parts)
	}
}

func TestPartImageJoinedWithBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pk": 5, "name": "Bolt", "image": "/media/bolt.png"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	p, err := c.Part(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := srv.URL + "/media/bolt.png"
	if p.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", p.ImageURL, want)
	}
}

func TestStockItemFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pk": 9, "part": 5, "quantity": 12}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	item, err := c.StockItem(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Serial != model.UnknownSerial {
		t.Errorf("Serial = %q, want %q", item.Serial, model.UnknownSerial)
	}
	if item.Batch != model.UnknownBatch {
		t.Errorf("Batch = %q, want %q", item.Batch, model.UnknownBatch)
	}
	if item.LocationName != model.UnknownLocation {
		t.Errorf("LocationName = %q, want %q", item.LocationName, model.UnknownLocation)
	}
}

func TestRemoveStockBody(t *testing.T) {
	var got removeStockRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/stock/remove/" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	if err := c.RemoveStock(context.Background(), 42, 3.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].PK != 42 || got.Items[0].Quantity != 3.5 {
		t.Errorf("body = %+v", got)
	}
}

func TestRemoveStockRejectsNegative(t *testing.T) {
	c := NewClient("http://localhost:1", "t")
	if err := c.RemoveStock(context.Background(), 1, -2); err == nil {
		t.Error("negative quantity accepted")
	}
}

func TestClampRemoval(t *testing.T) {
	tests := []struct {
		requested, current, want float64
	}{
		{5, 10, 5},
		{10, 10, 10},
		{15, 10, 10},
		{-3, 10, 0},
		{0, 10, 0},
		{2.5, 2, 2},
	}
	for _, tt := range tests {
		if got := ClampRemoval(tt.requested, tt.current); got != tt.want {
			t.Errorf("ClampRemoval(%g, %g) = %g, want %g", tt.requested, tt.current, got, tt.want)
		}
	}
}

func TestFetchPartsPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/part/2/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var p apiPart
		fmt.Sscanf(r.URL.Path, "/api/part/%d/", &p.PK)
		p.Name = fmt.Sprintf("part-%d", p.PK)
		json.NewEncoder(w).Encode(p)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	got := c.FetchParts(context.Background(), []int{1, 2, 3})

	if len(got) != 2 {
		t.Fatalf("got %d parts, want 2", len(got))
	}
	if _, ok := got[2]; ok {
		t.Error("failed lookup present in results")
	}
	if got[1].Name != "part-1" || got[3].Name != "part-3" {
		t.Errorf("results = %+v", got)
	}
}

func TestEmptyPartNameFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pk": 3}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	p, err := c.Part(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != model.UnknownPartName {
		t.Errorf("Name = %q, want %q", p.Name, model.UnknownPartName)
	}
}
