package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newProviderStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/explore", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("req") == "" {
			http.Error(w, "missing req", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, ")]}'\n", `{
			"widgets": [
				{"id": "TIMESERIES", "token": "ts-token", "request": {"q": "ts"}},
				{"id": "GEO_MAP", "token": "geo-token", "request": {"q": "geo"}},
				{"id": "RELATED_QUERIES", "token": "rq-1", "request": {"q": "swiggy"}},
				{"id": "RELATED_QUERIES", "token": "rq-2", "request": {"q": "zomato"}}
			]
		}`)
	})
	mux.HandleFunc("/widgetdata/multiline", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "ts-token" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, ")]}',\n", `{
			"default": {
				"timelineData": [
					{"time": "1735430400", "value": [40, 55], "hasData": [true, true]},
					{"time": "1736035200", "value": [0, 60], "hasData": [false, true]},
					{"time": "1736640000", "value": [48, 62], "hasData": [true, true]}
				]
			}
		}`)
	})
	mux.HandleFunc("/widgetdata/comparedgeo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ")]}',\n", `{
			"default": {
				"geoMapData": [
					{"geoName": "Delhi", "value": [70, 90], "hasData": [true, true]},
					{"geoName": "Karnataka", "value": [85, 60], "hasData": [true, true]}
				]
			}
		}`)
	})
	mux.HandleFunc("/widgetdata/relatedsearches", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		keyword := "swiggy"
		if token == "rq-2" {
			keyword = "zomato"
		}
		fmt.Fprint(w, ")]}',\n", fmt.Sprintf(`{
			"default": {
				"rankedList": [
					{"rankedKeyword": [{"query": "%s coupon"}, {"query": "%s near me"}]}
				]
			}
		}`, keyword, keyword))
	})

	return httptest.NewServer(mux)
}

func TestFetchSnapshot(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()

	brands := []string{"Swiggy", "Zomato"}
	client := NewClient(server.URL, brands, "IN", "today 12-m", 5*time.Second)

	snapshot, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Series.Len() != 3 {
		t.Fatalf("expected 3 weeks, got %d", snapshot.Series.Len())
	}
	if err := snapshot.Series.Validate(); err != nil {
		t.Fatalf("snapshot series failed validation: %v", err)
	}

	// hasData=false must map to a missing value, not zero.
	if snapshot.Series.Values["Swiggy"][1] != nil {
		t.Error("expected missing value where provider reported hasData=false")
	}
	if v := snapshot.Series.Values["Zomato"][2]; v == nil || *v != 62 {
		t.Errorf("expected Zomato week 3 = 62, got %v", v)
	}

	if len(snapshot.Regions.Scores) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(snapshot.Regions.Scores))
	}
	if v := snapshot.Regions.Scores["Delhi"]["Zomato"]; v != 90 {
		t.Errorf("expected Delhi/Zomato = 90, got %v", v)
	}

	// Related-query widgets map to brands in keyword order.
	if qs := snapshot.Related["Zomato"]; len(qs) != 2 || qs[0] != "zomato coupon" {
		t.Errorf("unexpected related queries for Zomato: %v", qs)
	}

	if snapshot.Placeholder {
		t.Error("fresh snapshot must not be flagged as placeholder")
	}
	if !snapshot.Series.Dates[0].Before(snapshot.Series.Dates[1]) {
		t.Error("dates must be strictly increasing")
	}
}

func TestFetchSnapshotProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, []string{"Swiggy"}, "IN", "today 12-m", time.Second)

	_, err := client.FetchSnapshot(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestFetchSnapshotUnreachableHost(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", []string{"Swiggy"}, "IN", "today 12-m", 500*time.Millisecond)

	_, err := client.FetchSnapshot(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
