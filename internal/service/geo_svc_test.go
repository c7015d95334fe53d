package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geoServer(t *testing.T, token string, handler http.HandlerFunc) *GeoService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeoService(GeoConfig{
		BaseURL:    srv.URL,
		Token:      token,
		HTTPClient: srv.Client(),
	})
}

func TestGeoLookup_FullResponse(t *testing.T) {
	var gotPath string
	svc := geoServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"ip": "203.0.113.7", "country": "CA", "region": "Quebec", "city": "Montreal"}`))
	})

	loc := svc.Lookup(context.Background(), "203.0.113.7")
	if loc == nil {
		t.Fatal("loc = nil, want location")
	}
	if gotPath != "/203.0.113.7" {
		t.Errorf("path = %q, want /203.0.113.7", gotPath)
	}
	if loc.CountryCode != "CA" || loc.Region != "Quebec" || loc.City != "Montreal" {
		t.Errorf("loc = %+v, want CA/Quebec/Montreal", *loc)
	}
}

func TestGeoLookup_TokenQueryParam(t *testing.T) {
	var gotToken string
	svc := geoServer(t, "sekrit", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"country": "US"}`))
	})

	if loc := svc.Lookup(context.Background(), "203.0.113.7"); loc == nil {
		t.Fatal("loc = nil, want location")
	}
	if gotToken != "sekrit" {
		t.Errorf("token = %q, want %q", gotToken, "sekrit")
	}
}

func TestGeoLookup_NormalizesCountry(t *testing.T) {
	svc := geoServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"country": "ca", "city": "Montreal"}`))
	})

	loc := svc.Lookup(context.Background(), "203.0.113.7")
	if loc == nil {
		t.Fatal("loc = nil, want location")
	}
	if loc.CountryCode != "CA" {
		t.Errorf("country = %q, want CA", loc.CountryCode)
	}
}

func TestGeoLookup_FailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
		{"empty location", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ip": "203.0.113.7"}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := geoServer(t, "", tt.handler)
			if loc := svc.Lookup(context.Background(), "203.0.113.7"); loc != nil {
				t.Errorf("loc = %+v, want nil", *loc)
			}
		})
	}
}

func TestGeoLookup_UnconfiguredReturnsNil(t *testing.T) {
	svc := NewGeoService(GeoConfig{})
	if loc := svc.Lookup(context.Background(), "203.0.113.7"); loc != nil {
		t.Errorf("loc = %+v, want nil when no base URL is set", *loc)
	}
}

func TestGeoLookup_EmptyIPReturnsNil(t *testing.T) {
	svc := geoServer(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("lookup should not hit the endpoint for an empty ip")
	})
	if loc := svc.Lookup(context.Background(), ""); loc != nil {
		t.Errorf("loc = %+v, want nil", *loc)
	}
}

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CA", "CA"},
		{"ca", "CA"},
		{" us ", "US"},
		{"CAN", ""},
		{"C", ""},
		{"C4", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeCountry(tt.in); got != tt.want {
			t.Errorf("normalizeCountry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
