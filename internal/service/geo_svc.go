package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

const defaultGeoTimeout = 1500 * time.Millisecond

// GeoConfig configures the IP geolocation client.
type GeoConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

// GeoService resolves voter IPs to a coarse location via an ipinfo-style
// lookup endpoint. Lookups are strictly best-effort: the vote path never
// waits past the client timeout and never fails on a geo error.
type GeoService struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewGeoService(cfg GeoConfig) *GeoService {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultGeoTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GeoService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  client,
	}
}

// Lookup resolves an IP to a location. Returns nil on any failure or when the
// service is unconfigured; the vote then records null geo fields.
func (s *GeoService) Lookup(ctx context.Context, ip string) *model.GeoLocation {
	if s == nil || s.baseURL == "" || ip == "" {
		return nil
	}

	u := s.baseURL + "/" + url.PathEscape(ip)
	if s.token != "" {
		u += "?token=" + url.QueryEscape(s.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var body struct {
		Country string `json:"country"`
		Region  string `json:"region"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil
	}

	loc := model.GeoLocation{
		CountryCode: normalizeCountry(body.Country),
		Region:      body.Region,
		City:        body.City,
	}
	if loc.CountryCode == "" && loc.Region == "" && loc.City == "" {
		return nil
	}
	return &loc
}

// normalizeCountry keeps only clean ISO 3166-1 alpha-2 codes; anything else
// would overflow the two-character column.
func normalizeCountry(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return ""
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return ""
		}
	}
	return code
}
