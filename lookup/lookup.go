// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	geocodeTTL = 6 * time.Hour
	resultTTL  = 10 * time.Minute

	// rawElementLimit bounds what Overpass returns before normalization
	rawElementLimit = 40

	defaultTimeout = 12 * time.Second
)

// Config describes the upstream services used by a Pipeline
type Config struct {
	GeocodeURL   string
	OverpassURLs []string
	Timeout      time.Duration
	UserAgent    string

	// Optional; defaults to http.DefaultClient and time.Now
	HTTPClient *http.Client
	Now        func() time.Time
}

// Pipeline geocodes a location, queries points-of-interest backends and
// returns the nearest restaurants. Results and geocodes are cached for the
// life of the process.
type Pipeline struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
	log    *zap.Logger

	geocodes *ttlCache[string, Point]
	results  *ttlCache[string, []Restaurant]
	flight   singleflight.Group
}

func New(cfg Config, log *zap.Logger) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		client:   cfg.HTTPClient,
		now:      cfg.Now,
		log:      log,
		geocodes: newTTLCache[string, Point](geocodeTTL),
		results:  newTTLCache[string, []Restaurant](resultTTL),
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.cfg.Timeout <= 0 {
		p.cfg.Timeout = defaultTimeout
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Find returns up to MaxResults restaurants within radiusMiles of location,
// nearest first. Errors are ErrNoResults, *TimeoutError, *UpstreamError or
// *FetchError.
func (p *Pipeline) Find(ctx context.Context, location string, radiusMiles float64) ([]Restaurant, error) {
	key := resultKey(location, radiusMiles)
	if cached, ok := p.results.get(key, p.now()); ok {
		return cloneRestaurants(cached), nil
	}

	// Concurrent refreshes of the same location share one upstream call.
	// The flight outlives whichever caller started it; lookup still bounds
	// it with the configured timeout.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := p.flight.Do(key, func() (any, error) {
		return p.lookup(flightCtx, location, radiusMiles)
	})
	if err != nil {
		return nil, err
	}

	list := v.([]Restaurant)
	p.results.set(key, list, p.now())
	return cloneRestaurants(list), nil
}

func (p *Pipeline) lookup(ctx context.Context, location string, radiusMiles float64) ([]Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	results, err := p.run(ctx, location, radiusMiles)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			return nil, err
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) run(ctx context.Context, location string, radiusMiles float64) ([]Restaurant, error) {
	center, err := p.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	elements, err := p.fetchElements(ctx, center, radiusMiles)
	if err != nil {
		return nil, err
	}

	ranked := rankPlaces(center, normalizePlaces(elements))
	if len(ranked) == 0 {
		return nil, ErrNoResults
	}

	p.log.Debug("restaurant lookup complete",
		zap.String("location", location),
		zap.Float64("radius_miles", radiusMiles),
		zap.Int("raw", len(elements)),
		zap.Int("kept", len(ranked)),
	)
	return ranked, nil
}

type geocodeHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (p *Pipeline) geocode(ctx context.Context, location string) (Point, error) {
	trimmed := strings.TrimSpace(location)
	key := strings.ToLower(trimmed)
	if pt, ok := p.geocodes.get(key, p.now()); ok {
		return pt, nil
	}

	u, err := url.Parse(p.cfg.GeocodeURL)
	if err != nil {
		return Point{}, &UpstreamError{Op: "geocode", Err: err}
	}
	q := u.Query()
	q.Set("q", trimmed)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Point{}, &UpstreamError{Op: "geocode", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Point{}, &UpstreamError{Op: "geocode", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Point{}, fmt.Errorf("geocode status %d: %w", resp.StatusCode, ErrNoResults)
	}

	var hits []geocodeHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Point{}, &UpstreamError{Op: "geocode", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(hits) == 0 {
		return Point{}, fmt.Errorf("geocode %q: %w", trimmed, ErrNoResults)
	}

	lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(hits[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Point{}, &UpstreamError{Op: "geocode", Err: fmt.Errorf("bad coordinates %q,%q", hits[0].Lat, hits[0].Lon)}
	}

	pt := Point{Lat: lat, Lon: lon}
	p.geocodes.set(key, pt, p.now())
	return pt, nil
}

// fetchElements tries each Overpass endpoint in order and returns the first
// successful response.
func (p *Pipeline) fetchElements(ctx context.Context, center Point, radiusMiles float64) ([]element, error) {
	if len(p.cfg.OverpassURLs) == 0 {
		return nil, &FetchError{Err: errNoBackends}
	}

	query := overpassQuery(center, radiusMeters(radiusMiles))

	var lastErr error
	for _, endpoint := range p.cfg.OverpassURLs {
		elements, err := p.queryOverpass(ctx, endpoint, query)
		if err == nil {
			return elements, nil
		}
		lastErr = err
		p.log.Warn("overpass backend failed", zap.String("endpoint", endpoint), zap.Error(err))
	}

	return nil, &FetchError{Attempts: len(p.cfg.OverpassURLs), Err: lastErr}
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

func (p *Pipeline) queryOverpass(ctx context.Context, endpoint, query string) ([]element, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return body.Elements, nil
}

func overpassQuery(center Point, meters float64) string {
	around := fmt.Sprintf("(around:%.0f,%.6f,%.6f)", meters, center.Lat, center.Lon)
	return fmt.Sprintf(
		`[out:json][timeout:25];(node["amenity"="restaurant"]%s;way["amenity"="restaurant"]%s;relation["amenity"="restaurant"]%s;);out center %d;`,
		around, around, around, rawElementLimit,
	)
}

func resultKey(location string, radiusMiles float64) string {
	return strings.ToLower(strings.TrimSpace(location)) + "|" + strconv.FormatFloat(radiusMiles, 'f', -1, 64)
}

func cloneRestaurants(in []Restaurant) []Restaurant {
	out := make([]Restaurant, len(in))
	copy(out, in)
	return out
}
