// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lookup

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	earthRadiusMiles = 3958.8
	metersPerMile    = 1609.34

	// MaxResults is how many of the nearest restaurants are kept
	MaxResults = 12

	defaultCuisine = "Restaurant"
	maxCuisines    = 2
)

// Point is a WGS84 coordinate
type Point struct {
	Lat float64
	Lon float64
}

// Restaurant is one ranked lookup result
type Restaurant struct {
	SourceID      string
	Name          string
	Cuisine       string
	DistanceMiles float64
	Distance      string
}

// element is a raw Overpass result. Nodes carry lat/lon; ways and
// relations carry a center when queried with "out center".
type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *centerPoint      `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type centerPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type place struct {
	sourceID string
	name     string
	cuisine  string
	point    Point
}

func (e element) name() string {
	if n := strings.TrimSpace(e.Tags["name"]); n != "" {
		return n
	}
	return strings.TrimSpace(e.Tags["brand"])
}

func (e element) point() (Point, bool) {
	if e.Lat != nil && e.Lon != nil {
		return Point{Lat: *e.Lat, Lon: *e.Lon}, true
	}
	if e.Center != nil {
		return Point{Lat: e.Center.Lat, Lon: e.Center.Lon}, true
	}
	return Point{}, false
}

func (e element) sourceID() string {
	t := e.Type
	if t == "" {
		t = "node"
	}
	return fmt.Sprintf("%s-%d", t, e.ID)
}

// normalizePlaces drops unnamed or unlocated elements and keeps the first
// element for each case-insensitive name.
func normalizePlaces(elements []element) []place {
	seen := make(map[string]bool)
	places := make([]place, 0, len(elements))

	for _, e := range elements {
		name := e.name()
		if name == "" {
			continue
		}
		pt, ok := e.point()
		if !ok {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		places = append(places, place{
			sourceID: e.sourceID(),
			name:     name,
			cuisine:  cuisineLabel(e.Tags["cuisine"]),
			point:    pt,
		})
	}

	return places
}

// cuisineLabel turns "pizza; italian;burger" into "pizza, italian"
func cuisineLabel(tag string) string {
	var parts []string
	for _, p := range strings.Split(tag, ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if len(parts) == maxCuisines {
			break
		}
	}
	if len(parts) == 0 {
		return defaultCuisine
	}
	return strings.Join(parts, ", ")
}

// rankPlaces sorts by distance from center and keeps the nearest MaxResults
func rankPlaces(center Point, places []place) []Restaurant {
	results := make([]Restaurant, len(places))
	for i, p := range places {
		d := haversineMiles(center, p.point)
		results[i] = Restaurant{
			SourceID:      p.sourceID,
			Name:          p.name,
			Cuisine:       p.cuisine,
			DistanceMiles: d,
			Distance:      FormatDistance(d),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMiles < results[j].DistanceMiles
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// FormatDistance renders miles with one decimal, e.g. "0.4 mi". Halves
// round away from zero.
func FormatDistance(miles float64) string {
	return strconv.FormatFloat(math.Round(miles*10)/10, 'f', 1, 64) + " mi"
}

// haversineMiles is the great-circle distance between two points
func haversineMiles(a, b Point) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// radiusMeters converts the group radius to the Overpass "around" unit
func radiusMeters(miles float64) float64 {
	return miles * metersPerMile
}
