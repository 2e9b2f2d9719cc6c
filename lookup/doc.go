// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lookup finds restaurants near a free-text location.

A lookup runs in four steps:

 1. Geocode the location against a Nominatim-compatible search endpoint.
    Hits are cached for 6 hours by trimmed, lowercased location.
 2. Query Overpass for amenity=restaurant nodes, ways and relations within
    radius*1609.34 meters, asking for at most 40 elements. Endpoints are
    tried in order until one answers 2xx.
 3. Normalize: drop elements without a name/brand or coordinates, keep the
    first element per case-insensitive name, and build a cuisine label from
    at most two entries of the cuisine tag ("Restaurant" when absent).
 4. Rank by haversine distance and keep the 12 nearest.

Results are cached for 10 minutes per (location, radius), and concurrent
identical lookups share one upstream round trip.

# Errors

	ErrNoResults    nothing found; not a failure
	*TimeoutError   the lookup exceeded Config.Timeout
	*UpstreamError  the geocoder could not be reached or returned garbage
	*FetchError     every Overpass endpoint failed

Use errors.Is / errors.As to tell them apart.
*/
package lookup
