// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Environment variables are read first (main loads an optional .env file
before calling ParseFlags), then CLI flags override them.

# CLI Flags

	-p       Server port
	-d       Database URL (SQLite file path or postgres:// URL)
	-t       Database type: sqlite (default) or postgres
	-static  Directory of the built client bundle

# Environment Variables

Server:

	PORT, DATABASE_URL, DATABASE_TYPE, PUBLIC_BASE_URL, STATIC_DIR,
	LOG_LEVEL, LOG_FORMAT

Restaurant lookup:

	GEOCODE_URL        Nominatim-compatible search endpoint
	OVERPASS_URLS      comma-separated Overpass endpoints, tried in order
	LOOKUP_TIMEOUT     upper bound for one lookup (default 12s)
	LOOKUP_USER_AGENT  sent to the public OSM services
	RESTAURANT_RATE_LIMIT / RESTAURANT_RATE_WINDOW

Notifications (each channel is toggled independently):

	EMAIL_ENABLED, SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, MAIL_FROM
	SMS_ENABLED, TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM

# Validation

ParseFlags returns an error for an out-of-range port, an unknown database
type, an empty database URL, no Overpass endpoints, or a non-positive
rate limit.
*/
package cliparse
