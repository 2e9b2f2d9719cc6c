// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the chowsr API server.

chowsr helps a group pick a restaurant. A host creates a group with a
location, radius and deadline, invites friends by email or phone, and
everyone swipes yes or no on nearby restaurants. Voting closes as soon as
one place collects enough yes votes, or when the deadline passes, and every
member is told the result once.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Flags override the environment:

	go run . -p 3318 -d chowsr.db -static ../client/dist

A .env file in the working directory is loaded first if present.

# Architecture

  - handlers: HTTP request handlers (groups, invites, members, restaurants, votes)
  - router: chi route table, static client bundle
  - middleware: request logging, CORS, rate limiting, JSON helpers
  - finalize: closes groups and sends the result exactly once
  - consensus: threshold and winner selection
  - lookup: geocoding and restaurant search against OpenStreetMap services
  - notify: email (SMTP) and SMS (Twilio) delivery
  - store: persistence on SQLite or PostgreSQL
  - db: connection setup and schema creation
  - models, contact, ids, ratelimit, logging, cliparse: supporting packages

See package documentation for each component.
*/
package main
