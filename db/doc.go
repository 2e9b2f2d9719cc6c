// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database connection and creates the schema.

# Connecting

Open picks the driver from DATABASE_TYPE:

		conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

	  - sqlite (default): modernc.org/sqlite, DATABASE_URL is a file path.
	    Foreign keys, WAL and busy_timeout are enabled through _pragma DSN
	    parameters; the pool holds one connection.
	  - postgres: github.com/lib/pq, DATABASE_URL is a postgres:// URL.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is written to run unchanged on both drivers.

# Tables

  - dining_group: group metadata, lifecycle state and decision
  - invite: one contact authorized to join, unique per (group, type, normalized)
  - member: people who joined
  - restaurant: current lookup results, ordered by sort_order
  - vote: one yes/no per (group, restaurant, member)

# Relationships

	dining_group 1──* invite
	dining_group 1──* member
	dining_group 1──* restaurant
	dining_group 1──* vote
	restaurant 1──* vote
	member 1──* vote

All foreign keys use ON DELETE CASCADE, so deleting a group's restaurants
also removes their votes.

# Timestamps

All time columns are BIGINT Unix milliseconds in UTC. Nullable columns
(decided_at, result_sent_at, sent_at, joined_at) are NULL until set.
*/
package db
