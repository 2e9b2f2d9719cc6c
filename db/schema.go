// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are stored as Unix milliseconds (UTC) so the same DDL and
// scan code work on SQLite and PostgreSQL.
const schema = `
-- Groups
CREATE TABLE IF NOT EXISTS dining_group (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    location_type TEXT NOT NULL,
    location_value TEXT NOT NULL,
    radius DOUBLE PRECISION NOT NULL,
    deadline BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    decided_restaurant_id TEXT,
    decided_at BIGINT,
    result_sent_at BIGINT
);

-- Invites
CREATE TABLE IF NOT EXISTS invite (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES dining_group(id) ON DELETE CASCADE,
    type TEXT NOT NULL CHECK (type IN ('email', 'phone')),
    value TEXT NOT NULL,
    normalized TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'sent', 'skipped', 'failed', 'joined')),
    created_at BIGINT NOT NULL,
    sent_at BIGINT,
    joined_at BIGINT,
    error TEXT,
    UNIQUE (group_id, type, normalized)
);

CREATE INDEX IF NOT EXISTS idx_invite_group_id ON invite(group_id);

-- Members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES dining_group(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    contact_type TEXT NOT NULL,
    contact_value TEXT NOT NULL,
    joined_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_member_group_id ON member(group_id);

-- Restaurants (replaced wholesale per group on refresh)
CREATE TABLE IF NOT EXISTS restaurant (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES dining_group(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    cuisine TEXT NOT NULL,
    distance_miles DOUBLE PRECISION NOT NULL,
    distance TEXT NOT NULL,
    sort_order INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_restaurant_group_id ON restaurant(group_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES dining_group(id) ON DELETE CASCADE,
    restaurant_id TEXT NOT NULL REFERENCES restaurant(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    decision TEXT NOT NULL CHECK (decision IN ('yes', 'no')),
    created_at BIGINT NOT NULL,
    UNIQUE (group_id, restaurant_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_group_id ON vote(group_id);
`
