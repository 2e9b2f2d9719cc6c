// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/chowsr/ids"
	"github.com/danielhkuo/chowsr/models"
)

// codeAttempts bounds retries when a generated group code collides
const codeAttempts = 5

const groupColumns = `id, code, name, location_type, location_value, radius, deadline,
	created_at, status, decided_restaurant_id, decided_at, result_sent_at`

// CreateGroup inserts an open group with a fresh ID and share code.
// ID, Code, CreatedAt and Status on g are ignored.
func (s *Store) CreateGroup(ctx context.Context, g models.Group, now time.Time) (models.Group, error) {
	g.ID = ids.NewID()
	g.Status = models.StatusOpen
	g.CreatedAt = fromMillis(toMillis(now))
	g.Deadline = fromMillis(toMillis(g.Deadline))
	g.DecidedRestaurantID = nil
	g.DecidedAt = nil
	g.ResultSentAt = nil

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := ids.GenerateGroupCode()
		if err != nil {
			return models.Group{}, err
		}
		g.Code = code

		_, err = s.exec(ctx, s.db, `
			INSERT INTO dining_group (id, code, name, location_type, location_value, radius, deadline, created_at, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, g.ID, g.Code, g.Name, g.LocationType, g.LocationValue, g.Radius,
			toMillis(g.Deadline), toMillis(g.CreatedAt), g.Status)
		if err == nil {
			return g, nil
		}
		if !isUniqueViolation(err) {
			return models.Group{}, fmt.Errorf("insert group: %w", err)
		}
	}
	return models.Group{}, fmt.Errorf("insert group: no free code after %d attempts: %w", codeAttempts, ErrConflict)
}

// GetGroupByCode looks a group up by share code, case-insensitively
func (s *Store) GetGroupByCode(ctx context.Context, code string) (models.Group, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+groupColumns+` FROM dining_group WHERE code = ?`, ids.NormalizeCode(code))
	return scanGroup(row)
}

func (s *Store) GetGroup(ctx context.Context, id string) (models.Group, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+groupColumns+` FROM dining_group WHERE id = ?`, id)
	return scanGroup(row)
}

// CloseGroup moves an open group to closed, recording the winner (may be
// nil) and the decision time together. Returns false if the group was
// already closed.
func (s *Store) CloseGroup(ctx context.Context, groupID string, winnerID *string, at time.Time) (bool, error) {
	var winner sql.NullString
	if winnerID != nil {
		winner = sql.NullString{String: *winnerID, Valid: true}
	}

	res, err := s.exec(ctx, s.db, `
		UPDATE dining_group
		SET status = 'closed', decided_restaurant_id = ?, decided_at = ?
		WHERE id = ? AND status = 'open'
	`, winner, toMillis(at), groupID)
	if err != nil {
		return false, fmt.Errorf("close group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ClaimResultSent stamps result_sent_at if it is still empty. Only the
// caller that gets true may dispatch the result notification.
func (s *Store) ClaimResultSent(ctx context.Context, groupID string, at time.Time) (bool, error) {
	res, err := s.exec(ctx, s.db, `
		UPDATE dining_group SET result_sent_at = ?
		WHERE id = ? AND result_sent_at IS NULL
	`, toMillis(at), groupID)
	if err != nil {
		return false, fmt.Errorf("claim result sent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanGroup(row *sql.Row) (models.Group, error) {
	var (
		g          models.Group
		deadline   int64
		createdAt  int64
		decidedID  sql.NullString
		decidedAt  sql.NullInt64
		resultSent sql.NullInt64
	)
	err := row.Scan(&g.ID, &g.Code, &g.Name, &g.LocationType, &g.LocationValue, &g.Radius,
		&deadline, &createdAt, &g.Status, &decidedID, &decidedAt, &resultSent)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("scan group: %w", err)
	}

	g.Deadline = fromMillis(deadline)
	g.CreatedAt = fromMillis(createdAt)
	g.DecidedRestaurantID = stringPtr(decidedID)
	g.DecidedAt = timePtr(decidedAt)
	g.ResultSentAt = timePtr(resultSent)
	return g, nil
}
