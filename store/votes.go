// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/chowsr/ids"
	"github.com/danielhkuo/chowsr/models"
)

// UpsertVote records a member's decision, overwriting any earlier one for
// the same restaurant.
func (s *Store) UpsertVote(ctx context.Context, groupID, restaurantID, memberID, decision string, now time.Time) error {
	_, err := s.exec(ctx, s.db, `
		INSERT INTO vote (id, group_id, restaurant_id, member_id, decision, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (group_id, restaurant_id, member_id)
		DO UPDATE SET decision = excluded.decision
	`, ids.NewID(), groupID, restaurantID, memberID, decision, toMillis(now))
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

// DeleteVote removes a member's vote. Removing a missing vote is not an error.
func (s *Store) DeleteVote(ctx context.Context, groupID, restaurantID, memberID string) error {
	_, err := s.exec(ctx, s.db, `
		DELETE FROM vote WHERE group_id = ? AND restaurant_id = ? AND member_id = ?
	`, groupID, restaurantID, memberID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// VoteSummary tallies yes/no per restaurant. Every restaurant of the group
// has an entry, zero-filled when it has no votes.
func (s *Store) VoteSummary(ctx context.Context, groupID string) (models.VoteSummary, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT r.id,
		       COALESCE(SUM(CASE WHEN v.decision = 'yes' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN v.decision = 'no' THEN 1 ELSE 0 END), 0)
		FROM restaurant r
		LEFT JOIN vote v ON v.restaurant_id = r.id
		WHERE r.group_id = ?
		GROUP BY r.id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("vote summary: %w", err)
	}
	defer rows.Close()

	summary := models.VoteSummary{}
	for rows.Next() {
		var (
			id    string
			tally models.VoteTally
		)
		if err := rows.Scan(&id, &tally.Yes, &tally.No); err != nil {
			return nil, fmt.Errorf("scan vote summary: %w", err)
		}
		summary[id] = tally
	}
	return summary, rows.Err()
}
