// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/chowsr/models"
)

// RestaurantID scopes a lookup source ID to a group so the same place can
// appear in several groups.
func RestaurantID(groupID, sourceID string) string {
	return groupID + ":" + sourceID
}

// ReplaceRestaurants swaps the group's restaurant set for the given list in
// one transaction. The group's votes are removed with the old set. Each
// restaurant's ID must already be group-scoped; GroupID and Position are
// assigned here.
func (s *Store) ReplaceRestaurants(ctx context.Context, groupID string, restaurants []models.Restaurant) ([]models.Restaurant, error) {
	stored := make([]models.Restaurant, len(restaurants))

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx, `DELETE FROM vote WHERE group_id = ?`, groupID); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if _, err := s.exec(ctx, tx, `DELETE FROM restaurant WHERE group_id = ?`, groupID); err != nil {
			return fmt.Errorf("delete restaurants: %w", err)
		}

		for i, r := range restaurants {
			r.GroupID = groupID
			r.Position = i
			_, err := s.exec(ctx, tx, `
				INSERT INTO restaurant (id, group_id, name, cuisine, distance_miles, distance, sort_order)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, r.ID, r.GroupID, r.Name, r.Cuisine, r.DistanceMiles, r.Distance, r.Position)
			if err != nil {
				return fmt.Errorf("insert restaurant %s: %w", r.ID, err)
			}
			stored[i] = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ListRestaurants returns the group's restaurants in ranked order
func (s *Store) ListRestaurants(ctx context.Context, groupID string) ([]models.Restaurant, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT id, group_id, name, cuisine, distance_miles, distance, sort_order
		FROM restaurant
		WHERE group_id = ?
		ORDER BY sort_order
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *Store) GetRestaurant(ctx context.Context, groupID, restaurantID string) (models.Restaurant, error) {
	row := s.queryRow(ctx, s.db, `
		SELECT id, group_id, name, cuisine, distance_miles, distance, sort_order
		FROM restaurant
		WHERE id = ? AND group_id = ?
	`, restaurantID, groupID)
	return scanRestaurant(row)
}

func scanRestaurant(row rowScanner) (models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.GroupID, &r.Name, &r.Cuisine, &r.DistanceMiles, &r.Distance, &r.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Restaurant{}, ErrNotFound
	}
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("scan restaurant: %w", err)
	}
	return r, nil
}
