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

// JoinMember marks the invite joined and creates the member in one
// transaction. Returns ErrConflict if the invite was already joined.
func (s *Store) JoinMember(ctx context.Context, invite models.Invite, name string, now time.Time) (models.Member, error) {
	member := models.Member{
		ID:           ids.NewID(),
		GroupID:      invite.GroupID,
		Name:         name,
		ContactType:  invite.Type,
		ContactValue: invite.Normalized,
		JoinedAt:     fromMillis(toMillis(now)),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `
			UPDATE invite SET status = 'joined', joined_at = ?, error = NULL
			WHERE id = ? AND group_id = ? AND status <> 'joined'
		`, toMillis(member.JoinedAt), invite.ID, invite.GroupID)
		if err != nil {
			return fmt.Errorf("mark invite joined: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrConflict
		}

		_, err = s.exec(ctx, tx, `
			INSERT INTO member (id, group_id, name, contact_type, contact_value, joined_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, member.ID, member.GroupID, member.Name, member.ContactType, member.ContactValue, toMillis(member.JoinedAt))
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Member{}, err
	}
	return member, nil
}

func (s *Store) CountMembers(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.queryRow(ctx, s.db, `SELECT COUNT(*) FROM member WHERE group_id = ?`, groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// ListMembers returns members in join order
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT id, group_id, name, contact_type, contact_value, joined_at
		FROM member
		WHERE group_id = ?
		ORDER BY joined_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) GetMember(ctx context.Context, groupID, memberID string) (models.Member, error) {
	row := s.queryRow(ctx, s.db, `
		SELECT id, group_id, name, contact_type, contact_value, joined_at
		FROM member
		WHERE id = ? AND group_id = ?
	`, memberID, groupID)
	return scanMember(row)
}

func scanMember(row rowScanner) (models.Member, error) {
	var (
		m        models.Member
		joinedAt int64
	)
	err := row.Scan(&m.ID, &m.GroupID, &m.Name, &m.ContactType, &m.ContactValue, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("scan member: %w", err)
	}
	m.JoinedAt = fromMillis(joinedAt)
	return m, nil
}
