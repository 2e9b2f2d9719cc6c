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

const inviteColumns = `id, group_id, type, value, normalized, status, created_at, sent_at, joined_at, error`

func (s *Store) ListInvites(ctx context.Context, groupID string) ([]models.Invite, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT `+inviteColumns+` FROM invite
		WHERE group_id = ?
		ORDER BY created_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	invites := []models.Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (s *Store) GetInvite(ctx context.Context, groupID, inviteID string) (models.Invite, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+inviteColumns+` FROM invite WHERE id = ? AND group_id = ?`, inviteID, groupID)
	return scanInvite(row)
}

// FindInvite looks an invite up by its normalized contact
func (s *Store) FindInvite(ctx context.Context, groupID, contactType, normalized string) (models.Invite, error) {
	row := s.queryRow(ctx, s.db, `
		SELECT `+inviteColumns+` FROM invite
		WHERE group_id = ? AND type = ? AND normalized = ?
	`, groupID, contactType, normalized)
	return scanInvite(row)
}

// InsertInvite stores a pending invite. Returns ErrConflict if the group
// already has an invite for the same normalized contact.
func (s *Store) InsertInvite(ctx context.Context, groupID, contactType, value, normalized string, now time.Time) (models.Invite, error) {
	inv := models.Invite{
		ID:         ids.NewID(),
		GroupID:    groupID,
		Type:       contactType,
		Value:      value,
		Normalized: normalized,
		Status:     models.InvitePending,
		CreatedAt:  fromMillis(toMillis(now)),
	}

	_, err := s.exec(ctx, s.db, `
		INSERT INTO invite (id, group_id, type, value, normalized, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.GroupID, inv.Type, inv.Value, inv.Normalized, inv.Status, toMillis(inv.CreatedAt))
	if isUniqueViolation(err) {
		return models.Invite{}, ErrConflict
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("insert invite: %w", err)
	}
	return inv, nil
}

// UpdateInviteStatus records a delivery outcome. sent_at is set only for
// "sent"; errText is stored as-is (nil clears it). Joined invites are left
// untouched.
func (s *Store) UpdateInviteStatus(ctx context.Context, inviteID, status string, errText *string, at time.Time) error {
	var sentAt sql.NullInt64
	if status == models.InviteSent {
		sentAt = sql.NullInt64{Int64: toMillis(at), Valid: true}
	}
	var errCol sql.NullString
	if errText != nil {
		errCol = sql.NullString{String: *errText, Valid: true}
	}

	_, err := s.exec(ctx, s.db, `
		UPDATE invite SET status = ?, sent_at = ?, error = ?
		WHERE id = ? AND status <> 'joined'
	`, status, sentAt, errCol, inviteID)
	if err != nil {
		return fmt.Errorf("update invite status: %w", err)
	}
	return nil
}

// DeleteInvite removes an invite that has not been joined. Returns
// ErrNotFound for an unknown invite and ErrConflict for a joined one.
func (s *Store) DeleteInvite(ctx context.Context, groupID, inviteID string) error {
	res, err := s.exec(ctx, s.db, `
		DELETE FROM invite WHERE id = ? AND group_id = ? AND status <> 'joined'
	`, inviteID, groupID)
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	if _, err := s.GetInvite(ctx, groupID, inviteID); err != nil {
		return err
	}
	return ErrConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (models.Invite, error) {
	var (
		inv       models.Invite
		createdAt int64
		sentAt    sql.NullInt64
		joinedAt  sql.NullInt64
		errText   sql.NullString
	)
	err := row.Scan(&inv.ID, &inv.GroupID, &inv.Type, &inv.Value, &inv.Normalized, &inv.Status,
		&createdAt, &sentAt, &joinedAt, &errText)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invite{}, ErrNotFound
	}
	if err != nil {
		return models.Invite{}, fmt.Errorf("scan invite: %w", err)
	}

	inv.CreatedAt = fromMillis(createdAt)
	inv.SentAt = timePtr(sentAt)
	inv.JoinedAt = timePtr(joinedAt)
	inv.Error = stringPtr(errText)
	return inv, nil
}
