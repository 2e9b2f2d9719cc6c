// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for groups, invites, members,
restaurants and votes.

	st := store.New(conn, cfg.DatabaseType)
	group, err := st.GetGroupByCode(ctx, "abc234")

Every query is scoped by group ID. Lookups that find nothing return
ErrNotFound; writes that hit a uniqueness rule or a row in the wrong state
return ErrConflict.

# Guarded Transitions

Two updates are conditional so that concurrent callers cannot repeat them:

  - CloseGroup only matches status = 'open', and writes the decided
    restaurant and decided_at in the same statement.
  - ClaimResultSent only matches result_sent_at IS NULL.

Both report whether this caller performed the transition.

# Transactions

ReplaceRestaurants deletes the group's votes and restaurants and inserts
the new set atomically. JoinMember marks the invite joined and inserts the
member atomically.
*/
package store
