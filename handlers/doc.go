// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the chowsr API.

# Handler Types

Each handler is a struct holding the store, a logger and whatever else it
needs:

  - GroupHandler: create, fetch, full state, close (uses the Finalizer)
  - InviteHandler: add and delete invites, delivers through an InviteSender
  - MemberHandler: join and list members
  - RestaurantHandler: list and refresh restaurants through a RestaurantFinder
  - VoteHandler: cast, change and retract votes (uses the Finalizer)

Handlers are created via constructor functions:

	groupHandler := handlers.NewGroupHandler(st, fin, log)

All group routes take the share code as the {code} path value. Codes are
matched case-insensitively; an unknown code is a 404.

# Joining

The first person to join an empty group becomes the host and needs no
invite. Everyone after that must join with a contact that normalizes to an
existing invite. Each invite admits one member.

# Voting

Every accepted vote is followed by a finalize pass. Once a restaurant
reaches the yes threshold, or the deadline passes with at least one member,
the group closes and later votes are ignored. Refreshing restaurants
replaces the list and clears all votes, and is refused once the group is
closed.
*/
package handlers
