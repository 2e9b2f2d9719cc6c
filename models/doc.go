// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

All JSON uses camelCase keys to match the web client.

# Domain Types

  - Group: the voting session (aggregate root). Status is "open" or "closed";
    DecidedRestaurantID/DecidedAt are written together by the close
    transition, ResultSentAt once the result notification is claimed.
  - Invite: authorization for one contact to join; Normalized is the lookup
    key. Status: pending, sent, skipped, failed, joined.
  - Member: someone who joined through an invite.
  - Restaurant: one lookup result, ID scoped by group. Position keeps the
    ranked order and is not serialized.
  - Vote: one yes/no per (group, restaurant, member).

# Computed Types

  - VoteSummary: restaurant ID → VoteTally{Yes, No}
  - GroupStatus: threshold, deadline, consensus and winner, completion

# Request Types

  - CreateGroupRequest: name, locationType, locationValue, radius, deadline
  - AddInvitesRequest: invites [{type, value}]
  - JoinRequest: name, type, contact
  - VoteRequest: memberId, restaurantId, decision ("yes", "no" or null)

# Response Types

  - GroupStateResponse: everything the client renders for a group
  - RefreshRestaurantsResponse: status "success" or "empty"
  - VoteResponse: group, restaurants, summary, status
  - ErrorResponse: error, message
*/
package models
