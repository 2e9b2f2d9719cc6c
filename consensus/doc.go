// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package consensus computes a group's voting status from its vote summary.

# Threshold

Consensus is reached when one restaurant collects Threshold(members) yes
votes, where

	Threshold(m) = max(1, ceil(0.66 * m))

so 1 member needs 1, 3 members need 2, 10 members need 7.

# Status

Compute returns a models.GroupStatus:

  - DeadlineReached: now >= group deadline
  - ConsensusRestaurantID: first restaurant (list order) at or above threshold
  - WinnerRestaurantID: the already-decided restaurant, else the consensus
    restaurant, else (deadline passed and members exist) SelectWinner
  - VotingComplete: group closed, or members exist and the deadline passed
    or consensus was found

# Deadline Winner

SelectWinner ranks restaurants with at least one yes vote:

 1. Higher yes - no wins
 2. More yes votes wins
 3. Earlier position in the restaurant list wins

Nothing is returned when no restaurant has a yes vote.
*/
package consensus
