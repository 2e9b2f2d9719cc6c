// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"sort"
	"time"

	"github.com/danielhkuo/chowsr/models"
)

// Consensus is 66% of members, expressed as a fraction to keep the
// threshold arithmetic exact.
const (
	consensusNumerator   = 66
	consensusDenominator = 100
)

// Threshold returns the yes-vote count that closes voting early:
// max(1, ceil(memberCount * 0.66)).
func Threshold(memberCount int) int {
	if memberCount <= 0 {
		return 1
	}
	t := (memberCount*consensusNumerator + consensusDenominator - 1) / consensusDenominator
	if t < 1 {
		return 1
	}
	return t
}

// Input is everything needed to compute a group's status
type Input struct {
	Group       models.Group
	MemberCount int
	Summary     models.VoteSummary
	Restaurants []models.Restaurant
}

// Compute derives the group's consensus status at the given time
func Compute(in Input, now time.Time) models.GroupStatus {
	status := models.GroupStatus{
		Threshold:       Threshold(in.MemberCount),
		MemberCount:     in.MemberCount,
		DeadlineReached: !now.Before(in.Group.Deadline),
	}

	// First restaurant in list order to reach the threshold
	for _, r := range in.Restaurants {
		if in.Summary[r.ID].Yes >= status.Threshold {
			id := r.ID
			status.ConsensusRestaurantID = &id
			break
		}
	}

	hasMembers := in.MemberCount > 0

	switch {
	case in.Group.DecidedRestaurantID != nil:
		id := *in.Group.DecidedRestaurantID
		status.WinnerRestaurantID = &id
	case status.ConsensusRestaurantID != nil:
		id := *status.ConsensusRestaurantID
		status.WinnerRestaurantID = &id
	case status.DeadlineReached && hasMembers:
		if id := SelectWinner(in.Summary, in.Restaurants); id != "" {
			status.WinnerRestaurantID = &id
		}
	}

	// An empty group never completes through the deadline path
	status.VotingComplete = in.Group.Status == models.StatusClosed ||
		(hasMembers && (status.DeadlineReached || status.ConsensusRestaurantID != nil))

	return status
}

type candidate struct {
	id    string
	index int
	yes   int
	score int
}

// SelectWinner picks the deadline winner among restaurants with at least one
// yes vote. Returns "" when nobody voted yes.
func SelectWinner(summary models.VoteSummary, restaurants []models.Restaurant) string {
	var candidates []candidate
	for i, r := range restaurants {
		tally := summary[r.ID]
		if tally.Yes <= 0 {
			continue
		}
		candidates = append(candidates, candidate{
			id:    r.ID,
			index: i,
			yes:   tally.Yes,
			score: tally.Yes - tally.No,
		})
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		// 1. Higher net score wins
		if a.score != b.score {
			return a.score > b.score
		}

		// 2. More yes votes wins
		if a.yes != b.yes {
			return a.yes > b.yes
		}

		// 3. Earliest listed wins
		return a.index < b.index
	})

	return candidates[0].id
}
