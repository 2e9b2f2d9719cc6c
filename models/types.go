// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Group status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Contact type constants
const (
	ContactEmail = "email"
	ContactPhone = "phone"
)

// Invite status constants
const (
	InvitePending = "pending"
	InviteSent    = "sent"
	InviteSkipped = "skipped"
	InviteFailed  = "failed"
	InviteJoined  = "joined"
)

// Vote decision constants
const (
	DecisionYes = "yes"
	DecisionNo  = "no"
)

// Request types

type CreateGroupRequest struct {
	Name          string     `json:"name"`
	LocationType  string     `json:"locationType"`
	LocationValue string     `json:"locationValue"`
	Radius        float64    `json:"radius"`
	Deadline      *time.Time `json:"deadline"`
}

type InviteInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type AddInvitesRequest struct {
	Invites []InviteInput `json:"invites"`
}

type JoinRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Contact string `json:"contact"`
}

// nil Decision removes the vote
type VoteRequest struct {
	MemberID     string  `json:"memberId"`
	RestaurantID string  `json:"restaurantId"`
	Decision     *string `json:"decision"`
}

// Domain types

type Group struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	Name                string     `json:"name"`
	LocationType        string     `json:"locationType"`
	LocationValue       string     `json:"locationValue"`
	Radius              float64    `json:"radius"`
	Deadline            time.Time  `json:"deadline"`
	CreatedAt           time.Time  `json:"createdAt"`
	Status              string     `json:"status"`
	DecidedRestaurantID *string    `json:"decidedRestaurantId"`
	DecidedAt           *time.Time `json:"decidedAt"`
	ResultSentAt        *time.Time `json:"resultSentAt"`
}

type Invite struct {
	ID         string     `json:"id"`
	GroupID    string     `json:"groupId"`
	Type       string     `json:"type"`
	Value      string     `json:"value"`
	Normalized string     `json:"normalized"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	SentAt     *time.Time `json:"sentAt"`
	JoinedAt   *time.Time `json:"joinedAt"`
	Error      *string    `json:"error"`
}

type Member struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"groupId"`
	Name         string    `json:"name"`
	ContactType  string    `json:"contactType"`
	ContactValue string    `json:"contactValue"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type Restaurant struct {
	ID            string  `json:"id"`
	GroupID       string  `json:"groupId"`
	Name          string  `json:"name"`
	Cuisine       string  `json:"cuisine"`
	DistanceMiles float64 `json:"distanceMiles"`
	Distance      string  `json:"distance"`
	Position      int     `json:"-"`
}

type Vote struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"groupId"`
	RestaurantID string    `json:"restaurantId"`
	MemberID     string    `json:"memberId"`
	Decision     string    `json:"decision"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VoteTally is the yes/no count for one restaurant
type VoteTally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

// VoteSummary maps restaurant ID to its tally
type VoteSummary map[string]VoteTally

// GroupStatus is the computed consensus state of a group
type GroupStatus struct {
	Threshold             int     `json:"threshold"`
	MemberCount           int     `json:"memberCount"`
	DeadlineReached       bool    `json:"deadlineReached"`
	ConsensusRestaurantID *string `json:"consensusRestaurantId"`
	WinnerRestaurantID    *string `json:"winnerRestaurantId"`
	VotingComplete        bool    `json:"votingComplete"`
}

// Response types

type HealthResponse struct {
	OK bool `json:"ok"`
}

type GroupStateResponse struct {
	Group       Group        `json:"group"`
	Invites     []Invite     `json:"invites"`
	Members     []Member     `json:"members"`
	Restaurants []Restaurant `json:"restaurants"`
	Summary     VoteSummary  `json:"summary"`
	Status      GroupStatus  `json:"status"`
}

type InvitesResponse struct {
	Invites []Invite `json:"invites"`
}

type JoinResponse struct {
	Group   Group    `json:"group"`
	Member  Member   `json:"member"`
	Members []Member `json:"members"`
}

type MembersResponse struct {
	Members []Member `json:"members"`
}

type RestaurantsResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
}

// Lookup outcome values for RefreshRestaurantsResponse.Status
const (
	LookupSuccess = "success"
	LookupEmpty   = "empty"
)

type RefreshRestaurantsResponse struct {
	Status      string       `json:"status"`
	Restaurants []Restaurant `json:"restaurants"`
	Summary     VoteSummary  `json:"summary"`
}

type VoteResponse struct {
	Group       Group        `json:"group"`
	Restaurants []Restaurant `json:"restaurants"`
	Summary     VoteSummary  `json:"summary"`
	Status      GroupStatus  `json:"status"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
