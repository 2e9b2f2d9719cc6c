// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Message is a channel-neutral notification. SMS uses only Text.
type Message struct {
	Subject string
	Text    string
}

// InviteData holds data for the invite message
type InviteData struct {
	GroupName string
	Link      string
	Deadline  time.Time
}

// BuildInviteMessage creates the "you're invited" message
func BuildInviteMessage(data InviteData) Message {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("You're invited to help pick where %s eats.\n\n", data.GroupName))
	buf.WriteString("Vote on nearby restaurants here:\n")
	buf.WriteString(data.Link + "\n\n")
	buf.WriteString(fmt.Sprintf("Voting closes %s (%s).\n",
		humanize.Time(data.Deadline), data.Deadline.UTC().Format("Mon Jan 2, 3:04 PM MST")))

	return Message{
		Subject: fmt.Sprintf("Join %s on chowsr", data.GroupName),
		Text:    buf.String(),
	}
}

// ResultData holds data for the result message
type ResultData struct {
	GroupName      string
	MemberName     string
	RestaurantName string
	Cuisine        string
	Distance       string
	Link           string
}

// BuildResultMessage creates the "we picked a place" message
func BuildResultMessage(data ResultData) Message {
	var buf bytes.Buffer
	if data.MemberName != "" {
		buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.MemberName))
	}
	buf.WriteString(fmt.Sprintf("%s picked %s", data.GroupName, data.RestaurantName))

	var details []string
	if data.Cuisine != "" {
		details = append(details, data.Cuisine)
	}
	if data.Distance != "" {
		details = append(details, data.Distance)
	}
	if len(details) > 0 {
		buf.WriteString(" (" + strings.Join(details, ", ") + ")")
	}
	buf.WriteString(".\n\n")
	buf.WriteString("See the results: " + data.Link + "\n")

	return Message{
		Subject: fmt.Sprintf("%s is going to %s", data.GroupName, data.RestaurantName),
		Text:    buf.String(),
	}
}
