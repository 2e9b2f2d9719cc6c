// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/chowsr/cliparse"
	"github.com/danielhkuo/chowsr/models"
	"go.uber.org/zap"
)

// ErrChannelDisabled is returned when the contact's channel is turned off or
// not configured. Callers record the invite as skipped.
var ErrChannelDisabled = errors.New("notification channel disabled")

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Dispatcher routes invite and result messages to the email or SMS channel
// by contact type. A nil sender means the channel is disabled.
type Dispatcher struct {
	email   EmailSender
	sms     SMSSender
	baseURL string
	log     *zap.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, baseURL string, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		email:   email,
		sms:     sms,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// FromConfig builds a Dispatcher with whichever channels are enabled and
// fully configured.
func FromConfig(cfg cliparse.Config, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}

	var email EmailSender
	if cfg.EmailEnabled {
		if cfg.SMTPHost == "" || cfg.MailFrom == "" {
			log.Warn("email enabled but SMTP_HOST or MAIL_FROM missing; email disabled")
		} else {
			email = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		}
	}

	var sms SMSSender
	if cfg.SMSEnabled {
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
			log.Warn("sms enabled but Twilio credentials missing; sms disabled")
		} else {
			sms = NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.TwilioBaseURL)
		}
	}

	log.Info("notification channels",
		zap.Bool("email", email != nil),
		zap.Bool("sms", sms != nil))

	return NewDispatcher(email, sms, cfg.PublicBaseURL, log)
}

// GroupLink is the shareable URL for a group
func (d *Dispatcher) GroupLink(code string) string {
	return d.baseURL + "/g/" + code
}

// SendInvite delivers the invite link to one contact
func (d *Dispatcher) SendInvite(ctx context.Context, group models.Group, invite models.Invite) error {
	msg := BuildInviteMessage(InviteData{
		GroupName: group.Name,
		Link:      d.GroupLink(group.Code),
		Deadline:  group.Deadline,
	})
	return d.send(ctx, invite.Type, invite.Normalized, msg)
}

// SendResult tells one member where the group is going
func (d *Dispatcher) SendResult(ctx context.Context, group models.Group, restaurant models.Restaurant, member models.Member) error {
	msg := BuildResultMessage(ResultData{
		GroupName:      group.Name,
		MemberName:     member.Name,
		RestaurantName: restaurant.Name,
		Cuisine:        restaurant.Cuisine,
		Distance:       restaurant.Distance,
		Link:           d.GroupLink(group.Code),
	})
	return d.send(ctx, member.ContactType, member.ContactValue, msg)
}

func (d *Dispatcher) send(ctx context.Context, contactType, to string, msg Message) error {
	switch contactType {
	case models.ContactEmail:
		if d.email == nil {
			return ErrChannelDisabled
		}
		return d.email.SendEmail(ctx, to, msg.Subject, msg.Text)
	case models.ContactPhone:
		if d.sms == nil {
			return ErrChannelDisabled
		}
		return d.sms.SendSMS(ctx, to, msg.Text)
	default:
		return fmt.Errorf("unknown contact type %q", contactType)
	}
}

// InviteOutcome maps a SendInvite error to the stored invite status
func InviteOutcome(err error) string {
	switch {
	case err == nil:
		return models.InviteSent
	case errors.Is(err, ErrChannelDisabled):
		return models.InviteSkipped
	default:
		return models.InviteFailed
	}
}
