// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify sends invite and result messages over email and SMS.

A Dispatcher picks the channel from the contact type: "email" goes through
an SMTPMailer, "phone" through TwilioSMS. Each channel is enabled
independently; a disabled channel yields ErrChannelDisabled, which
InviteOutcome maps to the "skipped" invite status.

Message bodies are plain text built by BuildInviteMessage and
BuildResultMessage. Both link to PUBLIC_BASE_URL + "/g/" + code.
*/
package notify
