// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TwilioSMS sends text messages through the Twilio Messages REST API
type TwilioSMS struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	Client     *http.Client
}

func NewTwilioSMS(accountSID, authToken, from, baseURL string) *TwilioSMS {
	return &TwilioSMS{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Client:     http.DefaultClient,
	}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendSMS posts one message. Non-2xx responses are returned as errors
// carrying Twilio's message text.
func (s *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.BaseURL, url.PathEscape(s.AccountSID))
	form := url.Values{
		"To":   {to},
		"From": {s.From},
		"Body": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var te twilioError
		if json.NewDecoder(resp.Body).Decode(&te) == nil && te.Message != "" {
			return fmt.Errorf("twilio status %d: %s (code %d)", resp.StatusCode, te.Message, te.Code)
		}
		return fmt.Errorf("twilio status %d", resp.StatusCode)
	}
	return nil
}
