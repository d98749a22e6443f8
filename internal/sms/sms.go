package sms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/merabestie/sellerhub/config"
	"github.com/pkg/errors"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// New returns a Twilio sender when SMS is enabled and configured, nil otherwise.
func New(cfg config.SmsConfig) Sender {
	if !cfg.Enabled || cfg.AccountSid == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil
	}
	return NewTwilioSender(cfg)
}

// TwilioSender talks to the Twilio Messages REST resource, or anything
// that speaks the same form-encoded protocol.
type TwilioSender struct {
	baseURL    string
	accountSid string
	authToken  string
	from       string
	timeout    time.Duration
}

func NewTwilioSender(cfg config.SmsConfig) *TwilioSender {
	return &TwilioSender{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accountSid: cfg.AccountSid,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		timeout:    10 * time.Second,
	}
}

type twilioReply struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	url := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountSid)

	var reply twilioReply
	var code int
	err := gout.POST(url).
		WithContext(ctx).
		SetTimeout(s.timeout).
		SetBasicAuth(s.accountSid, s.authToken).
		SetWWWForm(gout.H{
			"To":   to,
			"From": s.from,
			"Body": body,
		}).
		BindJSON(&reply).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "sms request")
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return errors.Errorf("sms rejected with status %d: %s", code, reply.Message)
	}
	return nil
}
