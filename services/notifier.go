package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// Messenger delivers a text message to a phone number and reports the
// channel it used.
type Messenger interface {
	Send(ctx context.Context, to, body string) (channel string, err error)
}

// Mailer delivers a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type TwilioMessenger struct {
	client       *twilio.RestClient
	phoneNumber  string
	whatsAppFrom string
}

func NewTwilioMessenger(accountSID, authToken, phoneNumber, whatsAppNumber string) *TwilioMessenger {
	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		phoneNumber:  phoneNumber,
		whatsAppFrom: whatsAppNumber,
	}
}

// Send uses WhatsApp for numbers in international (+) form when a WhatsApp
// sender is configured, and SMS otherwise.
func (m *TwilioMessenger) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	channel := ChannelSMS
	if strings.HasPrefix(to, "+") && m.whatsAppFrom != "" {
		channel = ChannelWhatsApp
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + m.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(m.phoneNumber)
	}

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return channel, fmt.Errorf("twilio send: %w", err)
	}
	if resp.Sid == nil {
		return channel, fmt.Errorf("twilio send: no message SID returned")
	}
	return channel, nil
}

// LogMessenger stands in when no SMS provider is configured.
type LogMessenger struct {
	Log *zap.Logger
}

func (m LogMessenger) Send(ctx context.Context, to, body string) (string, error) {
	m.Log.Info("message not sent, no provider configured", zap.String("to", to), zap.String("body", body))
	return ChannelSMS, nil
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer stands in when SMTP is not configured.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Log.Info("email not sent, SMTP not configured", zap.String("to", to), zap.String("subject", subject))
	return nil
}
