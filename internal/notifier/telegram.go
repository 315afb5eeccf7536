package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Message is one outgoing notification.
type Message struct {
	Text string
	HTML bool
	// Silent delivers the message without a sound on the recipient's device.
	Silent bool
}

// Notifier delivers messages somewhere.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// TelegramNotifier sends messages via the Telegram Bot API, retrying failed sends.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	BaseURL    string
	MaxRetries int
	// Backoff is the first retry delay; it doubles after every failed attempt.
	Backoff time.Duration
	Client  *http.Client
	Logger  zerolog.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger zerolog.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken:   botToken,
		ChatID:     chatID,
		BaseURL:    "https://api.telegram.org",
		MaxRetries: 3,
		Backoff:    time.Second,
		Client:     &http.Client{Timeout: 30 * time.Second, Transport: transport},
		Logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

// Send makes a single sendMessage call.
func (t *TelegramNotifier) Send(ctx context.Context, msg Message) error {
	payload := sendMessageRequest{ChatID: t.ChatID, Text: msg.Text, DisableNotification: msg.Silent}
	if msg.HTML {
		payload.ParseMode = "HTML"
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Notify sends msg, retrying up to MaxRetries times with exponential backoff.
func (t *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	backoff := t.Backoff
	var lastErr error
	for attempt := 0; attempt <= t.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if lastErr = t.Send(ctx, msg); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.Logger.Warn().Err(lastErr).Int("attempt", attempt+1).Int("max", t.MaxRetries+1).Msg("telegram send failed")
	}
	return fmt.Errorf("all %d attempts failed: %w", t.MaxRetries+1, lastErr)
}

// NoopNotifier drops every message. Used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Message) error { return nil }
