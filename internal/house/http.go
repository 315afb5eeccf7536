package house

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"GambleBench/internal/model"
)

// HTTPHouse calls the remote gamble endpoint with one GET per gamble.
type HTTPHouse struct {
	URL    string
	Client *http.Client
	Logger zerolog.Logger
}

// NewHTTPHouse creates a client with optional proxy support. A zero timeout means
// requests are bounded only by the caller's context.
func NewHTTPHouse(endpoint, proxyURL string, timeout time.Duration, logger zerolog.Logger) *HTTPHouse {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPHouse{
		URL: endpoint,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Logger: logger,
	}
}

func (h *HTTPHouse) Name() string { return "http" }

// Gamble sends amount_bet and win_percentage as query parameters. The body is decoded
// whatever the status code; absent won/amount_won fields decode as false/0.
func (h *HTTPHouse) Gamble(ctx context.Context, g model.Gamble) (*model.GambleOutcome, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return nil, fmt.Errorf("parse house url: %w", err)
	}
	q := u.Query()
	q.Set("amount_bet", strconv.FormatFloat(g.AmountBet, 'f', -1, 64))
	q.Set("win_percentage", strconv.FormatFloat(g.WinPercentage, 'f', -1, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gamble request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gamble read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		h.Logger.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("house returned non-200")
	}

	out := &model.GambleOutcome{AmountBet: g.AmountBet, WinPercentage: g.WinPercentage}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("gamble decode (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}
