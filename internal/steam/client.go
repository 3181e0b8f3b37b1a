// Package steam fetches a player's owned games from the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

const defaultBaseURL = "http://api.steampowered.com"

// OwnedGame is one entry of the owned-games list.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"` // minutes
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// Client calls the Steam Web API with a bounded timeout and retry budget.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a Client. The timeout bounds each HTTP attempt.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL constructs a Client against a non-default endpoint.
func NewClientWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, timeout)
	c.baseURL = baseURL
	return c
}

// OwnedGames returns the owned-games list for a Steam account id. Transient
// failures (network errors, 5xx) are retried with exponential backoff.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamid", steamID)
	q.Set("format", "json")
	q.Set("include_appinfo", "1")
	endpoint := c.baseURL + "/IPlayerService/GetOwnedGames/v0001/?" + q.Encode()

	var games []OwnedGame
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("steam api status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("steam api status %d", resp.StatusCode)
		}

		var parsed ownedGamesResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("decode owned games: %w", err)
		}
		games = parsed.Response.Games
		return nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}
