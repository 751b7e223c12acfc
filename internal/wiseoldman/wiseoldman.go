package wiseoldman

import (
	"bossbot/internal/common"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DEFAULT_URL = "https://api.wiseoldman.net/v2"

// Routes inside the Wise Old Man API
const ROUTE_PLAYER = "/players/%s"

const REQUEST_TIMEOUT = 15 * time.Second

// Client of the Wise Old Man players endpoint.
// Requests are not rate limited here: callers share a common.RateLimiter
type Client struct {
	baseUrl string
	proxy   common.Proxy
}

// The contact is sent in the User-Agent, as the API asks
// every client to identify itself
func NewClient(baseUrl string, contact string) *Client {

	baseUrl = strings.TrimRight(baseUrl, "/")
	if baseUrl == "" {
		baseUrl = DEFAULT_URL
	}
	userAgent := "bossbot"
	if contact != "" {
		userAgent = fmt.Sprintf("bossbot (%s)", contact)
	}
	header := map[string]string{"User-Agent": userAgent, "Accept": "application/json"}
	return &Client{baseUrl: baseUrl, proxy: common.NewProxy(header, REQUEST_TIMEOUT)}
}

func (client *Client) FetchPlayer(ctx context.Context, username string) (Snapshot, error) {

	// Request
	endpoint := client.baseUrl + fmt.Sprintf(ROUTE_PLAYER, url.PathEscape(username))
	data, err := client.proxy.Request(ctx, endpoint)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch player %s: %s", username, err))
		return Snapshot{}, err
	}

	// Decode
	snapshot, err := UnmarshalSnapshot(data)
	if err != nil {
		return Snapshot{}, common.Wrap(common.UpstreamError, fmt.Sprintf("unexpected data for player %s", username), err)
	}
	log.Debug().Msg(fmt.Sprintf("Fetched snapshot of %s", &snapshot))
	return snapshot, nil
}
