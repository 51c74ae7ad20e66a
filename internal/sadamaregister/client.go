// Package sadamaregister is a client for the Estonian harbor register's JSON
// endpoints.
package sadamaregister

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/siimots/sadamad-data/internal/fetcher"
	"github.com/siimots/sadamad-data/internal/model"
)

// DefaultBaseURL is the public register.
const DefaultBaseURL = "https://www.sadamaregister.ee"

// ErrSchema marks a response body that is not the expected JSON shape.
var ErrSchema = eris.New("sadamaregister: unexpected response shape")

// Client fetches the port listing and port details.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewClient creates a client for the register at baseURL.
func NewClient(f fetcher.Fetcher, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// PortsURL returns the listing endpoint.
func (c *Client) PortsURL() string {
	return c.baseURL + "/ports"
}

// PortURL returns the detail endpoint of one port.
func (c *Client) PortURL(id model.PortID) string {
	return c.baseURL + "/ports/" + url.PathEscape(id.String()) + "/json"
}

// FetchPortSummaries returns every port in the listing, in listing order.
func (c *Client) FetchPortSummaries(ctx context.Context) ([]model.RawPortSummary, error) {
	u := c.PortsURL()
	body, err := c.fetcher.Download(ctx, u)
	if err != nil {
		return nil, eris.Wrap(err, "sadamaregister: fetch port list")
	}
	defer body.Close() //nolint:errcheck

	ports, err := fetcher.DecodeJSONArray[model.RawPortSummary](ctx, body)
	if err != nil {
		return nil, eris.Wrapf(ErrSchema, "decode port list from %s: %v", u, err)
	}
	return ports, nil
}

// FetchPortDetail returns the detail record of one port.
func (c *Client) FetchPortDetail(ctx context.Context, id model.PortID) (model.RawPortDetail, error) {
	u := c.PortURL(id)
	body, err := c.fetcher.Download(ctx, u)
	if err != nil {
		return model.RawPortDetail{}, eris.Wrapf(err, "sadamaregister: fetch port %s", id)
	}
	defer body.Close() //nolint:errcheck

	detail, err := fetcher.DecodeJSONObject[model.RawPortDetail](body)
	if err != nil {
		return model.RawPortDetail{}, eris.Wrapf(ErrSchema, "decode port %s from %s: %v", id, u, err)
	}
	return *detail, nil
}
