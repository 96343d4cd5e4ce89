package kustodian

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kustodian/sunburst/pkg/buildinfo"
	"github.com/kustodian/sunburst/pkg/cache"
	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
	"github.com/kustodian/sunburst/pkg/info"
	"github.com/kustodian/sunburst/pkg/integrations"
)

// DefaultBaseURL is the public demo deployment.
const DefaultBaseURL = "https://demo.kustodian.org/api"

// Container is one entry of the overview report.
type Container struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Size           float64 `json:"size"`
	PercentageFull float64 `json:"percentageFull"`
}

// Client talks to one Kustodian deployment. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
// Responses are cached in backend for cacheTTL.
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{
		"User-Agent": UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "kustodian:", cacheTTL, headers),
		baseURL: baseURL,
		keyer:   cache.NewDefaultKeyer(),
	}
}

// UserAgent returns the User-Agent sent with every request.
func UserAgent() string {
	return "sunburst/" + buildinfo.Version + " (+https://github.com/kustodian/sunburst)"
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// SetKeyer replaces the cache keyer, e.g. with a scoped one.
func (c *Client) SetKeyer(k cache.Keyer) {
	if k != nil {
		c.keyer = k
	}
}

// FetchTree returns the raw report document for a container, ready for
// [capacity.Build]. With refresh set the cache is bypassed.
//
// Returns [integrations.ErrNotFound] (wrapped) for unknown containers and
// [integrations.ErrNetwork] for transport failures.
func (c *Client) FetchTree(ctx context.Context, containerID int64, refresh bool) (map[string]any, error) {
	if containerID <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "container id must be positive, got %d", containerID)
	}
	url := integrations.JoinURL(c.baseURL, "report", "sunburst", strconv.FormatInt(containerID, 10))

	var doc map[string]any
	err := c.Cached(ctx, c.keyer.TreeKey(c.baseURL, containerID), refresh, &doc, func() error {
		doc = nil
		return c.Get(ctx, url, &doc)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: container %d", err, containerID)
		}
		return nil, err
	}
	if doc == nil {
		return nil, errs.New(errs.ErrCodeMalformedTree, "container %d: empty report", containerID)
	}
	return doc, nil
}

// FetchItem looks up a catalog item. It makes exactly one request and does
// not use the cache. It satisfies [info.ItemLookup].
func (c *Client) FetchItem(ctx context.Context, itemID int64) (*info.Item, error) {
	url := integrations.JoinURL(c.baseURL, "item", strconv.FormatInt(itemID, 10))

	var data itemResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %d", err, itemID)
		}
		return nil, err
	}
	return data.item(), nil
}

// FetchOverview lists the top-level containers with their fill levels.
func (c *Client) FetchOverview(ctx context.Context, refresh bool) ([]Container, error) {
	url := integrations.JoinURL(c.baseURL, "report", "dewars")

	var out []Container
	err := c.Cached(ctx, c.keyer.HTTPKey("overview", c.baseURL), refresh, &out, func() error {
		out = nil
		return c.Get(ctx, url, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type itemResponse struct {
	Patient      string `json:"patient"`
	ExpiryDate   string `json:"expiryDate"`
	BorderColour string `json:"borderColour"`
	ItemType     string `json:"itemType"`
	Remove       bool   `json:"remove"`
}

// item converts the wire record. An unparseable expiry date is dropped.
func (r itemResponse) item() *info.Item {
	it := &info.Item{
		Patient:      r.Patient,
		BorderColour: r.BorderColour,
		ItemType:     r.ItemType,
		Remove:       r.Remove,
	}
	if r.ExpiryDate != "" {
		if t, err := capacity.ParseExpiry(r.ExpiryDate); err == nil {
			it.ExpiryDate = &t
		}
	}
	return it
}

var _ info.ItemLookup = (*Client)(nil)
